package main

import (
	"context"
	"log"

	"resume-matcher/internal/config"
	"resume-matcher/internal/logger"
	"resume-matcher/internal/repositories"
	"resume-matcher/internal/services"
)

// Rebuilds the qdrant embedding index from the relational store. Run after
// changing the embedding model or wiping the collection.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if !cfg.Qdrant.Enabled {
		log.Fatal("qdrant is disabled, nothing to reindex")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Worker.RetryInitialDelay,
		zlog,
	)
	if err != nil {
		log.Fatalf("failed to initialize gemini: %v", err)
	}

	var embedder services.Embedder = geminiService
	if cfg.Matcher.Embedder == "hashing" {
		embedder = services.NewHashingEmbedder()
	}

	vectorIndex, err := services.NewVectorIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		embedder,
		zlog,
	)
	if err != nil {
		log.Fatalf("failed to initialize qdrant: %v", err)
	}
	if err := vectorIndex.InitCollection(); err != nil {
		log.Fatalf("failed to initialize collection: %v", err)
	}

	resumeRepo := repositories.NewResumeRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	ctx := context.Background()
	successCount := 0
	failCount := 0

	resumes, err := resumeRepo.FindAll(0)
	if err != nil {
		log.Fatalf("failed to list resumes: %v", err)
	}
	for _, resume := range resumes {
		if err := vectorIndex.IndexProfile(ctx, resume.ID.String(), "resume", resume.RawResumeText); err != nil {
			log.Printf("failed to index resume %s: %v", resume.ID, err)
			failCount++
			continue
		}
		successCount++
	}

	jobs, err := jobRepo.FindAll(0)
	if err != nil {
		log.Fatalf("failed to list jobs: %v", err)
	}
	for _, job := range jobs {
		if err := vectorIndex.IndexProfile(ctx, job.ID.String(), "job", job.RawJobdescText); err != nil {
			log.Printf("failed to index job %s: %v", job.ID, err)
			failCount++
			continue
		}
		successCount++
	}

	log.Printf("reindex finished: %d indexed, %d failed", successCount, failCount)
}
