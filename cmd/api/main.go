package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resume-matcher/internal/config"
	"resume-matcher/internal/handlers"
	"resume-matcher/internal/logger"
	"resume-matcher/internal/repositories"
	"resume-matcher/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	resumeRepo := repositories.NewResumeRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	matchJobRepo := repositories.NewMatchJobRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}
	textProvider := services.NewRawTextProvider()

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Worker.RetryInitialDelay,
		zlog,
	)
	if err != nil {
		zlog.Fatal("failed to initialize gemini", zap.Error(err))
	}

	// Misconfigured backend or embedder names fail at startup, not on the
	// first request.
	entityExtractor, err := services.NewEntityExtractor(services.Backend(cfg.Matcher.EntityBackend))
	if err != nil {
		zlog.Fatal("invalid matcher configuration", zap.Error(err))
	}

	var embedder services.Embedder
	switch cfg.Matcher.Embedder {
	case "gemini":
		embedder = geminiService
	case "hashing":
		embedder = services.NewHashingEmbedder()
	default:
		zlog.Fatal("invalid matcher configuration",
			zap.String("embedder", cfg.Matcher.Embedder))
	}

	var vectorIndex services.VectorIndexService
	if cfg.Qdrant.Enabled {
		vectorIndex, err = services.NewVectorIndexService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			embedder,
			zlog,
		)
		if err != nil {
			zlog.Fatal("failed to initialize qdrant", zap.Error(err))
		}
		if err := vectorIndex.InitCollection(); err != nil {
			zlog.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}
	}

	scorer := services.NewKeywordScorer(entityExtractor, embedder, zlog)
	pipeline := services.NewExtractionPipeline(
		geminiService,
		resumeRepo,
		jobRepo,
		matchRepo,
		vectorIndex,
		cfg.Worker.RetryMaxAttempts,
		zlog,
	)
	orchestrator := services.NewMatchOrchestrator(
		resumeRepo,
		jobRepo,
		matchRepo,
		pipeline,
		scorer,
		zlog,
	)

	worker := services.NewWorker(matchJobRepo, orchestrator, cfg.Worker.Concurrency, zlog)
	worker.Start(context.Background())

	matchHandler := handlers.NewMatchHandler(
		orchestrator,
		matchJobRepo,
		worker,
		storageService,
		textProvider,
		zlog,
	)
	resultHandler := handlers.NewResultHandler(matchJobRepo, zlog)
	recordsHandler := handlers.NewRecordsHandler(resumeRepo, jobRepo, matchRepo)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/match/async", matchHandler.HandleMatchAsync)
	api.Post("/match/upload", matchHandler.HandleMatchUpload)
	api.Get("/match/result/:id", resultHandler.HandleGetResult)
	api.Get("/resumes", recordsHandler.HandleListResumes)
	api.Get("/jobs", recordsHandler.HandleListJobs)
	api.Get("/matches", recordsHandler.HandleListMatches)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/match",
				"POST /api/v1/match/async",
				"POST /api/v1/match/upload",
				"GET /api/v1/match/result/:id",
				"GET /api/v1/resumes",
				"GET /api/v1/jobs",
				"GET /api/v1/matches",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
