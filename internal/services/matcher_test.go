package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"resume-matcher/internal/models"
)

const (
	testResumeText = "John Smith\njohn@x.com\n555-123-4567\nSkills\nGo, SQL\nExperience\nPayments at Acme Corp since 2019.\n"
	testJobText    = "Backend Engineer at Acme Corp.\nQualifications\n5 years Go and SQL.\n"
)

func newTestOrchestrator(t *testing.T, llm TextGenerator) (*MatchOrchestrator, *fakeResumeRepo, *fakeJobRepo, *fakeMatchRepo) {
	t.Helper()
	resumeRepo := newFakeResumeRepo()
	jobRepo := newFakeJobRepo()
	matchRepo := newFakeMatchRepo()

	extractor, err := NewEntityExtractor(BackendPattern)
	if err != nil {
		t.Fatalf("NewEntityExtractor: %v", err)
	}
	scorer := NewKeywordScorer(extractor, NewHashingEmbedder(), zap.NewNop())
	pipeline := NewExtractionPipeline(llm, resumeRepo, jobRepo, matchRepo, nil, 3, zap.NewNop())
	orchestrator := NewMatchOrchestrator(resumeRepo, jobRepo, matchRepo, pipeline, scorer, zap.NewNop())
	return orchestrator, resumeRepo, jobRepo, matchRepo
}

func TestMatchFullPipeline(t *testing.T) {
	llm := &scriptedLLM{
		resumeResponse: testResumeJSON,
		jobResponse:    testJobJSON,
		matchResponse:  testMatchJSON,
	}
	orchestrator, resumeRepo, jobRepo, matchRepo := newTestOrchestrator(t, llm)

	response := orchestrator.Match(context.Background(), models.MatchRequest{
		ResumeText: testResumeText,
		JobText:    testJobText,
	})

	if len(response.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", response.Errors)
	}
	if response.ResumeID == "" || response.JobID == "" || response.MatchID == "" {
		t.Fatalf("missing ids in response: %+v", response)
	}
	if response.Cached {
		t.Error("first match must not be cached")
	}
	if response.Scores.OverallScore != 78 {
		t.Errorf("overall score = %d, want 78", response.Scores.OverallScore)
	}
	if response.Scores.ExactMatch <= 0 {
		t.Errorf("exact match = %v, want > 0", response.Scores.ExactMatch)
	}
	if response.Feedback != "Good fit" {
		t.Errorf("feedback = %q", response.Feedback)
	}
	if len(resumeRepo.byEmail) != 1 || len(jobRepo.byExternalID) != 1 || len(matchRepo.byPair) != 1 {
		t.Error("expected exactly one record per store")
	}
}

func TestMatchPairComparedAtMostOnce(t *testing.T) {
	llm := &scriptedLLM{
		resumeResponse: testResumeJSON,
		jobResponse:    testJobJSON,
		matchResponse:  testMatchJSON,
	}
	orchestrator, _, _, _ := newTestOrchestrator(t, llm)

	req := models.MatchRequest{
		ResumeText:    testResumeText,
		JobText:       testJobText,
		ExternalJobID: "JOB-42",
	}

	first := orchestrator.Match(context.Background(), req)
	second := orchestrator.Match(context.Background(), req)

	if llm.matchCalls != 1 {
		t.Fatalf("comparison calls = %d, want 1", llm.matchCalls)
	}
	if !second.Cached {
		t.Error("second match should be served from the stored verdict")
	}
	if first.MatchID != second.MatchID {
		t.Errorf("match ids differ: %s vs %s", first.MatchID, second.MatchID)
	}
	if first.Feedback != second.Feedback || first.Recomendation != second.Recomendation {
		t.Error("cached verdict should be returned verbatim")
	}

	// The stored resume and job also short-circuit their extractions.
	if llm.resumeCalls != 1 {
		t.Errorf("resume extraction calls = %d, want 1", llm.resumeCalls)
	}
	if llm.jobCalls != 1 {
		t.Errorf("job extraction calls = %d, want 1", llm.jobCalls)
	}
}

func TestMatchAccumulatesErrors(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("model unavailable")}
	orchestrator, _, _, _ := newTestOrchestrator(t, llm)

	response := orchestrator.Match(context.Background(), models.MatchRequest{
		ResumeText: testResumeText,
		JobText:    testJobText,
	})

	if len(response.Errors) == 0 {
		t.Fatal("expected accumulated errors")
	}
	// Deterministic scores survive an LLM outage.
	if response.Scores.ExactMatch <= 0 {
		t.Errorf("exact match = %v, want > 0 despite llm failure", response.Scores.ExactMatch)
	}
	if response.Errors == nil {
		t.Error("errors must be present, not nil")
	}
}

func TestMatchRejectsEmptyTexts(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(t, &scriptedLLM{})

	response := orchestrator.Match(context.Background(), models.MatchRequest{
		ResumeText: "  ",
		JobText:    "job",
	})

	if len(response.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly the validation error", response.Errors)
	}
}
