package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestPipeline(llm TextGenerator, resumeRepo *fakeResumeRepo, jobRepo *fakeJobRepo, matchRepo *fakeMatchRepo) *ExtractionPipeline {
	return NewExtractionPipeline(llm, resumeRepo, jobRepo, matchRepo, nil, 3, zap.NewNop())
}

func TestExtractResumeStoresProfile(t *testing.T) {
	llm := &scriptedLLM{resumeResponse: testResumeJSON}
	resumeRepo := newFakeResumeRepo()
	pipeline := newTestPipeline(llm, resumeRepo, newFakeJobRepo(), newFakeMatchRepo())

	outcome := pipeline.ExtractResume(context.Background(), "raw resume text", "")
	if len(outcome.Errs) != 0 {
		t.Fatalf("unexpected errors: %v", outcome.Errs)
	}
	if outcome.ResumeID == uuid.Nil {
		t.Fatal("expected a stored resume id")
	}

	stored := resumeRepo.byEmail["john@x.com"]
	if stored == nil {
		t.Fatal("resume not stored under normalized email")
	}
	if stored.Name != "John Smith" {
		t.Errorf("stored name = %q", stored.Name)
	}
	if stored.RawResumeText != "raw resume text" {
		t.Errorf("raw text = %q", stored.RawResumeText)
	}
}

func TestExtractResumeIdempotent(t *testing.T) {
	llm := &scriptedLLM{resumeResponse: testResumeJSON}
	resumeRepo := newFakeResumeRepo()
	pipeline := newTestPipeline(llm, resumeRepo, newFakeJobRepo(), newFakeMatchRepo())

	first := pipeline.ExtractResume(context.Background(), "raw resume text", "")
	second := pipeline.ExtractResume(context.Background(), "raw resume text", "")

	if len(resumeRepo.byEmail) != 1 {
		t.Fatalf("record count = %d, want 1", len(resumeRepo.byEmail))
	}
	if first.ResumeID != second.ResumeID {
		t.Errorf("ids differ across extractions: %s vs %s", first.ResumeID, second.ResumeID)
	}
}

func TestExtractResumeMissingEmailWritesNothing(t *testing.T) {
	llm := &scriptedLLM{resumeResponse: `{"name":"Anonymous","email":""}`}
	resumeRepo := newFakeResumeRepo()
	pipeline := newTestPipeline(llm, resumeRepo, newFakeJobRepo(), newFakeMatchRepo())

	outcome := pipeline.ExtractResume(context.Background(), "no email anywhere", "")

	if resumeRepo.upserts != 0 {
		t.Errorf("upserts = %d, want 0", resumeRepo.upserts)
	}
	if outcome.ResumeID != uuid.Nil {
		t.Error("expected no resume id")
	}

	found := false
	for _, err := range outcome.Errs {
		if strings.Contains(err.Error(), "missing primary key: email") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want missing primary key", outcome.Errs)
	}
}

func TestExtractResumeMalformedResponseStillPersists(t *testing.T) {
	llm := &scriptedLLM{resumeResponse: "I could not produce JSON, sorry."}
	resumeRepo := newFakeResumeRepo()
	pipeline := newTestPipeline(llm, resumeRepo, newFakeJobRepo(), newFakeMatchRepo())

	outcome := pipeline.ExtractResume(context.Background(), "raw resume text", "john@x.com")

	if len(outcome.Errs) == 0 {
		t.Fatal("expected a parse error")
	}
	if outcome.ResumeID == uuid.Nil {
		t.Fatal("raw response should still be stored under the fallback email")
	}

	stored := resumeRepo.byEmail["john@x.com"]
	if stored == nil {
		t.Fatal("resume not stored")
	}
	if stored.ResumeResponse != "I could not produce JSON, sorry." {
		t.Errorf("stored raw response = %q", stored.ResumeResponse)
	}
}

func TestExtractResumeStripsCodeFences(t *testing.T) {
	llm := &scriptedLLM{resumeResponse: "```json\n" + testResumeJSON + "\n```"}
	resumeRepo := newFakeResumeRepo()
	pipeline := newTestPipeline(llm, resumeRepo, newFakeJobRepo(), newFakeMatchRepo())

	outcome := pipeline.ExtractResume(context.Background(), "raw resume text", "")
	if len(outcome.Errs) != 0 {
		t.Fatalf("unexpected errors: %v", outcome.Errs)
	}
	if resumeRepo.byEmail["john@x.com"] == nil {
		t.Fatal("fenced response should parse and store")
	}
}

func TestExtractJobDerivesExternalID(t *testing.T) {
	llm := &scriptedLLM{jobResponse: testJobJSON}
	jobRepo := newFakeJobRepo()
	pipeline := newTestPipeline(llm, newFakeResumeRepo(), jobRepo, newFakeMatchRepo())

	outcome := pipeline.ExtractJob(context.Background(), "raw job text", "")
	if len(outcome.Errs) != 0 {
		t.Fatalf("unexpected errors: %v", outcome.Errs)
	}

	var storedKey string
	for key := range jobRepo.byExternalID {
		storedKey = key
	}
	if !strings.HasPrefix(storedKey, "derived-") {
		t.Errorf("external id = %q, want derived key", storedKey)
	}

	// Same posting, same derived key.
	again := pipeline.ExtractJob(context.Background(), "raw job text", "")
	if len(jobRepo.byExternalID) != 1 {
		t.Fatalf("record count = %d, want 1", len(jobRepo.byExternalID))
	}
	if outcome.JobID != again.JobID {
		t.Error("derived key should be stable across extractions")
	}
}

func TestExtractJobPrefersRequestHint(t *testing.T) {
	llm := &scriptedLLM{jobResponse: testJobJSON}
	jobRepo := newFakeJobRepo()
	pipeline := newTestPipeline(llm, newFakeResumeRepo(), jobRepo, newFakeMatchRepo())

	outcome := pipeline.ExtractJob(context.Background(), "raw job text", "JOB-42")
	if len(outcome.Errs) != 0 {
		t.Fatalf("unexpected errors: %v", outcome.Errs)
	}
	if jobRepo.byExternalID["JOB-42"] == nil {
		t.Errorf("stored keys = %v, want JOB-42", jobRepo.byExternalID)
	}
}

func TestCompareRequiresIDs(t *testing.T) {
	llm := &scriptedLLM{matchResponse: testMatchJSON}
	matchRepo := newFakeMatchRepo()
	pipeline := newTestPipeline(llm, newFakeResumeRepo(), newFakeJobRepo(), matchRepo)

	outcome := pipeline.Compare(context.Background(), "resume", "job", uuid.Nil, uuid.New())

	if matchRepo.upserts != 0 {
		t.Errorf("upserts = %d, want 0", matchRepo.upserts)
	}
	found := false
	for _, err := range outcome.Errs {
		if strings.Contains(err.Error(), "missing primary key") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want missing primary key", outcome.Errs)
	}
}

func TestCompareStoresVerdict(t *testing.T) {
	llm := &scriptedLLM{matchResponse: testMatchJSON}
	matchRepo := newFakeMatchRepo()
	pipeline := newTestPipeline(llm, newFakeResumeRepo(), newFakeJobRepo(), matchRepo)

	resumeID, jobID := uuid.New(), uuid.New()
	outcome := pipeline.Compare(context.Background(), "resume", "job", resumeID, jobID)
	if len(outcome.Errs) != 0 {
		t.Fatalf("unexpected errors: %v", outcome.Errs)
	}

	stored, _ := matchRepo.FindByPair(resumeID, jobID)
	if stored == nil {
		t.Fatal("verdict not stored")
	}
	if stored.OverallScore != 78 {
		t.Errorf("overall score = %d, want 78", stored.OverallScore)
	}
	if stored.Recomendation != "Highlight distributed systems work" {
		t.Errorf("recomendation = %q", stored.Recomendation)
	}
}
