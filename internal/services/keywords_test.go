package services

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"
)

func newTestScorer(t *testing.T) *KeywordScorer {
	t.Helper()
	extractor, err := NewEntityExtractor(BackendPattern)
	if err != nil {
		t.Fatalf("NewEntityExtractor: %v", err)
	}
	return NewKeywordScorer(extractor, NewHashingEmbedder(), zap.NewNop())
}

func TestScoreIdenticalTexts(t *testing.T) {
	text := "Senior Backend Engineer\n" +
		"Skills\n" +
		"Go, Postgres, Kafka, Terraform\n" +
		"Experience\n" +
		"Built payment services at Acme Corp since 2019.\n"

	scores, errs := newTestScorer(t).Score(context.Background(), text, text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if math.Abs(scores.ExactMatch-100) > 0.5 {
		t.Errorf("exact match = %v, want ~100", scores.ExactMatch)
	}
	if math.Abs(scores.SimilarityScore-100) > 0.5 {
		t.Errorf("similarity = %v, want ~100", scores.SimilarityScore)
	}
}

func TestScoreDisjointTexts(t *testing.T) {
	resume := "Skills\nviolin, sculpture, pottery\n"
	job := "Qualifications\nkubernetes, golang, grpc\n"

	scores, errs := newTestScorer(t).Score(context.Background(), resume, job)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if scores.ExactMatch > 1 {
		t.Errorf("exact match = %v, want ~0 for disjoint texts", scores.ExactMatch)
	}
}

func TestScoreDeterministic(t *testing.T) {
	resume := "Skills\nGo, SQL\nExperience\nData pipelines at Initech Systems.\n"
	job := "Looking for a Go engineer with SQL experience.\n"

	scorer := newTestScorer(t)
	first, _ := scorer.Score(context.Background(), resume, job)
	second, _ := scorer.Score(context.Background(), resume, job)

	if first != second {
		t.Errorf("scores differ between runs: %+v vs %+v", first, second)
	}
}

func TestTermFrequencyCosineEmptyDoc(t *testing.T) {
	if got := termFrequencyCosine("", "golang grpc"); got != 0 {
		t.Errorf("cosine with empty doc = %v, want 0", got)
	}
	if got := termFrequencyCosine("", ""); got != 0 {
		t.Errorf("cosine with both empty = %v, want 0", got)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	zero := make([]float32, 4)
	if got := cosineSimilarity(zero, []float32{1, 2, 3, 4}); got != 0 {
		t.Errorf("cosine with zero vector = %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("cosine with mismatched lengths = %v, want 0", got)
	}
}

func TestCombineKeywordsDedupesAndSorts(t *testing.T) {
	got := combineKeywords([]string{" Go ", "sql"}, []string{"SQL", "go", ""})
	want := []string{"go", "sql"}
	if len(got) != len(want) {
		t.Fatalf("combined = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("combined = %v, want %v", got, want)
			break
		}
	}
}

func TestHashingEmbedderStable(t *testing.T) {
	embedder := NewHashingEmbedder()
	a, err := embedder.Embed(context.Background(), "golang grpc kafka")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, _ := embedder.Embed(context.Background(), "golang grpc kafka")

	if math.Abs(cosineSimilarity(a, b)-1) > 1e-9 {
		t.Error("identical texts should embed identically")
	}
}
