package services

import (
	"testing"

	"resume-matcher/internal/apperrors"
)

func TestNewEntityExtractorInvalidBackend(t *testing.T) {
	_, err := NewEntityExtractor(Backend("spacy"))
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !apperrors.IsKind(err, apperrors.KindConfig) {
		t.Errorf("error kind = %v, want config", err)
	}
}

func TestNewEntityExtractorKnownBackends(t *testing.T) {
	for _, backend := range []Backend{BackendProse, BackendPattern} {
		if _, err := NewEntityExtractor(backend); err != nil {
			t.Errorf("NewEntityExtractor(%q) returned %v", backend, err)
		}
	}
}

func TestPatternExtractorDegreesAndDates(t *testing.T) {
	text := "Jane holds a Master of Science from Stanford University, class of 2015. MBA expected."

	tokens, ents, err := (&patternExtractor{}).Extract(text)
	if err != nil {
		t.Fatalf("Extract returned %v", err)
	}

	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
	for _, tok := range tokens {
		if tok == "a" || tok == "of" || tok == "from" {
			t.Errorf("stopword %q leaked into tokens", tok)
		}
	}

	wantDegrees := map[string]bool{"Master": true, "MBA": true}
	for _, degree := range ents.Degrees {
		if !wantDegrees[degree] {
			t.Errorf("unexpected degree %q", degree)
		}
		delete(wantDegrees, degree)
	}
	if len(wantDegrees) > 0 {
		t.Errorf("degrees missing: %v (got %v)", wantDegrees, ents.Degrees)
	}

	if len(ents.Dates) == 0 || ents.Dates[0] != "2015" {
		t.Errorf("dates = %v, want [2015]", ents.Dates)
	}
}

func TestPatternExtractorOrganizations(t *testing.T) {
	text := "Worked at Acme Corp and then at Initech Systems building billing."

	_, ents, err := (&patternExtractor{}).Extract(text)
	if err != nil {
		t.Fatalf("Extract returned %v", err)
	}

	found := make(map[string]bool)
	for _, org := range ents.Organizations {
		found[org] = true
	}
	if !found["Acme Corp"] {
		t.Errorf("organizations = %v, want Acme Corp", ents.Organizations)
	}
	if !found["Initech Systems"] {
		t.Errorf("organizations = %v, want Initech Systems", ents.Organizations)
	}
}

func TestDegreeDetectionWordBoundary(t *testing.T) {
	// "bachelor's" still contains the word; "MSc" must not match "MS".
	degrees := detectDegrees("Completed a Bachelor's degree.")
	if len(degrees) != 1 || degrees[0] != "Bachelor" {
		t.Errorf("degrees = %v, want [Bachelor]", degrees)
	}

	degrees = detectDegrees("Microsystems engineering")
	if len(degrees) != 0 {
		t.Errorf("degrees = %v, want none", degrees)
	}
}
