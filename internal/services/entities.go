package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"

	"resume-matcher/internal/apperrors"
)

// Backend selects the entity extraction implementation.
type Backend string

const (
	// BackendProse runs statistical NER plus tokenization.
	BackendProse Backend = "prose"
	// BackendPattern is a pure regex fallback with no model download.
	BackendPattern Backend = "pattern"
)

// Entities holds everything an extractor recognized in a text.
type Entities struct {
	Experience    []string
	Education     []string
	Skills        []string
	Organizations []string
	Dates         []string
	Degrees       []string
	JobTitles     []string
}

// EntityExtractor produces a lowercased token stream and structured entities
// from free text.
type EntityExtractor interface {
	Extract(text string) ([]string, *Entities, error)
}

// NewEntityExtractor builds the extractor for the configured backend. An
// unknown backend name is a configuration error, not a silent fallback.
func NewEntityExtractor(backend Backend) (EntityExtractor, error) {
	switch backend {
	case BackendProse:
		return &proseExtractor{}, nil
	case BackendPattern:
		return &patternExtractor{}, nil
	default:
		return nil, apperrors.Config("entities.new",
			fmt.Sprintf("invalid entity backend %q: use %q or %q", backend, BackendProse, BackendPattern), nil)
	}
}

var degreeWords = []string{"Bachelor", "Master", "PhD", "BS", "MS", "MBA"}

var degreePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(degreeWords))
	for _, word := range degreeWords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return patterns
}()

func detectDegrees(text string) []string {
	var degrees []string
	for i, pattern := range degreePatterns {
		if pattern.MatchString(text) {
			degrees = append(degrees, degreeWords[i])
		}
	}
	return degrees
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {},
	"is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "to": {}, "was": {}, "were": {}, "with": {}, "will": {},
}

var yearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// proseExtractor tokenizes and runs NER with the prose model. NER sees the
// original casing; only the token stream is lowercased.
type proseExtractor struct{}

func (p *proseExtractor) Extract(text string) ([]string, *Entities, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, nil, apperrors.Parse("entities.prose", "tokenizing text", err)
	}

	var tokens []string
	for _, tok := range doc.Tokens() {
		word := strings.ToLower(strings.TrimSpace(tok.Text))
		if len(word) < 2 || !isWordToken(word) {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		tokens = append(tokens, word)
	}

	ents := &Entities{Degrees: detectDegrees(text)}
	for _, ent := range doc.Entities() {
		switch ent.Label {
		case "ORGANIZATION", "ORG", "GPE":
			ents.Organizations = append(ents.Organizations, ent.Text)
		}
	}
	ents.Dates = yearRe.FindAllString(text, -1)
	ents.Education = append(ents.Education, ents.Degrees...)

	return tokens, ents, nil
}

// patternExtractor recognizes organizations and dates with regexes only.
// Skill entities stay empty; keyword scoring falls back to the token stream.
type patternExtractor struct{}

var (
	wordRe = regexp.MustCompile(`[a-z0-9][a-z0-9+#.]*`)
	orgRe  = regexp.MustCompile(`\b[A-Z][A-Za-z&.]+(?:\s+[A-Z][A-Za-z&.]+)+\b`)
	// Single capitalized words only count as organizations with a
	// corporate or academic suffix.
	orgSuffixRe = regexp.MustCompile(`\b[A-Z][A-Za-z]*\s+(?:Inc|LLC|Corp|Ltd|University|College|Technologies|Labs|Systems)\b`)
)

func (p *patternExtractor) Extract(text string) ([]string, *Entities, error) {
	var tokens []string
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(word) < 2 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		tokens = append(tokens, word)
	}

	ents := &Entities{Degrees: detectDegrees(text)}
	ents.Organizations = append(orgRe.FindAllString(text, -1), orgSuffixRe.FindAllString(text, -1)...)
	ents.Dates = yearRe.FindAllString(text, -1)
	ents.Education = append(ents.Education, ents.Degrees...)

	return tokens, ents, nil
}

func isWordToken(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}
