package services

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"resume-matcher/internal/apperrors"
)

// termRe mirrors the tokenization used for term frequency vectors: runs of
// word characters, minimum length two.
var termRe = regexp.MustCompile(`\w\w+`)

// KeywordScores holds the two deterministic match scores, both on a 0-100
// scale rounded to two decimals.
type KeywordScores struct {
	ExactMatch      float64
	SimilarityScore float64
}

// KeywordScorer computes the deterministic half of a match: a term frequency
// cosine over extracted keyword sets and an embedding cosine over the raw
// texts. The two scores fail independently; an error in one never zeroes the
// other.
type KeywordScorer struct {
	sections *SectionExtractor
	entities EntityExtractor
	embedder Embedder
	logger   *zap.Logger
}

func NewKeywordScorer(entities EntityExtractor, embedder Embedder, logger *zap.Logger) *KeywordScorer {
	return &KeywordScorer{
		sections: NewSectionExtractor(),
		entities: entities,
		embedder: embedder,
		logger:   logger,
	}
}

// Score returns both scores plus every error encountered along the way. A
// failed score is reported as 0 alongside its error.
func (s *KeywordScorer) Score(ctx context.Context, resumeText, jobText string) (KeywordScores, []error) {
	var scores KeywordScores
	var errs []error

	resumeKws, err := s.resumeKeywords(resumeText)
	if err != nil {
		errs = append(errs, err)
	}
	jobKws, err := s.jobKeywords(jobText)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		scores.ExactMatch = roundScore(termFrequencyCosine(
			strings.Join(resumeKws, ", "),
			strings.Join(jobKws, ", "),
		) * 100)
	} else {
		s.logger.Warn("skipping exact match score", zap.Int("keyword_errors", len(errs)))
	}

	sim, err := s.similarityScore(ctx, resumeText, jobText)
	if err != nil {
		errs = append(errs, apperrors.Scoring("keywords.similarity", "computing embedding similarity", err))
	} else {
		scores.SimilarityScore = sim
	}

	return scores, errs
}

// resumeKeywords merges the skills section, the token stream, and recognized
// skill and organization entities.
func (s *KeywordScorer) resumeKeywords(text string) ([]string, error) {
	sections := s.sections.Segment(text)
	skillKws := ExtractKeywords(sections[SectionSkills])

	tokens, ents, err := s.entities.Extract(text)
	if err != nil {
		return nil, apperrors.Scoring("keywords.resume", "extracting resume entities", err)
	}
	return combineKeywords(skillKws, tokens, ents.Skills, ents.Organizations), nil
}

// jobKeywords merges the token stream with organization, education, and
// skill entities from the posting.
func (s *KeywordScorer) jobKeywords(text string) ([]string, error) {
	tokens, ents, err := s.entities.Extract(text)
	if err != nil {
		return nil, apperrors.Scoring("keywords.job", "extracting job entities", err)
	}
	return combineKeywords(tokens, ents.Skills, ents.Education, ents.Organizations), nil
}

func (s *KeywordScorer) similarityScore(ctx context.Context, resumeText, jobText string) (float64, error) {
	resumeVec, err := s.embedder.Embed(ctx, resumeText)
	if err != nil {
		return 0, err
	}
	jobVec, err := s.embedder.Embed(ctx, jobText)
	if err != nil {
		return 0, err
	}
	return roundScore(cosineSimilarity(resumeVec, jobVec) * 100), nil
}

// combineKeywords lowercases, trims, deduplicates, and sorts so identical
// inputs always produce identical keyword sets.
func combineKeywords(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, kw := range list {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			seen[kw] = struct{}{}
		}
	}
	combined := make([]string, 0, len(seen))
	for kw := range seen {
		combined = append(combined, kw)
	}
	sort.Strings(combined)
	return combined
}

// termFrequencyCosine builds raw term frequency vectors over the joint
// vocabulary of both documents and returns their cosine. Either document
// having no terms yields 0.
func termFrequencyCosine(docA, docB string) float64 {
	termsA := termRe.FindAllString(strings.ToLower(docA), -1)
	termsB := termRe.FindAllString(strings.ToLower(docB), -1)

	vocab := make(map[string]int)
	for _, term := range termsA {
		if _, ok := vocab[term]; !ok {
			vocab[term] = len(vocab)
		}
	}
	for _, term := range termsB {
		if _, ok := vocab[term]; !ok {
			vocab[term] = len(vocab)
		}
	}
	if len(vocab) == 0 {
		return 0
	}

	vecA := make([]float64, len(vocab))
	vecB := make([]float64, len(vocab))
	for _, term := range termsA {
		vecA[vocab[term]]++
	}
	for _, term := range termsB {
		vecB[vocab[term]]++
	}

	normA := floats.Norm(vecA, 2)
	normB := floats.Norm(vecB, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(vecA, vecB) / (normA * normB)
}

func roundScore(x float64) float64 {
	return math.Round(x*100) / 100
}
