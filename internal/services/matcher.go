package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
)

// MatchOrchestrator runs one full match: deterministic keyword scores first,
// then resume and job extraction (skipped when the natural key is already
// stored), then the LLM comparison. A (resume, job) pair is compared at most
// once ever; later requests for the same pair return the stored verdict.
//
// Failures accumulate instead of aborting: the response always carries
// whatever scores and records could be produced, plus every error hit along
// the way.
type MatchOrchestrator struct {
	resumeRepo repositories.ResumeRepository
	jobRepo    repositories.JobRepository
	matchRepo  repositories.MatchRepository
	pipeline   *ExtractionPipeline
	scorer     *KeywordScorer
	sections   *SectionExtractor
	logger     *zap.Logger
}

func NewMatchOrchestrator(
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	matchRepo repositories.MatchRepository,
	pipeline *ExtractionPipeline,
	scorer *KeywordScorer,
	logger *zap.Logger,
) *MatchOrchestrator {
	return &MatchOrchestrator{
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		matchRepo:  matchRepo,
		pipeline:   pipeline,
		scorer:     scorer,
		sections:   NewSectionExtractor(),
		logger:     logger,
	}
}

// Match never returns an error; partial failures live in response.Errors.
func (o *MatchOrchestrator) Match(ctx context.Context, req models.MatchRequest) *models.MatchResponse {
	response := &models.MatchResponse{Errors: []string{}}
	record := func(err error) {
		if err != nil {
			response.Errors = append(response.Errors, err.Error())
		}
	}

	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobText) == "" {
		response.Errors = append(response.Errors, "resume_text and job_text are required")
		return response
	}

	scores, scoreErrs := o.scorer.Score(ctx, req.ResumeText, req.JobText)
	for _, err := range scoreErrs {
		record(err)
	}
	response.Scores.ExactMatch = scores.ExactMatch
	response.Scores.SimilarityScore = scores.SimilarityScore

	resume := o.resolveResume(ctx, req, response, record)
	job := o.resolveJob(ctx, req, response, record)
	if resume == nil || job == nil {
		return response
	}
	response.ResumeID = resume.ID.String()
	response.JobID = job.ID.String()

	o.resolveComparison(ctx, req, resume, job, response, record)
	return response
}

// resolveResume returns the stored profile for the request's resume,
// extracting and persisting it first unless the email key already exists.
func (o *MatchOrchestrator) resolveResume(ctx context.Context, req models.MatchRequest, response *models.MatchResponse, record func(error)) *models.ResumeProfile {
	email := models.NormalizeEmail(req.ResumeEmail)
	if email == "" {
		// Fall back to the email found in the raw text preamble.
		email = models.NormalizeEmail(o.sections.Segment(req.ResumeText)[SectionEmail])
	}

	if email != "" {
		stored, err := o.resumeRepo.FindByEmail(email)
		if err != nil {
			record(err)
		} else if stored != nil {
			response.ResumeResponse = stored.ResumeResponse
			return stored
		}
	}

	outcome := o.pipeline.ExtractResume(ctx, req.ResumeText, email)
	response.ResumeResponse = outcome.Response
	for _, err := range outcome.Errs {
		record(err)
	}
	if outcome.ResumeID == uuid.Nil {
		return nil
	}

	stored, err := o.resumeRepo.FindByEmail(email)
	if err != nil || stored == nil {
		// The upsert key may have come from the LLM response rather than
		// the fallback; re-read by id is not available, so return a
		// minimal profile.
		return &models.ResumeProfile{ID: outcome.ResumeID, RawResumeText: req.ResumeText}
	}
	return stored
}

func (o *MatchOrchestrator) resolveJob(ctx context.Context, req models.MatchRequest, response *models.MatchResponse, record func(error)) *models.JobProfile {
	externalID := strings.TrimSpace(req.ExternalJobID)

	if externalID != "" {
		stored, err := o.jobRepo.FindByExternalID(externalID)
		if err != nil {
			record(err)
		} else if stored != nil {
			response.JobResponse = stored.JobResponse
			return stored
		}
	}

	outcome := o.pipeline.ExtractJob(ctx, req.JobText, externalID)
	response.JobResponse = outcome.Response
	for _, err := range outcome.Errs {
		record(err)
	}
	if outcome.JobID == uuid.Nil {
		return nil
	}
	return &models.JobProfile{ID: outcome.JobID, RawJobdescText: req.JobText}
}

// resolveComparison fills the LLM half of the response, from the stored
// pair record when one exists and from a fresh comparison otherwise.
func (o *MatchOrchestrator) resolveComparison(ctx context.Context, req models.MatchRequest, resume *models.ResumeProfile, job *models.JobProfile, response *models.MatchResponse, record func(error)) {
	stored, err := o.matchRepo.FindByPair(resume.ID, job.ID)
	if err != nil {
		record(err)
		return
	}
	if stored != nil {
		response.Cached = true
		o.fillComparison(response, stored)
		return
	}

	outcome := o.pipeline.Compare(ctx, req.ResumeText, req.JobText, resume.ID, job.ID)
	response.MatchRaw = outcome.Response
	for _, cerr := range outcome.Errs {
		record(cerr)
	}
	if outcome.Result != nil {
		o.fillComparison(response, outcome.Result)
	}
}

func (o *MatchOrchestrator) fillComparison(response *models.MatchResponse, result *models.MatchResult) {
	response.MatchID = result.ID.String()
	response.Scores.OverallScore = result.OverallScore
	response.Feedback = result.Feedback
	response.Suggestions = result.Suggestions
	response.Recomendation = result.Recomendation
	response.Gaps = result.Gaps.Data()
	response.Weaknesses = result.Weaknesses.Data()
	response.Strengths = result.Strengths.Data()
	response.MatchRaw = result.MatchResponse
}
