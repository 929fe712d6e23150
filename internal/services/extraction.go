package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"resume-matcher/internal/apperrors"
	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
)

const extractionTemperature = 0.2

// ExtractionPipeline runs the three LLM extractions and persists their
// results. Each pipeline is best-effort: a malformed response is still
// stored raw as long as a natural key can be determined, with the parse
// failure reported alongside.
type ExtractionPipeline struct {
	llm        TextGenerator
	prompts    *PromptBuilder
	resumeRepo repositories.ResumeRepository
	jobRepo    repositories.JobRepository
	matchRepo  repositories.MatchRepository
	index      VectorIndexService
	maxRetries int
	logger     *zap.Logger
}

func NewExtractionPipeline(
	llm TextGenerator,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	matchRepo repositories.MatchRepository,
	index VectorIndexService,
	maxRetries int,
	logger *zap.Logger,
) *ExtractionPipeline {
	return &ExtractionPipeline{
		llm:        llm,
		prompts:    NewPromptBuilder(),
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		matchRepo:  matchRepo,
		index:      index,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// ResumeOutcome reports a resume extraction: the raw LLM response, the
// stored record id when persistence succeeded, and every error recorded
// along the way.
type ResumeOutcome struct {
	Response string
	ResumeID uuid.UUID
	Errs     []error
}

// JobOutcome is the job-description counterpart of ResumeOutcome.
type JobOutcome struct {
	Response string
	JobID    uuid.UUID
	Errs     []error
}

// MatchOutcome reports one LLM comparison.
type MatchOutcome struct {
	Response string
	MatchID  uuid.UUID
	Result   *models.MatchResult
	Errs     []error
}

// ExtractResume asks the LLM for a structured resume, parses the response
// best-effort, and upserts on the candidate email. fallbackEmail covers
// responses that omit or mangle the email field; with no email from either
// source nothing is written.
func (p *ExtractionPipeline) ExtractResume(ctx context.Context, rawText, fallbackEmail string) *ResumeOutcome {
	outcome := &ResumeOutcome{}

	resp, err := p.llm.GenerateTextWithRetry(ctx, p.prompts.ResumeExtractionPrompt(rawText), extractionTemperature, p.maxRetries)
	if err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("resume.extract", "llm request failed", err))
		return outcome
	}
	outcome.Response = stripCodeFences(resp)

	var wire models.ResumeExtraction
	if err := json.Unmarshal([]byte(outcome.Response), &wire); err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("resume.extract", "decoding llm response", err))
	} else if err := wire.Validate(); err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("resume.extract", err.Error(), nil))
	}

	email := models.NormalizeEmail(wire.Email)
	if email == "" {
		email = models.NormalizeEmail(fallbackEmail)
	}
	if email == "" {
		outcome.Errs = append(outcome.Errs, apperrors.MissingPrimaryKey("resume.extract", "email"))
		return outcome
	}

	profile := &models.ResumeProfile{
		Email:                  email,
		Name:                   wire.Name,
		Phone:                  wire.Phone,
		Summary:                wire.Summary,
		Skills:                 datatypes.NewJSONType(wire.Skills),
		WorkHistory:            datatypes.NewJSONType(wire.WorkHistory),
		Education:              datatypes.NewJSONType(wire.Education),
		Certifications:         datatypes.NewJSONType(wire.Certifications),
		ProfessionalExperience: datatypes.NewJSONType(wire.ProfessionalExperience),
		RawResumeText:          rawText,
		ResumeResponse:         outcome.Response,
	}

	id, err := p.resumeRepo.Upsert(profile)
	if err != nil {
		outcome.Errs = append(outcome.Errs, err)
		return outcome
	}
	outcome.ResumeID = id

	p.indexText(ctx, id.String(), "resume", rawText)
	return outcome
}

// ExtractJob parses a job description through the LLM and upserts on the
// external job id. When the posting carries no identifier and the request
// offers no hint, a deterministic id is derived from the title and company.
func (p *ExtractionPipeline) ExtractJob(ctx context.Context, rawText, fallbackExternalID string) *JobOutcome {
	outcome := &JobOutcome{}

	resp, err := p.llm.GenerateTextWithRetry(ctx, p.prompts.JobExtractionPrompt(rawText), extractionTemperature, p.maxRetries)
	if err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("job.extract", "llm request failed", err))
		return outcome
	}
	outcome.Response = stripCodeFences(resp)

	var wire models.JobExtraction
	if err := json.Unmarshal([]byte(outcome.Response), &wire); err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("job.extract", "decoding llm response", err))
	} else if err := wire.Validate(); err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("job.extract", err.Error(), nil))
	}

	externalID := strings.TrimSpace(wire.ExternalJobID)
	if externalID == "" {
		externalID = strings.TrimSpace(fallbackExternalID)
	}
	if externalID == "" {
		externalID = models.DeriveExternalJobID(wire.JobTitle, wire.CompanyName)
	}
	if externalID == "" {
		outcome.Errs = append(outcome.Errs, apperrors.MissingPrimaryKey("job.extract", "external_job_id"))
		return outcome
	}

	profile := &models.JobProfile{
		ExternalJobID:       externalID,
		JobTitle:            wire.JobTitle,
		CompanyName:         wire.CompanyName,
		RequiredExperience:  datatypes.NewJSONType(wire.RequiredExperience),
		KeyResponsibilities: datatypes.NewJSONType(wire.KeyResponsibilities),
		Qualifications:      datatypes.NewJSONType(wire.Qualifications),
		RequiredSkills:      datatypes.NewJSONType(wire.RequiredSkills),
		MustHaves:           datatypes.NewJSONType(wire.MustHaves),
		NiceToHaves:         datatypes.NewJSONType(wire.NiceToHaves),
		ImportanceScores:    datatypes.NewJSONType(wire.ImportanceScores),
		RawJobdescText:      rawText,
		JobResponse:         outcome.Response,
	}

	id, err := p.jobRepo.Upsert(profile)
	if err != nil {
		outcome.Errs = append(outcome.Errs, err)
		return outcome
	}
	outcome.JobID = id

	p.indexText(ctx, id.String(), "job", rawText)
	return outcome
}

// Compare runs the LLM comparison for a (resume, job) pair and upserts the
// verdict. Callers are expected to have checked for an existing pair record
// first; this method always spends an LLM call.
func (p *ExtractionPipeline) Compare(ctx context.Context, resumeText, jobText string, resumeID, jobID uuid.UUID) *MatchOutcome {
	outcome := &MatchOutcome{}

	resp, err := p.llm.GenerateTextWithRetry(ctx, p.prompts.ComparisonPrompt(resumeText, jobText), extractionTemperature, p.maxRetries)
	if err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("match.compare", "llm request failed", err))
		return outcome
	}
	outcome.Response = stripCodeFences(resp)

	var wire models.ComparisonExtraction
	if err := json.Unmarshal([]byte(outcome.Response), &wire); err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("match.compare", "decoding llm response", err))
	} else if err := wire.Validate(); err != nil {
		outcome.Errs = append(outcome.Errs, apperrors.Parse("match.compare", err.Error(), nil))
	}

	if resumeID == uuid.Nil || jobID == uuid.Nil {
		outcome.Errs = append(outcome.Errs, apperrors.MissingPrimaryKey("match.compare", "resume_id/job_id"))
		return outcome
	}

	result := &models.MatchResult{
		ResumeID:      resumeID,
		JobID:         jobID,
		OverallScore:  int(wire.OverallScore),
		Feedback:      wire.Feedback,
		Suggestions:   wire.Suggestions,
		Recomendation: wire.Recomendation,
		Gaps:          datatypes.NewJSONType(wire.Gaps),
		Weaknesses:    datatypes.NewJSONType(wire.Weaknesses),
		Strengths:     datatypes.NewJSONType(wire.Strengths),
		MatchResponse: outcome.Response,
	}

	id, err := p.matchRepo.Upsert(result)
	if err != nil {
		outcome.Errs = append(outcome.Errs, err)
		return outcome
	}
	outcome.MatchID = id
	outcome.Result = result
	return outcome
}

func (p *ExtractionPipeline) indexText(ctx context.Context, recordID, kind, text string) {
	if p.index == nil {
		return
	}
	if err := p.index.IndexProfile(ctx, recordID, kind, text); err != nil {
		p.logger.Warn("vector indexing failed",
			zap.String("kind", kind),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}

// stripCodeFences removes a leading ```json (or bare ```) fence and its
// closing fence. LLMs wrap JSON this way even when told not to.
func stripCodeFences(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
