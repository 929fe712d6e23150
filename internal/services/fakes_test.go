package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"resume-matcher/internal/apperrors"
	"resume-matcher/internal/models"
)

// In-memory repository fakes mirroring the upsert semantics of the real
// implementations: natural-key conflict keeps the original record id.

type fakeResumeRepo struct {
	byEmail map[string]*models.ResumeProfile
	upserts int
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{byEmail: make(map[string]*models.ResumeProfile)}
}

func (f *fakeResumeRepo) FindByEmail(email string) (*models.ResumeProfile, error) {
	profile, ok := f.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return profile, nil
}

func (f *fakeResumeRepo) Upsert(profile *models.ResumeProfile) (uuid.UUID, error) {
	profile.Email = models.NormalizeEmail(profile.Email)
	if profile.Email == "" {
		return uuid.Nil, apperrors.MissingPrimaryKey("resume.upsert", "email")
	}
	f.upserts++
	if existing, ok := f.byEmail[profile.Email]; ok {
		profile.ID = existing.ID
	} else if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	f.byEmail[profile.Email] = profile
	return profile.ID, nil
}

func (f *fakeResumeRepo) FindAll(limit int) ([]models.ResumeProfile, error) {
	var out []models.ResumeProfile
	for _, p := range f.byEmail {
		out = append(out, *p)
	}
	return out, nil
}

type fakeJobRepo struct {
	byExternalID map[string]*models.JobProfile
	upserts      int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byExternalID: make(map[string]*models.JobProfile)}
}

func (f *fakeJobRepo) FindByExternalID(externalID string) (*models.JobProfile, error) {
	profile, ok := f.byExternalID[externalID]
	if !ok {
		return nil, nil
	}
	return profile, nil
}

func (f *fakeJobRepo) Upsert(profile *models.JobProfile) (uuid.UUID, error) {
	if strings.TrimSpace(profile.ExternalJobID) == "" {
		return uuid.Nil, apperrors.MissingPrimaryKey("job.upsert", "external_job_id")
	}
	f.upserts++
	if existing, ok := f.byExternalID[profile.ExternalJobID]; ok {
		profile.ID = existing.ID
	} else if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	f.byExternalID[profile.ExternalJobID] = profile
	return profile.ID, nil
}

func (f *fakeJobRepo) FindAll(limit int) ([]models.JobProfile, error) {
	var out []models.JobProfile
	for _, p := range f.byExternalID {
		out = append(out, *p)
	}
	return out, nil
}

type fakeMatchRepo struct {
	byPair  map[string]*models.MatchResult
	upserts int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{byPair: make(map[string]*models.MatchResult)}
}

func pairKey(resumeID, jobID uuid.UUID) string {
	return resumeID.String() + "|" + jobID.String()
}

func (f *fakeMatchRepo) FindByPair(resumeID, jobID uuid.UUID) (*models.MatchResult, error) {
	result, ok := f.byPair[pairKey(resumeID, jobID)]
	if !ok {
		return nil, nil
	}
	return result, nil
}

func (f *fakeMatchRepo) Upsert(result *models.MatchResult) (uuid.UUID, error) {
	if result.ResumeID == uuid.Nil || result.JobID == uuid.Nil {
		return uuid.Nil, apperrors.MissingPrimaryKey("match.upsert", "resume_id/job_id")
	}
	f.upserts++
	key := pairKey(result.ResumeID, result.JobID)
	if existing, ok := f.byPair[key]; ok {
		result.ID = existing.ID
	} else if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	f.byPair[key] = result
	return result.ID, nil
}

func (f *fakeMatchRepo) FindAll(limit int) ([]models.MatchResult, error) {
	var out []models.MatchResult
	for _, r := range f.byPair {
		out = append(out, *r)
	}
	return out, nil
}

// scriptedLLM answers by prompt kind and counts calls per kind.
type scriptedLLM struct {
	resumeResponse string
	jobResponse    string
	matchResponse  string
	err            error

	resumeCalls int
	jobCalls    int
	matchCalls  int
}

func (s *scriptedLLM) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	switch {
	case strings.Contains(prompt, "resume parser"):
		s.resumeCalls++
		return s.resumeResponse, nil
	case strings.Contains(prompt, "job description parser"):
		s.jobCalls++
		return s.jobResponse, nil
	default:
		s.matchCalls++
		return s.matchResponse, nil
	}
}

func (s *scriptedLLM) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return s.GenerateText(ctx, prompt, temperature)
}

const (
	testResumeJSON = `{"name":"John Smith","email":"john@x.com","phone":"555-123-4567",` +
		`"summary":"Backend engineer","skills":{"technical_skills":["Go","SQL"],"soft_skills":["Communication"]},` +
		`"work_history":[{"company_name":"Acme Corp","job_title":"Engineer","start_date":"2019","end_date":"2023","location":"Remote"}],` +
		`"education":["BS Computer Science"],"certifications":[],` +
		`"professional_experience":{"total_years":5,"domains":["payments"],"positions":["engineer"],"achievements":[]}}`

	testJobJSON = `{"external_job_id":"","job_title":"Backend Engineer","company_name":"Acme Corp",` +
		`"required_experience":["5 years"],"key_responsibilities":["Build services"],` +
		`"required_skills":{"technical_skills":["Go"],"soft_skills":[]},"qualifications":["BS"],` +
		`"must_haves":["Go"],"nice_to_haves":["Kafka"],"importance_scores":{"Go":5}}`

	testMatchJSON = `{"name":"John Smith","email":"john@x.com","external_job_id":"",` +
		`"overall_score":78,"feedback":"Good fit","suggestions":"Add Kafka experience",` +
		`"recomendation":"Highlight distributed systems work","gaps":["Kafka"],` +
		`"weaknesses":["No streaming"],"strengths":["Go","SQL"]}`
)
