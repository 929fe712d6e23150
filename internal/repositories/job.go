package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resume-matcher/internal/apperrors"
	"resume-matcher/internal/models"
)

type JobRepository interface {
	// FindByExternalID returns (nil, nil) when no record exists for the id.
	FindByExternalID(externalID string) (*models.JobProfile, error)
	// Upsert inserts or updates on the external_job_id natural key and
	// returns the stored record id.
	Upsert(profile *models.JobProfile) (uuid.UUID, error)
	FindAll(limit int) ([]models.JobProfile, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) FindByExternalID(externalID string) (*models.JobProfile, error) {
	var profile models.JobProfile
	err := r.db.Where("external_job_id = ?", strings.TrimSpace(externalID)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &profile, nil
}

func (r *jobRepository) Upsert(profile *models.JobProfile) (uuid.UUID, error) {
	profile.ExternalJobID = strings.TrimSpace(profile.ExternalJobID)
	if profile.ExternalJobID == "" {
		return uuid.Nil, apperrors.MissingPrimaryKey("job.upsert", "external_job_id")
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"job_title", "company_name", "required_experience",
			"key_responsibilities", "qualifications", "required_skills",
			"must_haves", "nice_to_haves", "importance_scores",
			"raw_jobdesc_text", "job_response", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return uuid.Nil, apperrors.Persistence("job.upsert", "failed to upsert job", err)
	}

	var stored models.JobProfile
	if err := r.db.Select("id").Where("external_job_id = ?", profile.ExternalJobID).First(&stored).Error; err != nil {
		return uuid.Nil, apperrors.Persistence("job.upsert", "failed to read back job id", err)
	}
	profile.ID = stored.ID
	return stored.ID, nil
}

func (r *jobRepository) FindAll(limit int) ([]models.JobProfile, error) {
	var profiles []models.JobProfile
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return profiles, nil
}
