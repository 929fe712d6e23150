package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resume-matcher/internal/apperrors"
	"resume-matcher/internal/models"
)

type ResumeRepository interface {
	// FindByEmail returns (nil, nil) when no record exists for the email.
	FindByEmail(email string) (*models.ResumeProfile, error)
	// Upsert inserts or updates on the email natural key and returns the
	// stored record id. Insert-vs-update is resolved atomically by the
	// database; concurrent first writers cannot create duplicates.
	Upsert(profile *models.ResumeProfile) (uuid.UUID, error)
	FindAll(limit int) ([]models.ResumeProfile, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) FindByEmail(email string) (*models.ResumeProfile, error) {
	var profile models.ResumeProfile
	err := r.db.Where("email = ?", models.NormalizeEmail(email)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &profile, nil
}

func (r *resumeRepository) Upsert(profile *models.ResumeProfile) (uuid.UUID, error) {
	profile.Email = models.NormalizeEmail(profile.Email)
	if profile.Email == "" {
		return uuid.Nil, apperrors.MissingPrimaryKey("resume.upsert", "email")
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "phone", "summary", "skills", "work_history", "education",
			"certifications", "professional_experience", "raw_resume_text",
			"resume_response", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return uuid.Nil, apperrors.Persistence("resume.upsert", "failed to upsert resume", err)
	}

	// On conflict the existing row keeps its id; read it back by key.
	var stored models.ResumeProfile
	if err := r.db.Select("id").Where("email = ?", profile.Email).First(&stored).Error; err != nil {
		return uuid.Nil, apperrors.Persistence("resume.upsert", "failed to read back resume id", err)
	}
	profile.ID = stored.ID
	return stored.ID, nil
}

func (r *resumeRepository) FindAll(limit int) ([]models.ResumeProfile, error) {
	var profiles []models.ResumeProfile
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return profiles, nil
}
