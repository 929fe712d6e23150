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

type MatchRepository interface {
	// FindByPair returns (nil, nil) when the (resume, job) pair has never
	// been compared.
	FindByPair(resumeID, jobID uuid.UUID) (*models.MatchResult, error)
	// Upsert enforces pair uniqueness on (resume_id, job_id).
	Upsert(result *models.MatchResult) (uuid.UUID, error)
	FindAll(limit int) ([]models.MatchResult, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) FindByPair(resumeID, jobID uuid.UUID) (*models.MatchResult, error) {
	var result models.MatchResult
	err := r.db.Where("resume_id = ? AND job_id = ?", resumeID, jobID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find match result: %w", err)
	}
	return &result, nil
}

func (r *matchRepository) Upsert(result *models.MatchResult) (uuid.UUID, error) {
	if result.ResumeID == uuid.Nil || result.JobID == uuid.Nil {
		return uuid.Nil, apperrors.MissingPrimaryKey("match.upsert", "resume_id/job_id")
	}
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resume_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall_score", "feedback", "suggestions", "recomendation",
			"gaps", "weaknesses", "strengths", "match_response", "updated_at",
		}),
	}).Create(result).Error
	if err != nil {
		return uuid.Nil, apperrors.Persistence("match.upsert", "failed to upsert match result", err)
	}

	var stored models.MatchResult
	err = r.db.Select("id").
		Where("resume_id = ? AND job_id = ?", result.ResumeID, result.JobID).
		First(&stored).Error
	if err != nil {
		return uuid.Nil, apperrors.Persistence("match.upsert", "failed to read back match id", err)
	}
	result.ID = stored.ID
	return stored.ID, nil
}

func (r *matchRepository) FindAll(limit int) ([]models.MatchResult, error) {
	var results []models.MatchResult
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	return results, nil
}
