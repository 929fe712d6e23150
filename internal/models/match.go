package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MatchResult is one LLM comparison of a (resume, job) pair. The pair is
// unique; once a record exists the comparison is never re-run.
//
// The field and column name "recomendation" is a deliberate misspelling kept
// for compatibility with the LLM response contract and existing stored data.
type MatchResult struct {
	ID             uuid.UUID                      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID       uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:resume_job_idx" json:"resume_id"`
	JobID          uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:resume_job_idx" json:"job_id"`
	OverallScore   int                            `json:"overall_score"`
	Feedback       string                         `gorm:"type:text" json:"feedback"`
	Suggestions    string                         `gorm:"type:text" json:"suggestions"`
	Recomendation  string                         `gorm:"type:text" json:"recomendation"`
	Gaps           datatypes.JSONType[StringList] `json:"gaps"`
	Weaknesses     datatypes.JSONType[StringList] `json:"weaknesses"`
	Strengths      datatypes.JSONType[StringList] `json:"strengths"`
	MatchResponse  string                         `gorm:"type:text" json:"match_response"`
	CreatedAt      time.Time                      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time                      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Resume ResumeProfile `gorm:"foreignKey:ResumeID" json:"-"`
	Job    JobProfile    `gorm:"foreignKey:JobID" json:"-"`
}

func (MatchResult) TableName() string {
	return "jobmatch_results"
}
