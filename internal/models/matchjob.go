package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MatchJobStatus string

const (
	StatusQueued     MatchJobStatus = "queued"
	StatusProcessing MatchJobStatus = "processing"
	StatusCompleted  MatchJobStatus = "completed"
	StatusFailed     MatchJobStatus = "failed"
)

// MatchJob is one queued asynchronous match request. The worker runs the
// same orchestration as a synchronous request and stores the full response.
type MatchJob struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Status        MatchJobStatus `gorm:"not null;default:'queued'" json:"status"`
	ResumeText    string         `gorm:"type:text" json:"resume_text"`
	JobText       string         `gorm:"type:text" json:"job_text"`
	ResumeEmail   string         `gorm:"type:text" json:"resume_email"`
	ExternalJobID string         `gorm:"type:text" json:"external_job_id"`
	Result        datatypes.JSON `json:"result,omitempty"`
	ErrorMessage  *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MatchJob) TableName() string {
	return "match_jobs"
}
