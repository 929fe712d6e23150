package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobListing and CandidateListing are placeholder tables reserved for the
// candidate-search feature. Nothing writes to them yet; they exist so the
// schema matches the full collection set.

type JobListing struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Source    string         `gorm:"type:text" json:"source"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (JobListing) TableName() string {
	return "jobs_list"
}

type CandidateListing struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Source    string         `gorm:"type:text" json:"source"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CandidateListing) TableName() string {
	return "candidates_list"
}
