package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobProfile is the stored structured job description. The natural key is
// ExternalJobID; when a job description carries no identifier of its own, a
// deterministic one is derived from the normalized title and company so the
// uniqueness invariant still holds.
type JobProfile struct {
	ID                  uuid.UUID                           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExternalJobID       string                              `gorm:"type:text;not null;uniqueIndex:job_external_id_idx" json:"external_job_id"`
	JobTitle            string                              `gorm:"type:text" json:"job_title"`
	CompanyName         string                              `gorm:"type:text" json:"company_name"`
	RequiredExperience  datatypes.JSONType[StringList]      `json:"required_experience"`
	KeyResponsibilities datatypes.JSONType[StringList]      `json:"key_responsibilities"`
	Qualifications      datatypes.JSONType[StringList]      `json:"qualifications"`
	RequiredSkills      datatypes.JSONType[SkillGroups]     `json:"required_skills"`
	MustHaves           datatypes.JSONType[StringList]      `json:"must_haves"`
	NiceToHaves         datatypes.JSONType[StringList]      `json:"nice_to_haves"`
	ImportanceScores    datatypes.JSONType[ImportanceScores] `json:"importance_scores"`
	RawJobdescText      string                              `gorm:"type:text" json:"raw_jobdesc_text"`
	JobResponse         string                              `gorm:"type:text" json:"job_response"`
	CreatedAt           time.Time                           `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time                           `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobProfile) TableName() string {
	return "jobs"
}
