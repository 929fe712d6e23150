package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkHistoryEntry is one position from a parsed resume, in resume order.
type WorkHistoryEntry struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
}

// ProfessionalExperience summarizes a candidate's career as extracted by the
// LLM.
type ProfessionalExperience struct {
	TotalYears   FlexFloat  `json:"total_years"`
	Domains      StringList `json:"domains"`
	Positions    StringList `json:"positions"`
	Achievements StringList `json:"achievements"`
}

// ResumeProfile is the stored structured resume. The natural key is the
// candidate email (lower-cased, trimmed); records are upserted on it and
// never deleted.
type ResumeProfile struct {
	ID                     uuid.UUID                                `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email                  string                                   `gorm:"type:text;not null;uniqueIndex:resume_email_idx" json:"email"`
	Name                   string                                   `gorm:"type:text" json:"name"`
	Phone                  string                                   `gorm:"type:text" json:"phone"`
	Summary                string                                   `gorm:"type:text" json:"summary"`
	Skills                 datatypes.JSONType[SkillGroups]          `json:"skills"`
	WorkHistory            datatypes.JSONType[[]WorkHistoryEntry]   `json:"work_history"`
	Education              datatypes.JSONType[[]any]                `json:"education"`
	Certifications         datatypes.JSONType[StringList]           `json:"certifications"`
	ProfessionalExperience datatypes.JSONType[ProfessionalExperience] `json:"professional_experience"`
	RawResumeText          string                                   `gorm:"type:text" json:"raw_resume_text"`
	ResumeResponse         string                                   `gorm:"type:text" json:"resume_response"`
	CreatedAt              time.Time                                `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time                                `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ResumeProfile) TableName() string {
	return "resumes"
}
