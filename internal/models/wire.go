package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The types in this file describe the JSON the LLM is instructed to return.
// Responses are parsed best-effort: models occasionally return a bare string
// where a list was asked for, a float where an int was asked for, or a list
// of objects where a list of names was asked for. The Flex* and StringList
// types absorb those variations instead of failing the whole extraction.

// StringList unmarshals from a JSON array of strings, a single string, or an
// array of objects carrying a "name" field.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*s = asList
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "" {
			*s = nil
			return nil
		}
		*s = []string{asString}
		return nil
	}

	var asObjects []map[string]any
	if err := json.Unmarshal(data, &asObjects); err == nil {
		out := make([]string, 0, len(asObjects))
		for _, obj := range asObjects {
			if name, ok := obj["name"].(string); ok && name != "" {
				out = append(out, name)
				continue
			}
			out = append(out, fmt.Sprintf("%v", obj))
		}
		*s = out
		return nil
	}

	return fmt.Errorf("string list: unsupported shape: %s", string(data))
}

// SkillGroups maps a skill category (technical_skills, soft_skills, ...) to
// an ordered list of skill names.
type SkillGroups map[string]StringList

// FlexFloat unmarshals from a JSON number or a numeric string such as "10+".
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var asFloat float64
	if err := json.Unmarshal(data, &asFloat); err == nil {
		*f = FlexFloat(asFloat)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("flex float: unsupported shape: %s", string(data))
	}

	trimmed := strings.TrimFunc(asString, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(parsed)
	return nil
}

// FlexInt unmarshals from a JSON integer, float, or numeric string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(f)
	return nil
}

// ImportanceScores maps job-description keywords to a 1-5 importance rating.
type ImportanceScores map[string]FlexInt

// ResumeExtraction is the JSON contract for resume structured extraction.
type ResumeExtraction struct {
	Name                   string                 `json:"name"`
	Email                  string                 `json:"email"`
	Phone                  string                 `json:"phone"`
	Summary                string                 `json:"summary"`
	Skills                 SkillGroups            `json:"skills"`
	WorkHistory            []WorkHistoryEntry     `json:"work_history"`
	Education              []any                  `json:"education"`
	Certifications         StringList             `json:"certifications"`
	ProfessionalExperience ProfessionalExperience `json:"professional_experience"`
}

// Validate checks the fields the schema marks as required.
func (r *ResumeExtraction) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("resume extraction missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// JobExtraction is the JSON contract for job-description structured
// extraction.
type JobExtraction struct {
	ExternalJobID       string           `json:"external_job_id"`
	JobTitle            string           `json:"job_title"`
	CompanyName         string           `json:"company_name"`
	RequiredExperience  StringList       `json:"required_experience"`
	KeyResponsibilities StringList       `json:"key_responsibilities"`
	Qualifications      StringList       `json:"qualifications"`
	RequiredSkills      SkillGroups      `json:"required_skills"`
	MustHaves           StringList       `json:"must_haves"`
	NiceToHaves         StringList       `json:"nice_to_haves"`
	ImportanceScores    ImportanceScores `json:"importance_scores"`
}

func (j *JobExtraction) Validate() error {
	if strings.TrimSpace(j.JobTitle) == "" {
		return fmt.Errorf("job extraction missing required field: job_title")
	}
	return nil
}

// ComparisonExtraction is the JSON contract for the resume-vs-job comparison.
// "recomendation" is spelled exactly as the wire contract requires.
type ComparisonExtraction struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	ExternalJobID string     `json:"external_job_id"`
	OverallScore  FlexInt    `json:"overall_score"`
	Feedback      string     `json:"feedback"`
	Suggestions   string     `json:"suggestions"`
	Recomendation string     `json:"recomendation"`
	Gaps          StringList `json:"gaps"`
	Weaknesses    StringList `json:"weaknesses"`
	Strengths     StringList `json:"strengths"`
}

func (c *ComparisonExtraction) Validate() error {
	if strings.TrimSpace(c.Feedback) == "" {
		return fmt.Errorf("comparison extraction missing required field: feedback")
	}
	if c.OverallScore < 0 || c.OverallScore > 100 {
		return fmt.Errorf("comparison extraction overall_score out of range: %d", c.OverallScore)
	}
	return nil
}

// NormalizeEmail canonicalizes a resume natural key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveExternalJobID builds a deterministic natural key for job descriptions
// that carry no identifier of their own, from the normalized title and
// company. The same posting always derives the same key.
func DeriveExternalJobID(jobTitle, companyName string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(jobTitle+" "+companyName)), " ")
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return "derived-" + hex.EncodeToString(sum[:])[:16]
}
