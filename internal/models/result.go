package models

type MatchRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	JobText    string `json:"job_text" validate:"required"`
	// Optional natural-key hints. When present and already stored, the
	// corresponding extraction is skipped entirely.
	ResumeEmail   string `json:"resume_email,omitempty"`
	ExternalJobID string `json:"external_job_id,omitempty"`
}

// MatchScores carries the two deterministic keyword scores plus the LLM
// overall score. ExactMatch and SimilarityScore are independent estimators;
// no weighted combination happens here.
type MatchScores struct {
	ExactMatch      float64 `json:"exact_match"`
	SimilarityScore float64 `json:"similarity_score"`
	OverallScore    int     `json:"overall_score"`
}

// MatchResponse is the unified result of one match request. Errors is always
// present (possibly empty): a caller distinguishes a full result from a
// partial one by inspecting it.
type MatchResponse struct {
	ResumeID      string      `json:"resume_id,omitempty"`
	JobID         string      `json:"job_id,omitempty"`
	MatchID       string      `json:"match_id,omitempty"`
	Cached        bool        `json:"cached"`
	Scores        MatchScores `json:"scores"`
	Feedback      string      `json:"feedback"`
	Suggestions   string      `json:"suggestions"`
	Recomendation string      `json:"recomendation"`
	Gaps          StringList  `json:"gaps"`
	Weaknesses    StringList  `json:"weaknesses"`
	Strengths     StringList  `json:"strengths"`

	// Raw LLM outputs, retained for manual recovery when parsing failed.
	ResumeResponse string `json:"resume_response,omitempty"`
	JobResponse    string `json:"job_response,omitempty"`
	MatchRaw       string `json:"match_response,omitempty"`

	Errors []string `json:"errors"`
}

type AsyncMatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type MatchJobResultResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Result       *MatchResponse `json:"result,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}
