package models

import "encoding/json"

// AnalysisResult is the success body of POST /analyze.
type AnalysisResult struct {
	MatchScore    float64  `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Suggestions   string   `json:"suggestions,omitempty"`
}

// AnalysisError is the error body of POST /analyze. The service is not strict about
// the type of Error.
type AnalysisError struct {
	Error json.RawMessage `json:"error"`
}

type StateResponse struct {
	Phase     Phase        `json:"phase"`
	CanSubmit bool         `json:"canSubmit"`
	State     SessionState `json:"state"`
}
