package models

import "strings"

// User-facing messages.
const (
	MsgUnsupportedFile     = "Please upload a PDF, DOC, or DOCX file"
	MsgMissingDescription  = "Please enter a job description"
	MsgMissingResume       = "Please upload a resume"
	MsgServerNotResponding = "Server is not responding. Please try later."
	MsgGenericFailure      = "An error occurred. Please try again."
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseResults Phase = "results"
)

// ResumeFile is an uploaded resume held in memory until it is sent.
type ResumeFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"-"`
}

type SessionState struct {
	FileName       *string         `json:"fileName"`
	JobDescription string          `json:"jobDescription"`
	ResumeFile     *ResumeFile     `json:"-"`
	Results        *AnalysisResult `json:"results"`
	IsLoading      bool            `json:"isLoading"`
	Error          *string         `json:"error"`
}

// Phase derives the UI phase. Loading wins, then a pending error, then results.
func (s SessionState) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseLoading
	case s.Error != nil:
		return PhaseError
	case s.Results != nil:
		return PhaseResults
	default:
		return PhaseIdle
	}
}

// HasDescription reports whether the description has non-whitespace content.
func (s SessionState) HasDescription() bool {
	return strings.TrimSpace(s.JobDescription) != ""
}

// ErrorText returns the current error message or "".
func (s SessionState) ErrorText() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}
