package views

import (
	"strconv"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	LoadingCaption      = "Analyzing your resume..."
	PlaceholderCaption  = "Upload a resume and job description to see analysis results"
	SuggestionsFallback = "No specific suggestions available."
)

// ResultsView is what the results panel shows for a given state.
type ResultsView struct {
	Loading        bool     `json:"loading"`
	LoadingCaption string   `json:"loadingCaption,omitempty"`
	Placeholder    string   `json:"placeholder,omitempty"`
	HasResults     bool     `json:"hasResults"`
	MatchScore     string   `json:"matchScore,omitempty"`
	ScoreWidth     string   `json:"scoreWidth,omitempty"`
	MatchedSkills  []string `json:"matchedSkills,omitempty"`
	MissingSkills  []string `json:"missingSkills,omitempty"`
	Suggestions    string   `json:"suggestions,omitempty"`
}

// NewResultsView derives the panel from state: loading first, then results, then the
// placeholder (which prefers the error text).
func NewResultsView(state models.SessionState) ResultsView {
	if state.IsLoading {
		return ResultsView{Loading: true, LoadingCaption: LoadingCaption}
	}

	if state.Results == nil {
		placeholder := PlaceholderCaption
		if text := state.ErrorText(); text != "" {
			placeholder = text
		}
		return ResultsView{Placeholder: placeholder}
	}

	r := state.Results
	suggestions := r.Suggestions
	if suggestions == "" {
		suggestions = SuggestionsFallback
	}

	return ResultsView{
		HasResults:    true,
		MatchScore:    formatScore(r.MatchScore),
		ScoreWidth:    formatScore(clampScore(r.MatchScore)) + "%",
		MatchedSkills: r.MatchedSkills,
		MissingSkills: r.MissingSkills,
		Suggestions:   suggestions,
	}
}

func (v ResultsView) ShowMatched() bool {
	return len(v.MatchedSkills) > 0
}

func (v ResultsView) ShowMissing() bool {
	return len(v.MissingSkills) > 0
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
