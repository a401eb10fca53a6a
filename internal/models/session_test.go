package models

import "testing"

func TestSessionStatePhase(t *testing.T) {
	msg := "bad file"
	result := &AnalysisResult{MatchScore: 50}

	tests := []struct {
		name     string
		state    SessionState
		expected Phase
	}{
		{"initial", SessionState{}, PhaseIdle},
		{"loading", SessionState{IsLoading: true}, PhaseLoading},
		{"loading beats error and results", SessionState{IsLoading: true, Error: &msg, Results: result}, PhaseLoading},
		{"error", SessionState{Error: &msg}, PhaseError},
		{"error with stale results", SessionState{Error: &msg, Results: result}, PhaseError},
		{"results", SessionState{Results: result}, PhaseResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Phase(); got != tt.expected {
				t.Errorf("Expected phase %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSessionStateHasDescription(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"   \n\t ", false},
		{"Go developer", true},
		{"  SQL  ", true},
	}

	for _, tt := range tests {
		s := SessionState{JobDescription: tt.input}
		if got := s.HasDescription(); got != tt.expected {
			t.Errorf("HasDescription(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
