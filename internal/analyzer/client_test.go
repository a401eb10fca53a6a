package analyzer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func testResume() *models.ResumeFile {
	return &models.ResumeFile{
		Name:        "cv.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("http://localhost:5000/", 0)

	if client.Timeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", client.Timeout())
	}

	if client.Endpoint() != "http://localhost:5000/analyze" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.Endpoint())
	}
}

func TestAnalyzeSendsMultipartPayload(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/analyze" {
			t.Errorf("Expected /analyze, got %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Expected multipart content type, got %s", r.Header.Get("Content-Type"))
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue("job_description"); got != "Need SQL and Go" {
			t.Errorf("Expected job description field, got %q", got)
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("Expected resume file part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "cv.pdf" || string(data) != "%PDF-1.4 fake" {
			t.Errorf("Unexpected resume part: %s %q", header.Filename, data)
		}
		if header.Header.Get("Content-Type") != "application/pdf" {
			t.Errorf("Expected application/pdf part, got %s", header.Header.Get("Content-Type"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"match_score":82,"matched_skills":["SQL"],"missing_skills":["Go"],"suggestions":"Learn Go"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)
	result, err := client.Analyze(context.Background(), "Need SQL and Go", testResume())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected exactly one request, got %d", calls)
	}
	if result.MatchScore != 82 || result.Suggestions != "Learn Go" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(result.MatchedSkills) != 1 || result.MatchedSkills[0] != "SQL" {
		t.Errorf("Unexpected matched skills: %v", result.MatchedSkills)
	}
	if len(result.MissingSkills) != 1 || result.MissingSkills[0] != "Go" {
		t.Errorf("Unexpected missing skills: %v", result.MissingSkills)
	}
}

func TestAnalyzeServerErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error field", http.StatusBadRequest, `{"error":"bad file"}`, "bad file"},
		{"no error field", http.StatusInternalServerError, `{"detail":"boom"}`, ""},
		{"numeric error field", http.StatusBadRequest, `{"error":42}`, "42"},
		{"object error field", http.StatusUnprocessableEntity, `{"error": {"code": 7}}`, `{"code":7}`},
		{"null error field", http.StatusBadRequest, `{"error":null}`, ""},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
		{"empty body", http.StatusServiceUnavailable, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, time.Second).Analyze(context.Background(), "jd", testResume())

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("Expected ServerError, got %v", err)
			}
			if serverErr.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, serverErr.StatusCode)
			}
			if serverErr.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, serverErr.Message)
			}
			if errors.Is(err, ErrNoResponse) {
				t.Error("Server error must not be classified as no response")
			}
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 100*time.Millisecond)
	_, err := client.Analyze(context.Background(), "jd", testResume())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Expected ErrNoResponse, got %v", err)
	}
}

func TestAnalyzeTimeoutWhileReadingBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"match_score":`))
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 100*time.Millisecond)
	result, err := client.Analyze(context.Background(), "jd", testResume())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Expected ErrNoResponse, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil result, got %+v", result)
	}
}

func TestAnalyzeContextCanceledWhileReadingBody(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"match_score":`))
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		cancel()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 5*time.Second).Analyze(ctx, "jd", testResume())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Expected ErrNoResponse, got %v", err)
	}
}

func TestAnalyzeConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Analyze(context.Background(), "jd", testResume())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Expected ErrNoResponse, got %v", err)
	}
}

func TestAnalyzeMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	result, err := NewClient(server.URL, time.Second).Analyze(context.Background(), "jd", testResume())
	if err == nil {
		t.Fatal("Expected decode error, got nil")
	}
	if result != nil {
		t.Errorf("Expected nil result, got %+v", result)
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) || errors.Is(err, ErrNoResponse) {
		t.Errorf("Expected unclassified error, got %v", err)
	}
}

func TestAnalyzeRequiresResume(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", time.Second).Analyze(context.Background(), "jd", nil)
	if err == nil {
		t.Fatal("Expected error for nil resume")
	}
	if errors.Is(err, ErrNoResponse) {
		t.Error("Nil resume must fail before any request is sent")
	}
}
