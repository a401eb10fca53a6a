package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// DefaultTimeout bounds a single analysis call.
const DefaultTimeout = 30 * time.Second

// ErrNoResponse marks a request that was sent but never answered.
var ErrNoResponse = errors.New("no response from analysis service")

// ServerError is a non-2xx answer from the analysis service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis service returned %d", e.StatusCode)
}

// Client talks to the remote analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) (client *Client) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client = &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	return client
}

// Timeout returns the per-request bound.
func (c *Client) Timeout() (timeout time.Duration) {
	timeout = c.httpClient.Timeout
	return timeout
}

// Endpoint returns the analyze URL.
func (c *Client) Endpoint() (endpoint string) {
	endpoint = c.baseURL + "/analyze"
	return endpoint
}

// Analyze posts the job description and resume as multipart/form-data. One attempt, no retries.
func (c *Client) Analyze(ctx context.Context, jobDescription string, resume *models.ResumeFile) (result *models.AnalysisResult, err error) {
	if resume == nil {
		err = errors.New("resume is required")
		return result, err
	}

	var body *bytes.Buffer
	var contentType string
	body, contentType, err = buildPayload(jobDescription, resume)
	if err != nil {
		err = errors.Wrap(err, "failed to build analysis payload")
		return result, err
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return result, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	resp, err = c.httpClient.Do(req)
	if err != nil {
		err = errors.Wrapf(ErrNoResponse, "%v", err)
		return result, err
	}
	defer resp.Body.Close()

	var respBytes []byte
	respBytes, err = io.ReadAll(resp.Body)
	if err != nil {
		// A timeout mid-body means the answer never arrived.
		if ctx.Err() != nil || os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrapf(ErrNoResponse, "%v", err)
			return result, err
		}
		err = errors.Wrap(err, "failed to read response body")
		return result, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = &ServerError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBytes),
		}
		return result, err
	}

	result = &models.AnalysisResult{}
	err = json.Unmarshal(respBytes, result)
	if err != nil {
		result = nil
		err = errors.Wrap(err, "failed to decode analysis result")
		return result, err
	}

	return result, err
}

// errorMessage pulls the "error" field out of an error body, or "". Non-string
// values are shown as their JSON text.
func errorMessage(body []byte) (message string) {
	var payload models.AnalysisError
	if jsonErr := json.Unmarshal(body, &payload); jsonErr != nil {
		return message
	}

	raw := bytes.TrimSpace(payload.Error)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return message
	}

	if jsonErr := json.Unmarshal(raw, &message); jsonErr == nil {
		return message
	}

	compact := &bytes.Buffer{}
	if jsonErr := json.Compact(compact, raw); jsonErr != nil {
		return string(raw)
	}
	message = compact.String()
	return message
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func buildPayload(jobDescription string, resume *models.ResumeFile) (body *bytes.Buffer, contentType string, err error) {
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	err = writer.WriteField("job_description", jobDescription)
	if err != nil {
		return body, contentType, err
	}

	fileType := resume.ContentType
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="resume"; filename="%s"`, quoteEscaper.Replace(resume.Name)))
	header.Set("Content-Type", fileType)

	var part io.Writer
	part, err = writer.CreatePart(header)
	if err != nil {
		return body, contentType, err
	}

	_, err = part.Write(resume.Data)
	if err != nil {
		return body, contentType, err
	}

	err = writer.Close()
	if err != nil {
		return body, contentType, err
	}

	contentType = writer.FormDataContentType()
	return body, contentType, err
}
