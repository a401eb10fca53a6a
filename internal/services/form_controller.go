package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// AnalyzerClient performs the remote analysis call.
type AnalyzerClient interface {
	Analyze(ctx context.Context, jobDescription string, resume *models.ResumeFile) (*models.AnalysisResult, error)
}

// FilePicker is the native file input backing a form.
type FilePicker interface {
	Reset()
}

type noopPicker struct{}

func (noopPicker) Reset() {}

// ErrWorkerStopped fails submissions that could not be handed to the worker.
var ErrWorkerStopped = errors.New("analysis worker stopped")

var supportedResume = regexp.MustCompile(`(?i)\.(pdf|doc|docx)$`)

// IsSupportedResume reports whether name has a .pdf, .doc or .docx extension.
func IsSupportedResume(name string) bool {
	return supportedResume.MatchString(name)
}

// FormController owns one SessionState. Every mutation goes through its methods.
type FormController struct {
	mu         sync.Mutex
	state      models.SessionState
	analyzer   AnalyzerClient
	picker     FilePicker
	generation uint64
}

// Submission is one analysis attempt captured when the guards pass.
type Submission struct {
	ID             uuid.UUID
	JobDescription string
	Resume         *models.ResumeFile

	controller *FormController
	generation uint64
}

// Run performs the remote call and applies its outcome.
func (s *Submission) Run(ctx context.Context) {
	s.controller.Execute(ctx, s)
}

// Fail ends the submission without calling the analysis service.
func (s *Submission) Fail(err error) {
	s.controller.finish(s, nil, err)
}

func NewFormController(analyzerClient AnalyzerClient, picker FilePicker) *FormController {
	if picker == nil {
		picker = noopPicker{}
	}

	return &FormController{
		analyzer: analyzerClient,
		picker:   picker,
	}
}

// State returns a snapshot of the session state.
func (f *FormController) State() models.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Picker returns the file picker bound to this form.
func (f *FormController) Picker() FilePicker {
	return f.picker
}

func (f *FormController) Phase() models.Phase {
	return f.State().Phase()
}

// CanSubmit mirrors the submit control's enabled state.
func (f *FormController) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return canSubmit(f.state)
}

func canSubmit(s models.SessionState) bool {
	return !s.IsLoading && s.ResumeFile != nil && s.HasDescription()
}

// SelectFile accepts a resume if its extension is supported. A nil file is ignored.
func (f *FormController) SelectFile(file *models.ResumeFile) {
	if file == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !IsSupportedResume(file.Name) {
		f.state.Error = message(models.MsgUnsupportedFile)
		f.state.ResumeFile = nil
		f.state.FileName = nil
		return
	}

	name := file.Name
	f.state.FileName = &name
	f.state.ResumeFile = file
	f.state.Error = nil
}

// ClearFile drops the selected resume and resets the picker. The error is kept.
func (f *FormController) ClearFile() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.picker.Reset()
	f.state.FileName = nil
	f.state.ResumeFile = nil
}

func (f *FormController) EditDescription(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.JobDescription = text
}

// SetError shows text as the form's error message.
func (f *FormController) SetError(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Error = message(text)
}

// Reset restores the initial state. Completions of earlier submissions are dropped.
func (f *FormController) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.picker.Reset()
	f.state = models.SessionState{}
	f.generation++
}

// Submit validates the inputs and, if they pass, runs one analysis call synchronously.
func (f *FormController) Submit(ctx context.Context) {
	submission, ok := f.Begin()
	if !ok {
		return
	}
	f.Execute(ctx, submission)
}

// Begin applies the submit guards. On success the state enters loading, previous
// results are cleared and the returned Submission must be run or failed.
func (f *FormController) Begin() (*Submission, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.begin()
}

// TryBegin is Begin for callers that must not overlap submissions. busy is true, and
// the state is left untouched, when a submission is already in flight.
func (f *FormController) TryBegin() (submission *Submission, ok bool, busy bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.IsLoading {
		return nil, false, true
	}
	submission, ok = f.begin()
	return submission, ok, false
}

func (f *FormController) begin() (*Submission, bool) {
	if !f.state.HasDescription() {
		f.state.Error = message(models.MsgMissingDescription)
		return nil, false
	}

	if f.state.ResumeFile == nil {
		f.state.Error = message(models.MsgMissingResume)
		return nil, false
	}

	f.state.IsLoading = true
	f.state.Error = nil
	f.state.Results = nil

	return &Submission{
		ID:             uuid.New(),
		JobDescription: f.state.JobDescription,
		Resume:         f.state.ResumeFile,
		controller:     f,
		generation:     f.generation,
	}, true
}

// Execute calls the analysis service for s and applies the outcome.
func (f *FormController) Execute(ctx context.Context, s *Submission) {
	log.Printf("🔄 Submitting analysis %s (%s)\n", s.ID, s.Resume.Name)

	result, err := f.analyzer.Analyze(ctx, s.JobDescription, s.Resume)
	if err != nil {
		log.Printf("❌ Analysis %s failed: %v\n", s.ID, err)
	} else {
		log.Printf("✅ Analysis %s completed\n", s.ID)
	}

	f.finish(s, result, err)
}

func (f *FormController) finish(s *Submission, result *models.AnalysisResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s.generation != f.generation {
		log.Printf("⚠️  Dropping analysis %s, form was reset\n", s.ID)
		return
	}

	f.state.IsLoading = false

	if err != nil {
		f.state.Error = message(ErrorMessage(err))
		return
	}

	if result == nil {
		f.state.Error = message(models.MsgGenericFailure)
		return
	}

	f.state.Results = result
	f.state.Error = nil
}

// ErrorMessage maps a failed analysis call to the message shown to the user.
func ErrorMessage(err error) string {
	var serverErr *analyzer.ServerError
	switch {
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return models.MsgGenericFailure
	case errors.Is(err, analyzer.ErrNoResponse):
		return models.MsgServerNotResponding
	default:
		return models.MsgGenericFailure
	}
}

func message(text string) *string {
	return &text
}
