package handlers

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
	"alfredoptarigan/resume-analyzer/internal/views"
)

// formPicker stands in for the page's file input. Each reset bumps the generation
// rendered on the input.
type formPicker struct {
	generation atomic.Uint64
}

func (p *formPicker) Reset() {
	p.generation.Add(1)
}

func pickerGeneration(ctrl *services.FormController) uint64 {
	if p, ok := ctrl.Picker().(*formPicker); ok {
		return p.generation.Load()
	}
	return 0
}

type FormHandler struct {
	store       *session.Store
	registry    services.SessionRegistry
	worker      services.Worker
	maxFileSize int64
}

func NewFormHandler(
	store *session.Store,
	registry services.SessionRegistry,
	worker services.Worker,
	maxFileSize int64,
) *FormHandler {
	return &FormHandler{
		store:       store,
		registry:    registry,
		worker:      worker,
		maxFileSize: maxFileSize,
	}
}

// controller returns the form bound to the caller's session cookie.
func (h *FormHandler) controller(c *fiber.Ctx) (*services.FormController, error) {
	sess, err := h.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sessionID := sess.ID()
	if err := sess.Save(); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return h.registry.GetOrCreate(sessionID, &formPicker{}), nil
}

// HandleIndex handles GET /
func (h *FormHandler) HandleIndex(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Render("index", views.NewPage(ctrl.State(), pickerGeneration(ctrl)))
}

// HandleSelectFile handles POST /resume
func (h *FormHandler) HandleSelectFile(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	if jd, ok := formField(c, "job_description"); ok {
		ctrl.EditDescription(jd)
	}

	resume, err := h.resumeFromForm(c)
	if err != nil {
		return h.rejectUpload(c, ctrl, err)
	}
	ctrl.SelectFile(resume)

	return h.respond(c, ctrl, fiber.StatusOK)
}

// HandleClearFile handles POST /resume/clear
func (h *FormHandler) HandleClearFile(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	if jd, ok := formField(c, "job_description"); ok {
		ctrl.EditDescription(jd)
	}

	ctrl.ClearFile()
	return h.respond(c, ctrl, fiber.StatusOK)
}

// HandleDescription handles POST /description
func (h *FormHandler) HandleDescription(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	jd, _ := formField(c, "job_description")
	ctrl.EditDescription(jd)
	return h.respond(c, ctrl, fiber.StatusOK)
}

// HandleReset handles POST /reset
func (h *FormHandler) HandleReset(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	ctrl.Reset()
	return h.respond(c, ctrl, fiber.StatusOK)
}

// resumeFromForm reads the "resume" part. It returns nil when no file was posted.
func (h *FormHandler) resumeFromForm(c *fiber.Ctx) (*models.ResumeFile, error) {
	fileHeader, err := c.FormFile("resume")
	if err != nil || fileHeader.Filename == "" {
		return nil, nil
	}

	if fileHeader.Size > h.maxFileSize {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded file")
	}

	return &models.ResumeFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// rejectUpload answers API clients with the error body. Browsers get the message on
// the form instead.
func (h *FormHandler) rejectUpload(c *fiber.Ctx, ctrl *services.FormController, err error) error {
	if wantsJSON(c) {
		return err
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		ctrl.SetError(fe.Message)
	} else {
		ctrl.SetError(models.MsgGenericFailure)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// respond redirects browsers back to the page and answers API clients with the state.
func (h *FormHandler) respond(c *fiber.Ctx, ctrl *services.FormController, status int) error {
	if wantsJSON(c) {
		return c.Status(status).JSON(newStateResponse(ctrl))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// formField returns a posted form value and whether it was present at all.
func formField(c *fiber.Ctx, key string) (string, bool) {
	if form, err := c.MultipartForm(); err == nil {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	args := c.Request().PostArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}
