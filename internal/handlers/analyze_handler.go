package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/services"
)

// HandleAnalyze handles POST /analyze. Posted fields update the form first, then the
// submission is validated and handed to the worker.
func (h *FormHandler) HandleAnalyze(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	// The submit control is disabled while a request is in flight.
	if ctrl.State().IsLoading {
		return h.respond(c, ctrl, fiber.StatusConflict)
	}

	if jd, ok := formField(c, "job_description"); ok {
		ctrl.EditDescription(jd)
	}

	resume, err := h.resumeFromForm(c)
	if err != nil {
		return h.rejectUpload(c, ctrl, err)
	}
	if resume != nil {
		ctrl.SelectFile(resume)
		if ctrl.State().ResumeFile != resume {
			return h.respond(c, ctrl, fiber.StatusBadRequest)
		}
	}

	submission, ok, busy := ctrl.TryBegin()
	if busy {
		return h.respond(c, ctrl, fiber.StatusConflict)
	}
	if !ok {
		return h.respond(c, ctrl, fiber.StatusBadRequest)
	}

	if !h.worker.EnqueueJob(submission) {
		log.Printf("⚠️  Analysis %s could not be queued\n", submission.ID)
		submission.Fail(services.ErrWorkerStopped)
		return h.respond(c, ctrl, fiber.StatusServiceUnavailable)
	}

	return h.respond(c, ctrl, fiber.StatusAccepted)
}
