package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
	"alfredoptarigan/resume-analyzer/internal/views"
)

type stateResponse struct {
	models.StateResponse
	PickerGeneration uint64            `json:"pickerGeneration"`
	View             views.ResultsView `json:"view"`
}

func newStateResponse(ctrl *services.FormController) stateResponse {
	state := ctrl.State()
	return stateResponse{
		StateResponse: models.StateResponse{
			Phase:     state.Phase(),
			CanSubmit: ctrl.CanSubmit(),
			State:     state,
		},
		PickerGeneration: pickerGeneration(ctrl),
		View:             views.NewResultsView(state),
	}
}

// HandleGetState handles GET /api/state
func (h *FormHandler) HandleGetState(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(newStateResponse(ctrl))
}
