package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafay1716/shopflow-automation/internal/dto"
	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

type AutomationHandler struct {
	scheduler service.Scheduler
	generator service.OrderGenerator
}

func NewAutomationHandler(scheduler service.Scheduler, generator service.OrderGenerator) *AutomationHandler {
	return &AutomationHandler{
		scheduler: scheduler,
		generator: generator,
	}
}

// Run is the recurring trigger: one batch, or a no-op when idle, closed or busy.
func (h *AutomationHandler) Run(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.scheduler.Run(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, &service.RunResult{
			Success: false,
			Message: err.Error(),
			State:   h.scheduler.State(),
		})
	}

	return c.JSON(http.StatusOK, result)
}

// Generate creates a single AUTO order outside of any batch.
func (h *AutomationHandler) Generate(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.generator.Generate(ctx)
	if err != nil {
		he := toHTTPError(err)
		return c.JSON(he.Code, &dto.GenerateResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, &dto.GenerateResponse{
		Success: true,
		Order:   summary,
	})
}

func (h *AutomationHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"state": string(h.scheduler.State()),
	})
}
