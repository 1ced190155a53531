package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafay1716/shopflow-automation/internal/dto"
	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

// StorefrontHandler serves the unauthenticated reads of the shop front.
type StorefrontHandler struct {
	adminService service.AdminService
}

func NewStorefrontHandler(adminService service.AdminService) *StorefrontHandler {
	return &StorefrontHandler{
		adminService: adminService,
	}
}

func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.adminService.ListProducts(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *StorefrontHandler) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.adminService.GetSettings(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.PublicSettings{
		TickerText:    settings.TickerText,
		TickerEnabled: settings.TickerEnabled,
		LogoURL:       settings.LogoURL,
	})
}
