package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafay1716/shopflow-automation/internal/dto"
	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.adminService.ListProducts(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	product, err := h.adminService.CreateProduct(ctx, req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	product, err := h.adminService.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteProduct(ctx, c.Param("id")); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	orders, err := h.adminService.ListOrders(ctx, limit)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) GetOrderItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.adminService.GetOrderItems(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) SyncOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.SyncOrder(ctx, c.Param("id")); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "synced",
	})
}

func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.adminService.TodayStats(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.adminService.GetSettings(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	settings, err := h.adminService.UpdateSettings(ctx, req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, settings)
}
