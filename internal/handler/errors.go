package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

// toHTTPError maps service sentinels onto status codes; anything unknown is a 500.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidProduct), errors.Is(err, service.ErrInvalidSettings):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAutomationDisabled),
		errors.Is(err, service.ErrOutsideWindow),
		errors.Is(err, service.ErrNoProductsAvailable),
		errors.Is(err, service.ErrNoFittingProducts):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSyncFailure), errors.Is(err, service.ErrUpstreamUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
