package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafay1716/shopflow-automation/internal/dto"
	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token, expiresAt, err := h.authService.Login(ctx, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
