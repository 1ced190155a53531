package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

const adminContextKey = "admin"

// AdminAuth requires a bearer token signed by AuthService.Login. Without a
// secret the admin API is closed.
func AdminAuth(secret string) echo.MiddlewareFunc {
	if secret == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "admin api disabled")
			}
		}
	}

	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ContextKey: adminContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.AdminClaims)
		},
	})
}
