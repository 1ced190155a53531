package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/abdulrafay1716/shopflow-automation/internal/config"
	"github.com/abdulrafay1716/shopflow-automation/internal/handler"
	appmiddleware "github.com/abdulrafay1716/shopflow-automation/internal/middleware"
	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

type Server struct {
	echo              *echo.Echo
	cfg               config.HTTPServer
	jwtSecret         string
	automationHandler *handler.AutomationHandler
	adminHandler      *handler.AdminHandler
	authHandler       *handler.AuthHandler
	storefrontHandler *handler.StorefrontHandler
}

func NewServer(
	cfg config.HTTPServer,
	jwtSecret string,
	scheduler service.Scheduler,
	generator service.OrderGenerator,
	adminService service.AdminService,
	authService service.AuthService,
	log zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(appmiddleware.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:              e,
		cfg:               cfg,
		jwtSecret:         jwtSecret,
		automationHandler: handler.NewAutomationHandler(scheduler, generator),
		adminHandler:      handler.NewAdminHandler(adminService),
		authHandler:       handler.NewAuthHandler(authService),
		storefrontHandler: handler.NewStorefrontHandler(adminService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- storefront --------
	api.GET("/products", s.storefrontHandler.ListProducts)
	api.GET("/settings", s.storefrontHandler.GetSettings)

	// -------- automation triggers --------
	automation := api.Group("/automation", appmiddleware.RateLimit(s.cfg.TriggerRate, s.cfg.TriggerBurst))
	automation.POST("/run", s.automationHandler.Run)
	automation.POST("/generate", s.automationHandler.Generate)
	automation.GET("/status", s.automationHandler.Status)

	// -------- admin --------
	api.POST("/admin/login", s.authHandler.Login)

	admin := api.Group("/admin", appmiddleware.AdminAuth(s.jwtSecret))
	admin.GET("/products", s.adminHandler.ListProducts)
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.PUT("/products/:id", s.adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.adminHandler.DeleteProduct)

	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.GET("/orders/:id/items", s.adminHandler.GetOrderItems)
	admin.POST("/orders/:id/sync", s.adminHandler.SyncOrder)
	admin.GET("/stats", s.adminHandler.Stats)

	admin.GET("/settings", s.adminHandler.GetSettings)
	admin.PATCH("/settings", s.adminHandler.UpdateSettings)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Host + ":" + s.cfg.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
