// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"userhub/internal/delivery/http/middleware"
	"userhub/internal/delivery/http/router/handler"
	"userhub/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	SystemHandler  *handler.SystemHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Registry `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	systemHandler  *handler.SystemHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Registry
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		systemHandler:  params.SystemHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/", r.systemHandler.Home)
	e.GET("/about", r.systemHandler.About)
	e.GET("/health", r.systemHandler.Health)

	if r.metrics != nil && r.metrics.Enabled() {
		e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	// Public account routes
	e.POST("/register", r.accountHandler.Register)
	e.POST("/login", r.accountHandler.Login)

	// Routes that require a bearer token
	auth := r.authMiddleware.Authenticate
	e.GET("/profile", r.accountHandler.GetProfile, auth)
	e.PUT("/profile", r.accountHandler.UpdateProfile, auth)
	e.POST("/change-password", r.accountHandler.ChangePassword, auth)
	e.POST("/logout", r.accountHandler.Logout, auth)
}
