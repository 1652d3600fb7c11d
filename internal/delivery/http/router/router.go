// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"prolits/internal/delivery/http/middleware"
	"prolits/internal/delivery/http/router/handler"
	"prolits/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	OAuthHandler   *handler.OAuthHandler
	HealthHandler  *handler.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	oauthHandler   *handler.OAuthHandler
	healthHandler  *handler.HealthHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		oauthHandler:   params.OAuthHandler,
		healthHandler:  params.HealthHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Check)

	if r.metrics != nil && r.metrics.Enabled() {
		e.GET(r.metrics.Path(), r.metrics.Handler())
	}

	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/user", r.authHandler.CurrentUser, r.authMiddleware.Authenticate)

		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.GET("/verify-reset-token/:token", r.authHandler.VerifyResetToken)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	// Static routes above win over the provider parameter.
	oauthGroup := e.Group("/api/auth/:provider")
	{
		oauthGroup.GET("", r.oauthHandler.Start)
		oauthGroup.GET("/callback", r.oauthHandler.Callback)
		oauthGroup.POST("/callback", r.oauthHandler.Callback)
	}
}
