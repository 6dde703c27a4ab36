// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"hrpm/internal/delivery/http/middleware"
	"hrpm/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	SessionHandler *handler.SessionHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	sessionHandler *handler.SessionHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		sessionHandler: params.SessionHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Public auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh-token", r.authHandler.RefreshToken)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	// Routes for the signed-in caller
	meGroup := api.Group("/auth", r.authMiddleware.Authenticate)
	{
		meGroup.GET("/me", r.userHandler.GetProfile)
		meGroup.GET("/sessions", r.sessionHandler.ListSessions)
		meGroup.POST("/sessions/revoke", r.sessionHandler.RevokeOwnSessions)
	}

	// User administration
	userGroup := api.Group("/users", r.authMiddleware.Authenticate)
	{
		userGroup.POST("", r.userHandler.CreateUser, r.authMiddleware.AdminOnly())
		userGroup.GET("/:id", r.userHandler.GetUser, r.authMiddleware.ManagerOrAdmin())
		userGroup.POST("/:id/sessions/revoke", r.sessionHandler.RevokeUserSessions, r.authMiddleware.AdminOnly())
	}
}
