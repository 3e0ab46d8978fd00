package router // route registration for the reservation API

import (
	"github.com/labstack/echo/v4"

	"github.com/aerovia/airline-reservation/internal/handler"
	"github.com/aerovia/airline-reservation/internal/middleware"
)

// RegisterRoutes registers endpoints that require no authentication:
// the health check and probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the auth endpoints.  Register, login and refresh
// live under /v1/auth without middleware; the session-wide logout
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works with just a refresh token in the body, so it stays
	// outside the JWT group.
	g.POST("/logout", a.Logout)

	// With a bearer token and no body, logout revokes every session.
	e.POST("/v1/logout", a.Logout, middleware.JWTAuth(jwtSecret))
}
