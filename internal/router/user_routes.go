package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aerovia/airline-reservation/internal/handler"
	"github.com/aerovia/airline-reservation/internal/middleware"
	"github.com/aerovia/airline-reservation/internal/model"
)

// RegisterUsers wires the profile endpoints for authenticated users
// and the user listing for admins.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/me", u.Profile)
	g.PUT("/me", u.UpdateProfile)

	e.GET("/v1/users", u.List,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))
}
