package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aerovia/airline-reservation/internal/config"
	"github.com/aerovia/airline-reservation/internal/handler"
	"github.com/aerovia/airline-reservation/internal/middleware"
	"github.com/aerovia/airline-reservation/internal/model"
)

// RegisterBookings wires the reservation endpoints.  Seat maps are
// public; placing a booking requires authentication and passes
// through the token-bucket limiter so retry storms cannot hammer the
// admission path.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	e.GET("/v1/bookings/flight/:id/seats", b.FlightSeats)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger, model.RoleAdmin),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)
	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.MyBookings)
}
