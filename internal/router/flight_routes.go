package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aerovia/airline-reservation/internal/config"
	"github.com/aerovia/airline-reservation/internal/handler"
	"github.com/aerovia/airline-reservation/internal/middleware"
	"github.com/aerovia/airline-reservation/internal/model"
)

// RegisterFlights wires flight browsing and administration.  Browsing
// is public and sits behind the Redis response cache; mutations and
// the stats endpoint require the ADMIN role.
func RegisterFlights(e *echo.Echo, f *handler.FlightHandler, s *handler.StatsHandler, jwtSecret string, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	adminOnly := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	}

	pub := e.Group("/v1", cache)
	pub.GET("/flights", f.List)
	// Static segments win over :id in the router, so these coexist.
	pub.GET("/flights/airlines", f.Airlines)
	pub.GET("/flights/price-range", f.PriceRange)
	pub.GET("/flights/:id", f.Get)

	e.POST("/v1/flights", f.Create, adminOnly...)
	e.PUT("/v1/flights/:id", f.Update, adminOnly...)
	e.DELETE("/v1/flights/:id", f.Delete, adminOnly...)

	e.GET("/v1/stats", s.Overview, append(adminOnly, cache)...)
}
