// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinepass/ticket-booking/internal/config"
	"github.com/cinepass/ticket-booking/internal/handler"
	"github.com/cinepass/ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse and availability
// endpoints.  When a Redis client is available the responses are served
// through the read-through cache middleware; availability and quote
// endpoints stay uncached because they must reflect the live ledger.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, a *handler.AvailabilityHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	if rdb != nil && cacheCfg.Enabled {
		cached := g.Group("")
		cached.Use(middleware.NewRedisCache(cacheCfg, rdb))
		cached.GET("/movies", p.ListMovies)
		cached.GET("/locations", p.ListLocations)
		cached.GET("/locations/:id/screens", p.ListScreens)
		cached.GET("/screens/:id/seats", p.ListScreenSeats)
		cached.GET("/movies/:id/showtimes", p.ListMovieShowtimes)
		cached.GET("/locations/:id/showtimes", p.ListLocationShowtimes)
		cached.GET("/showtimes/:id", p.GetShowtime)
	} else {
		g.GET("/movies", p.ListMovies)
		g.GET("/locations", p.ListLocations)
		g.GET("/locations/:id/screens", p.ListScreens)
		g.GET("/screens/:id/seats", p.ListScreenSeats)
		g.GET("/movies/:id/showtimes", p.ListMovieShowtimes)
		g.GET("/locations/:id/showtimes", p.ListLocationShowtimes)
		g.GET("/showtimes/:id", p.GetShowtime)
	}

	// Never cached: these answers change with every hold and booking.
	g.GET("/showtimes/:id/seats", a.ShowtimeSeats)
	g.GET("/showtimes/:id/quote", a.Quote)
}

// RegisterReservation registers the authenticated reservation flow.
// Every route requires a valid customer token; when a Redis client is
// available the token bucket rate limiter runs before the handlers.
func RegisterReservation(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string, rateCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER"))
	if rdb != nil && rateCfg.Enabled {
		g.Use(middleware.NewTokenBucket(rateCfg, rdb))
	}

	g.POST("/showtimes/:id/hold", r.Hold)
	g.DELETE("/showtimes/:id/hold", r.Release)
	g.POST("/showtimes/:id/extend", r.Extend)
	g.POST("/showtimes/:id/confirm", r.Confirm)
	g.GET("/my-bookings", r.MyBookings)
	g.DELETE("/bookings/:order_id/seats/:seat_id", r.CancelSeat)
}
