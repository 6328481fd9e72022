// Package router wires handlers, middleware and role guards onto the
// Echo instance.  Public catalog routes carry no auth; traveler routes
// require any authenticated role; admin routes are registered in
// admin_routes.go with their own guards.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avialine/travel-booking/internal/handler"
)

// RegisterCore registers the health check, the Prometheus scrape
// endpoint and the auth routes.
func RegisterCore(e *echo.Echo, db *sql.DB, a *handler.AuthHandler, jwtSecret string) {
	e.GET("/health", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated catalog routes: hotel
// and car browsing, flight search and the airline/airport lists.  The
// response cache applies only here; authenticated responses are never
// cached.
func RegisterPublic(e *echo.Echo, f *handler.FlightHandler, h *handler.HotelHandler, cars *handler.CarHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)

	g.GET("/flights/search", f.Search)
	g.GET("/flights/:id", f.Get)
	g.GET("/airlines", f.Airlines)
	g.GET("/airports", f.Airports)

	g.GET("/hotels", h.List)
	g.GET("/hotels/:id", h.Get)
	g.GET("/hotels/:id/rooms", h.Rooms)

	g.GET("/cars", cars.List)
	g.GET("/cars/:id", cars.Get)
}
