package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avialine/travel-booking/internal/handler"
	"github.com/avialine/travel-booking/internal/middleware"
	"github.com/avialine/travel-booking/internal/model"
)

// RegisterTraveler registers the booking endpoints.  Any authenticated
// role may book; ownership checks happen in the handlers.
func RegisterTraveler(e *echo.Echo, a *handler.AuthHandler, f *handler.FlightHandler, h *handler.HotelHandler, cars *handler.CarHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger, model.RoleAdmin, model.RoleSuperAdmin),
	)

	g.GET("/me", a.Me)

	g.POST("/flights/book", f.Book)
	g.GET("/flights/bookings/my", f.MyBookings)
	g.DELETE("/flights/bookings/:id", f.Cancel)

	g.POST("/hotels/book", h.Book)
	g.GET("/hotels/bookings/my", h.MyBookings)
	g.DELETE("/hotels/bookings/:id", h.Cancel)

	g.POST("/cars/book", cars.Book)
	g.GET("/cars/bookings/my", cars.MyBookings)
	g.DELETE("/cars/bookings/:id", cars.Cancel)
}
