package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avialine/travel-booking/internal/handler"
	"github.com/avialine/travel-booking/internal/middleware"
	"github.com/avialine/travel-booking/internal/model"
)

// RegisterAdmin registers the aggregation and management endpoints.
// ADMIN and SUPER_ADMIN may read; role mutation and settings writes
// are SUPER_ADMIN only.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
	)

	g.GET("/dashboard", h.Dashboard)
	g.GET("/users", h.ListUsers)
	g.PATCH("/users/:id/toggle-status", h.ToggleActive)
	g.GET("/settings", h.GetSettings)
	g.GET("/logs", h.Logs)

	super := middleware.RequireRole(model.RoleSuperAdmin)
	g.PUT("/users/:id/role", h.UpdateRole, super)
	g.PUT("/settings/:key", h.PutSetting, super)
}
