// Package handler contains the HTTP handlers for the travel booking
// API.  All responses share one envelope: {"success": bool} plus
// "data" on success or "message" on failure.  Degraded-mode responses
// additionally carry a "note" explaining the demo substitution.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func okDemo(c echo.Context, status int, data any, note string) error {
	return c.JSON(status, echo.Map{"success": true, "data": data, "note": note})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// userID extracts the authenticated user's ID stored by the JWT
// middleware.  JWT numeric claims decode as float64.
func userID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func userRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
