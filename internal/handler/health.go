package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

var startTime = time.Now()

// Health reports process liveness plus a database reachability flag.
// It always answers 200; clients read the database field to detect
// degraded mode.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		dbUp := false
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			dbUp = db.PingContext(ctx) == nil
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		return c.JSON(http.StatusOK, echo.Map{
			"status":        "ok",
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"uptimeSeconds": int64(time.Since(startTime).Seconds()),
			"version":       Version,
			"database":      dbUp,
			"memory": echo.Map{
				"allocMB": m.Alloc / 1024 / 1024,
				"sysMB":   m.Sys / 1024 / 1024,
			},
		})
	}
}
