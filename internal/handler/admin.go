package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avialine/travel-booking/internal/fallback"
	"github.com/avialine/travel-booking/internal/model"
	"github.com/avialine/travel-booking/internal/repository"
)

// AdminHandler serves the aggregation, user management and settings
// endpoints.  Role guards live in the router; SUPER_ADMIN-only
// operations are wired there.
type AdminHandler struct {
	Admin    *repository.AdminRepo
	Users    *repository.UserRepo
	Settings *repository.SettingRepo
	Guard    *fallback.Guard
}

func NewAdminHandler(a *repository.AdminRepo, u *repository.UserRepo, s *repository.SettingRepo, g *fallback.Guard) *AdminHandler {
	if a == nil || u == nil || s == nil {
		panic("handler: nil repository")
	}
	return &AdminHandler{Admin: a, Users: u, Settings: s, Guard: g}
}

// audit records an admin action.  Failures are logged upstream and
// never block the action itself.
func (h *AdminHandler) audit(ctx context.Context, actor uint64, action, detail string) {
	_ = h.Settings.InsertLog(ctx, model.SystemLog{
		UserID: &actor,
		Level:  "INFO",
		Action: action,
		Detail: detail,
	})
}

// Dashboard handles GET /v1/admin/dashboard.  Revenue is reported in
// whole currency units with two decimals.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	if h.Guard.Enabled() && h.Guard.Down() {
		return okDemo(c, http.StatusOK, fallback.DemoDashboard(), fallback.NoteDemoData)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Admin.Dashboard(ctx)
	if err != nil {
		if h.Guard.Trip(err) {
			return okDemo(c, http.StatusOK, fallback.DemoDashboard(), fallback.NoteDemoData)
		}
		return fail(c, http.StatusInternalServerError, "could not load dashboard")
	}
	h.Guard.Clear()

	userDist := make([]echo.Map, 0, len(stats.UsersByRole))
	for role, n := range stats.UsersByRole {
		userDist = append(userDist, echo.Map{"role": role, "count": n})
	}
	statusDist := make([]echo.Map, 0, len(stats.BookingsByStatus))
	for status, n := range stats.BookingsByStatus {
		statusDist = append(statusDist, echo.Map{"status": status, "count": n})
	}

	return ok(c, http.StatusOK, echo.Map{
		"overview": echo.Map{
			"totalUsers":    stats.TotalUsers,
			"totalBookings": stats.TotalBookings,
			"totalRevenue":  fmt.Sprintf("%.2f", float64(stats.TotalRevenueCents)/100),
			"activeFlights": stats.ActiveFlights,
		},
		"recentBookings": stats.RecentBookings,
		"charts": echo.Map{
			"userDistribution": userDist,
			"bookingStatus":    statusDist,
		},
	})
}

// ListUsers handles GET /v1/admin/users with pagination and a search
// term matched against email and names.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Users.List(ctx, page, limit, c.QueryParam("search"))
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load users")
	}
	h.Guard.Clear()

	users := make([]echo.Map, 0, len(res.Users))
	for _, u := range res.Users {
		users = append(users, userView(u))
	}
	totalPages := (res.Total + limit - 1) / limit
	return ok(c, http.StatusOK, echo.Map{
		"users": users,
		"pagination": echo.Map{
			"total":      res.Total,
			"page":       page,
			"limit":      limit,
			"totalPages": totalPages,
		},
	})
}

type roleReq struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /v1/admin/users/:id/role (SUPER_ADMIN only).
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "role must be PASSENGER, ADMIN or SUPER_ADMIN")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not update role")
	}
	h.Guard.Clear()
	h.audit(ctx, userID(c), "user.role.update", fmt.Sprintf("user %d role set to %s", id, role))
	return ok(c, http.StatusOK, userView(u))
}

// ToggleActive handles PATCH /v1/admin/users/:id/toggle-status.
func (h *AdminHandler) ToggleActive(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not toggle user")
	}
	h.Guard.Clear()
	h.audit(ctx, userID(c), "user.active.toggle", fmt.Sprintf("user %d active set to %t", id, u.IsActive))
	return ok(c, http.StatusOK, userView(u))
}

// GetSettings handles GET /v1/admin/settings, grouped by category.
func (h *AdminHandler) GetSettings(c echo.Context) error {
	if h.Guard.Enabled() && h.Guard.Down() {
		return okDemo(c, http.StatusOK, fallback.DemoSettings(), fallback.NoteDemoData)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grouped, err := h.Settings.ListGrouped(ctx)
	if err != nil {
		if h.Guard.Trip(err) {
			return okDemo(c, http.StatusOK, fallback.DemoSettings(), fallback.NoteDemoData)
		}
		return fail(c, http.StatusInternalServerError, "could not load settings")
	}
	h.Guard.Clear()

	out := echo.Map{}
	for category, settings := range grouped {
		entries := echo.Map{}
		for _, s := range settings {
			entries[s.Key] = echo.Map{
				"value":       s.Value,
				"description": s.Description,
				"isActive":    s.IsActive,
			}
		}
		out[category] = entries
	}
	return ok(c, http.StatusOK, out)
}

type settingReq struct {
	Value       string `json:"value"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// PutSetting handles PUT /v1/admin/settings/:key (SUPER_ADMIN only).
// The setting is upserted; category defaults to "system".
func (h *AdminHandler) PutSetting(c echo.Context) error {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		return fail(c, http.StatusBadRequest, "setting key must not be empty")
	}
	var req settingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Value) == "" {
		return fail(c, http.StatusBadRequest, "value is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "system"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Settings.Upsert(ctx, model.AdminSetting{
		Key:         key,
		Value:       req.Value,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
	}); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not save setting")
	}
	h.Guard.Clear()
	h.audit(ctx, userID(c), "settings.update", fmt.Sprintf("setting %s updated", key))
	return ok(c, http.StatusOK, echo.Map{
		"key":      key,
		"value":    req.Value,
		"category": category,
	})
}

// Logs handles GET /v1/admin/logs with pagination (default 50).
func (h *AdminHandler) Logs(c echo.Context) error {
	page, limit := pageParams(c)
	if c.QueryParam("limit") == "" {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	logs, err := h.Settings.ListLogs(ctx, page, limit)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load logs")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, logs)
}
