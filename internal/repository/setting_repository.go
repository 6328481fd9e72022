package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// SettingRepo stores the key/value platform settings and the audit
// trail of admin actions.
type SettingRepo struct{ db *sql.DB }

func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{db: db} }

// ListGrouped returns active settings grouped by category.
func (r *SettingRepo) ListGrouped(ctx context.Context) (map[string][]model.AdminSetting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT setting_key, setting_value, category, description, is_active
		 FROM admin_settings WHERE is_active = TRUE ORDER BY category, setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.AdminSetting)
	for rows.Next() {
		var s model.AdminSetting
		var desc sql.NullString
		if err := rows.Scan(&s.Key, &s.Value, &s.Category, &desc, &s.IsActive); err != nil {
			return nil, err
		}
		if desc.Valid {
			s.Description = desc.String
		}
		out[s.Category] = append(out[s.Category], s)
	}
	return out, rows.Err()
}

// Upsert writes one setting, inserting or overwriting by key.  A blank
// description is filled from the key so the settings screen always has
// a label.
func (r *SettingRepo) Upsert(ctx context.Context, s model.AdminSetting) error {
	if s.Description == "" {
		s.Description = "Setting for " + s.Key
	}
	const q = `INSERT INTO admin_settings (setting_key, setting_value, category, description, is_active)
		VALUES (?,?,?,?,TRUE)
		ON DUPLICATE KEY UPDATE
			setting_value = VALUES(setting_value),
			category = VALUES(category),
			description = VALUES(description),
			is_active = TRUE`
	_, err := r.db.ExecContext(ctx, q, s.Key, s.Value, s.Category, s.Description)
	return err
}

// InsertLog appends one audit entry.  Failures are the caller's to
// ignore; auditing never blocks the action it records.
func (r *SettingRepo) InsertLog(ctx context.Context, l model.SystemLog) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO system_logs (user_id, level, action, detail) VALUES (?,?,?,?)",
		l.UserID, l.Level, l.Action, l.Detail)
	return err
}

// LogEntry is an audit row joined with the acting user's name.
type LogEntry struct {
	ID        uint64    `json:"id"`
	UserName  *string   `json:"userName,omitempty"`
	Level     string    `json:"level"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListLogs returns a page of audit entries, newest first.
func (r *SettingRepo) ListLogs(ctx context.Context, page, limit int) ([]LogEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, CONCAT(u.first_name, ' ', u.last_name), l.level, l.action, l.detail, l.created_at
		 FROM system_logs l
		 LEFT JOIN users u ON u.id = l.user_id
		 ORDER BY l.created_at DESC LIMIT ? OFFSET ?`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LogEntry, 0, limit)
	for rows.Next() {
		var e LogEntry
		var name sql.NullString
		if err := rows.Scan(&e.ID, &name, &e.Level, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if name.Valid {
			n := name.String
			e.UserName = &n
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
