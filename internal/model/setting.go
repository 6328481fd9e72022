package model

import "time"

// AdminSetting is a row in the `admin_settings` table.  Settings are
// grouped by category for display in the admin panel.
type AdminSetting struct {
	ID          uint64    // admin_settings.id
	Key         string    // admin_settings.setting_key (unique)
	Value       string    // admin_settings.setting_value
	Category    string    // admin_settings.category
	Description string    // admin_settings.description
	IsActive    bool      // admin_settings.is_active
	UpdatedAt   time.Time // admin_settings.updated_at
}

// SystemLog is an audit entry written by admin mutations.  UserID is
// nil for events without an acting user.
type SystemLog struct {
	ID        uint64    // system_logs.id
	UserID    *uint64   // system_logs.user_id (nullable)
	Level     string    // system_logs.level (INFO, WARN, ERROR)
	Action    string    // system_logs.action
	Detail    string    // system_logs.detail
	CreatedAt time.Time // system_logs.created_at
}
