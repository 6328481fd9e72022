package repository

import (
	"context"
	"database/sql"
	"time"
)

// AdminRepo aggregates cross-table statistics for the admin dashboard.
type AdminRepo struct{ db *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// RecentBooking is one row of the dashboard's recent-activity feed,
// drawn from all three booking tables.
type RecentBooking struct {
	Kind             string    `json:"kind"`
	BookingReference string    `json:"bookingReference"`
	UserName         string    `json:"userName"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DashboardStats is the aggregate snapshot served by the dashboard
// endpoint.  Revenue counts non-cancelled bookings only.
type DashboardStats struct {
	TotalUsers        int             `json:"totalUsers"`
	TotalBookings     int             `json:"totalBookings"`
	TotalRevenueCents int64           `json:"totalRevenueCents"`
	ActiveFlights     int             `json:"activeFlights"`
	RecentBookings    []RecentBooking `json:"recentBookings"`
	UsersByRole       map[string]int  `json:"usersByRole"`
	BookingsByStatus  map[string]int  `json:"bookingsByStatus"`
}

// unionBookings projects the three booking tables onto a common shape
// so counts, revenue and the recent feed come from one source.
const unionBookings = `
	SELECT 'hotel' AS kind, booking_reference, user_id, total_amount_cents, status, created_at FROM hotel_bookings
	UNION ALL
	SELECT 'car', booking_reference, user_id, total_amount_cents, status, created_at FROM car_bookings
	UNION ALL
	SELECT 'flight', booking_reference, user_id, total_amount_cents, status, created_at FROM flight_bookings`

// Dashboard assembles the full stats snapshot.
func (r *AdminRepo) Dashboard(ctx context.Context) (*DashboardStats, error) {
	s := &DashboardStats{
		RecentBookings:   []RecentBooking{},
		UsersByRole:      map[string]int{},
		BookingsByStatus: map[string]int{},
	}

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&s.TotalUsers); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN status <> 'CANCELLED' THEN total_amount_cents ELSE 0 END), 0) FROM ("+unionBookings+") b").
		Scan(&s.TotalBookings, &s.TotalRevenueCents); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM flights WHERE status='SCHEDULED'").Scan(&s.ActiveFlights); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT b.kind, b.booking_reference, CONCAT(u.first_name, ' ', u.last_name),
			b.total_amount_cents, b.status, b.created_at
		 FROM (`+unionBookings+`) b
		 JOIN users u ON u.id = b.user_id
		 ORDER BY b.created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rb RecentBooking
		if err := rows.Scan(&rb.Kind, &rb.BookingReference, &rb.UserName,
			&rb.TotalAmountCents, &rb.Status, &rb.CreatedAt); err != nil {
			return nil, err
		}
		s.RecentBookings = append(s.RecentBookings, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roleRows, err := r.db.QueryContext(ctx, "SELECT role, COUNT(*) FROM users GROUP BY role")
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var role string
		var n int
		if err := roleRows.Scan(&role, &n); err != nil {
			return nil, err
		}
		s.UsersByRole[role] = n
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM ("+unionBookings+") b GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var n int
		if err := statusRows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.BookingsByStatus[status] = n
	}
	return s, statusRows.Err()
}
