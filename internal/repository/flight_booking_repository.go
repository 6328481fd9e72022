package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// FlightBookingRepo persists seat purchases.  Creation and
// cancellation both run inside a transaction that also mutates the
// flight's seat counters, so the write methods are *Tx.
type FlightBookingRepo struct{ db *sql.DB }

func NewFlightBookingRepo(db *sql.DB) *FlightBookingRepo { return &FlightBookingRepo{db: db} }

// CreateTx inserts a flight booking within the caller's transaction
// and populates the generated ID and creation timestamp.
func (r *FlightBookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.FlightBooking) error {
	const q = `INSERT INTO flight_bookings
		(booking_reference, user_id, flight_id, seat_class, passengers, total_amount_cents, status)
		VALUES (?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		b.BookingReference, b.UserID, b.FlightID, b.SeatClass, b.Passengers,
		b.TotalAmountCents, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at FROM flight_bookings WHERE id = ?", b.ID).Scan(&b.CreatedAt)
}

// GetForUpdateTx locks a flight booking row for cancellation so the
// seat restore and the status transition commit together.
func (r *FlightBookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.FlightBooking, error) {
	const q = `SELECT id, booking_reference, user_id, flight_id, seat_class,
		passengers, total_amount_cents, status, created_at
	FROM flight_bookings WHERE id = ? FOR UPDATE`
	var b model.FlightBooking
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.BookingReference, &b.UserID, &b.FlightID, &b.SeatClass,
		&b.Passengers, &b.TotalAmountCents, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CancelTx marks a locked booking CANCELLED.  The caller restores the
// flight's seats in the same transaction.
func (r *FlightBookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE flight_bookings SET status='CANCELLED' WHERE id = ?", bookingID)
	return err
}

// FlightBookingDetail is a seat purchase joined with flight display
// fields for the "my bookings" listing.
type FlightBookingDetail struct {
	ID               uint64    `json:"id"`
	BookingReference string    `json:"bookingReference"`
	FlightID         uint64    `json:"flightId"`
	SeatClass        string    `json:"seatClass"`
	Passengers       int       `json:"passengers"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	Flight           struct {
		FlightNumber  string    `json:"flightNumber"`
		Airline       string    `json:"airline"`
		DepartureCode string    `json:"departureCode"`
		ArrivalCode   string    `json:"arrivalCode"`
		DepartureTime time.Time `json:"departureTime"`
		ArrivalTime   time.Time `json:"arrivalTime"`
	} `json:"flight"`
}

const flightBookingJoin = `SELECT b.id, b.booking_reference, b.flight_id, b.seat_class,
		b.passengers, b.total_amount_cents, b.status, b.created_at,
		f.flight_number, al.name, dep.code, arr.code, f.departure_time, f.arrival_time
	FROM flight_bookings b
	JOIN flights f ON f.id = b.flight_id
	JOIN airlines al ON al.id = f.airline_id
	JOIN airports dep ON dep.id = f.departure_airport_id
	JOIN airports arr ON arr.id = f.arrival_airport_id`

func scanFlightBookingDetail(scan func(dest ...interface{}) error) (*FlightBookingDetail, error) {
	var d FlightBookingDetail
	err := scan(&d.ID, &d.BookingReference, &d.FlightID, &d.SeatClass,
		&d.Passengers, &d.TotalAmountCents, &d.Status, &d.CreatedAt,
		&d.Flight.FlightNumber, &d.Flight.Airline,
		&d.Flight.DepartureCode, &d.Flight.ArrivalCode,
		&d.Flight.DepartureTime, &d.Flight.ArrivalTime)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail returns one seat purchase joined with display fields.
func (r *FlightBookingRepo) GetDetail(ctx context.Context, id uint64) (*FlightBookingDetail, error) {
	d, err := scanFlightBookingDetail(r.db.QueryRowContext(ctx, flightBookingJoin+" WHERE b.id = ?", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByUser returns the user's seat purchases, newest first.
func (r *FlightBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]FlightBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, flightBookingJoin+" WHERE b.user_id = ? ORDER BY b.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FlightBookingDetail, 0)
	for rows.Next() {
		d, err := scanFlightBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
