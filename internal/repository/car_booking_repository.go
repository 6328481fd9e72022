package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// CarBookingRepo persists car rentals.  Mirrors HotelBookingRepo: the
// conflict check and insert run inside the caller's transaction.
type CarBookingRepo struct{ db *sql.DB }

func NewCarBookingRepo(db *sql.DB) *CarBookingRepo { return &CarBookingRepo{db: db} }

// HasOverlapTx reports whether any non-cancelled rental of the car
// intersects the requested range.
func (r *CarBookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, carID uint64, pickup, ret time.Time) (bool, error) {
	const q = `SELECT EXISTS(
		SELECT 1 FROM car_bookings
		WHERE car_id = ? AND status <> 'CANCELLED'
		  AND pickup_date <= ? AND return_date >= ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, carID, ret, pickup).Scan(&exists)
	return exists, err
}

// CreateTx inserts a car booking within the caller's transaction and
// populates the generated ID and creation timestamp.
func (r *CarBookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.CarBooking) error {
	const q = `INSERT INTO car_bookings
		(booking_reference, user_id, car_id, pickup_date, return_date,
		 pickup_location, return_location, total_amount_cents, driver_license, status)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		b.BookingReference, b.UserID, b.CarID, b.PickupDate, b.ReturnDate,
		b.PickupLocation, b.ReturnLocation, b.TotalAmountCents, b.DriverLicense, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at FROM car_bookings WHERE id = ?", b.ID).Scan(&b.CreatedAt)
}

// CarBookingDetail is a rental joined with car display fields.
type CarBookingDetail struct {
	ID               uint64    `json:"id"`
	BookingReference string    `json:"bookingReference"`
	CarID            uint64    `json:"carId"`
	PickupDate       time.Time `json:"pickupDate"`
	ReturnDate       time.Time `json:"returnDate"`
	PickupLocation   string    `json:"pickupLocation"`
	ReturnLocation   string    `json:"returnLocation"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	Car              struct {
		Brand    string `json:"brand"`
		Model    string `json:"model"`
		Year     int    `json:"year"`
		Category string `json:"category"`
	} `json:"car"`
}

const carBookingJoin = `SELECT b.id, b.booking_reference, b.car_id,
		b.pickup_date, b.return_date, b.pickup_location, b.return_location,
		b.total_amount_cents, b.status, b.created_at,
		c.brand, c.model, c.year, c.category
	FROM car_bookings b
	JOIN cars c ON c.id = b.car_id`

func scanCarBookingDetail(scan func(dest ...interface{}) error) (*CarBookingDetail, error) {
	var d CarBookingDetail
	err := scan(&d.ID, &d.BookingReference, &d.CarID,
		&d.PickupDate, &d.ReturnDate, &d.PickupLocation, &d.ReturnLocation,
		&d.TotalAmountCents, &d.Status, &d.CreatedAt,
		&d.Car.Brand, &d.Car.Model, &d.Car.Year, &d.Car.Category)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail returns one rental joined with display fields.
func (r *CarBookingRepo) GetDetail(ctx context.Context, id uint64) (*CarBookingDetail, error) {
	d, err := scanCarBookingDetail(r.db.QueryRowContext(ctx, carBookingJoin+" WHERE b.id = ?", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByUser returns the user's rentals, newest first.
func (r *CarBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]CarBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, carBookingJoin+" WHERE b.user_id = ? ORDER BY b.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CarBookingDetail, 0)
	for rows.Next() {
		d, err := scanCarBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Cancel transitions the user's rental to CANCELLED.
func (r *CarBookingRepo) Cancel(ctx context.Context, bookingID, userID uint64) error {
	var ownerID uint64
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, status FROM car_bookings WHERE id = ?", bookingID).
		Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	if status == model.BookingCancelled {
		return ErrAlreadyCancelled
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE car_bookings SET status='CANCELLED' WHERE id = ?", bookingID)
	return err
}
