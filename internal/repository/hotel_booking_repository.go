package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// HotelBookingRepo persists hotel reservations.  The conflict query
// and the insert are exposed as *Tx methods so the handler can run
// check and write inside one transaction.
type HotelBookingRepo struct{ db *sql.DB }

func NewHotelBookingRepo(db *sql.DB) *HotelBookingRepo { return &HotelBookingRepo{db: db} }

// HasOverlapTx reports whether any non-cancelled booking on the room
// intersects the requested range.  Overlap predicate:
// existing.check_in <= new.check_out AND existing.check_out >= new.check_in.
func (r *HotelBookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	const q = `SELECT EXISTS(
		SELECT 1 FROM hotel_bookings
		WHERE room_id = ? AND status <> 'CANCELLED'
		  AND check_in_date <= ? AND check_out_date >= ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, roomID, checkOut, checkIn).Scan(&exists)
	return exists, err
}

// CreateTx inserts a hotel booking within the caller's transaction and
// populates the generated ID and creation timestamp.
func (r *HotelBookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.HotelBooking) error {
	const q = `INSERT INTO hotel_bookings
		(booking_reference, user_id, hotel_id, room_id, check_in_date, check_out_date,
		 guests, total_amount_cents, special_requests, status)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		b.BookingReference, b.UserID, b.HotelID, b.RoomID, b.CheckInDate, b.CheckOutDate,
		b.Guests, b.TotalAmountCents, b.SpecialRequests, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM hotel_bookings WHERE id = ?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// HotelBookingDetail is a booking joined with hotel and room display
// fields for the "my bookings" listing and booking responses.
type HotelBookingDetail struct {
	ID               uint64    `json:"id"`
	BookingReference string    `json:"bookingReference"`
	HotelID          uint64    `json:"hotelId"`
	RoomID           uint64    `json:"roomId"`
	CheckInDate      time.Time `json:"checkInDate"`
	CheckOutDate     time.Time `json:"checkOutDate"`
	Guests           int       `json:"guests"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	SpecialRequests  *string   `json:"specialRequests,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	Hotel            struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"hotel"`
	Room struct {
		RoomType string `json:"roomType"`
	} `json:"room"`
}

const hotelBookingJoin = `SELECT b.id, b.booking_reference, b.hotel_id, b.room_id,
		b.check_in_date, b.check_out_date, b.guests, b.total_amount_cents,
		b.special_requests, b.status, b.created_at,
		h.name, h.address, h.city, rm.room_type
	FROM hotel_bookings b
	JOIN hotels h ON h.id = b.hotel_id
	JOIN hotel_rooms rm ON rm.id = b.room_id`

func scanHotelBookingDetail(scan func(dest ...interface{}) error) (*HotelBookingDetail, error) {
	var d HotelBookingDetail
	var special sql.NullString
	err := scan(&d.ID, &d.BookingReference, &d.HotelID, &d.RoomID,
		&d.CheckInDate, &d.CheckOutDate, &d.Guests, &d.TotalAmountCents,
		&special, &d.Status, &d.CreatedAt,
		&d.Hotel.Name, &d.Hotel.Address, &d.Hotel.City, &d.Room.RoomType)
	if err != nil {
		return nil, err
	}
	if special.Valid {
		s := special.String
		d.SpecialRequests = &s
	}
	return &d, nil
}

// GetDetail returns one booking joined with display fields.
func (r *HotelBookingRepo) GetDetail(ctx context.Context, id uint64) (*HotelBookingDetail, error) {
	d, err := scanHotelBookingDetail(r.db.QueryRowContext(ctx, hotelBookingJoin+" WHERE b.id = ?", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *HotelBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]HotelBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, hotelBookingJoin+" WHERE b.user_id = ? ORDER BY b.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HotelBookingDetail, 0)
	for rows.Next() {
		d, err := scanHotelBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Cancel transitions the user's booking to CANCELLED.  Returns
// ErrBookingNotFound, ErrForbidden for another user's booking, or
// ErrAlreadyCancelled.
func (r *HotelBookingRepo) Cancel(ctx context.Context, bookingID, userID uint64) error {
	var ownerID uint64
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, status FROM hotel_bookings WHERE id = ?", bookingID).
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
		"UPDATE hotel_bookings SET status='CANCELLED' WHERE id = ?", bookingID)
	return err
}
