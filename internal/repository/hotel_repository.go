package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// HotelRepo provides read queries for the hotel catalog and the
// locked room lookup used by the reservation engine.
type HotelRepo struct{ db *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// DB exposes the underlying pool for handler-scoped transactions.
func (r *HotelRepo) DB() *sql.DB { return r.db }

// RoomInfo is a room shaped for catalog responses.
type RoomInfo struct {
	ID                 uint64   `json:"id"`
	RoomType           string   `json:"roomType"`
	PricePerNightCents int64    `json:"pricePerNightCents"`
	Capacity           int      `json:"capacity"`
	Amenities          []string `json:"amenities"`
	IsActive           bool     `json:"isActive"`
}

// BookingWindow is the minimal booking summary embedded in hotel and
// car detail responses so clients can render occupied dates.
type BookingWindow struct {
	ID        uint64    `json:"id"`
	StartDate time.Time `json:"checkInDate"`
	EndDate   time.Time `json:"checkOutDate"`
	Status    string    `json:"status"`
}

// HotelDetail is a hotel with its rooms (and, for single-hotel
// lookups, its booking windows).
type HotelDetail struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Country     string          `json:"country"`
	Rating      float64         `json:"rating"`
	Description *string         `json:"description,omitempty"`
	Amenities   []string        `json:"amenities"`
	Rooms       []RoomInfo      `json:"rooms"`
	Bookings    []BookingWindow `json:"bookings,omitempty"`
}

const hotelCols = "id, name, address, city, country, rating, description, amenities"

func scanHotel(scan func(dest ...interface{}) error) (*HotelDetail, error) {
	var h HotelDetail
	var desc sql.NullString
	var amenities []byte
	if err := scan(&h.ID, &h.Name, &h.Address, &h.City, &h.Country, &h.Rating, &desc, &amenities); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	h.Amenities = decodeStringList(amenities)
	h.Rooms = []RoomInfo{}
	return &h, nil
}

// List returns a page of hotels with their rooms embedded, optionally
// filtered by city.  page and limit are 1-indexed.
func (r *HotelRepo) List(ctx context.Context, city string, page, limit int) ([]HotelDetail, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q := "SELECT " + hotelCols + " FROM hotels"
	args := []interface{}{}
	if c := strings.TrimSpace(city); c != "" {
		q += " WHERE city = ?"
		args = append(args, c)
	}
	q += " ORDER BY rating DESC, name LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := make([]HotelDetail, 0, limit)
	index := make(map[uint64]int)
	ids := make([]uint64, 0, limit)
	for rows.Next() {
		h, err := scanHotel(rows.Scan)
		if err != nil {
			return nil, err
		}
		index[h.ID] = len(hotels)
		ids = append(ids, h.ID)
		hotels = append(hotels, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return hotels, nil
	}

	// Attach rooms for the whole page in one query.
	q = "SELECT hotel_id, id, room_type, price_per_night_cents, capacity, amenities, is_active FROM hotel_rooms WHERE hotel_id IN (?" +
		strings.Repeat(",?", len(ids)-1) + ") ORDER BY price_per_night_cents"
	roomArgs := make([]interface{}, len(ids))
	for i, id := range ids {
		roomArgs[i] = id
	}
	rrows, err := r.db.QueryContext(ctx, q, roomArgs...)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var hotelID uint64
		var room RoomInfo
		var amenities []byte
		if err := rrows.Scan(&hotelID, &room.ID, &room.RoomType, &room.PricePerNightCents,
			&room.Capacity, &amenities, &room.IsActive); err != nil {
			return nil, err
		}
		room.Amenities = decodeStringList(amenities)
		if i, ok := index[hotelID]; ok {
			hotels[i].Rooms = append(hotels[i].Rooms, room)
		}
	}
	return hotels, rrows.Err()
}

// GetByID returns one hotel with rooms and booking windows, or
// ErrHotelNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*HotelDetail, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx,
		"SELECT "+hotelCols+" FROM hotels WHERE id = ?", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	rooms, err := r.Rooms(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Rooms = rooms

	const bq = `SELECT b.id, b.check_in_date, b.check_out_date, b.status
		FROM hotel_bookings b WHERE b.hotel_id = ? ORDER BY b.check_in_date`
	rows, err := r.db.QueryContext(ctx, bq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	h.Bookings = make([]BookingWindow, 0)
	for rows.Next() {
		var w BookingWindow
		if err := rows.Scan(&w.ID, &w.StartDate, &w.EndDate, &w.Status); err != nil {
			return nil, err
		}
		h.Bookings = append(h.Bookings, w)
	}
	return h, rows.Err()
}

// Rooms returns all rooms of a hotel ordered by price.
func (r *HotelRepo) Rooms(ctx context.Context, hotelID uint64) ([]RoomInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room_type, price_per_night_cents, capacity, amenities, is_active
		 FROM hotel_rooms WHERE hotel_id = ? ORDER BY price_per_night_cents`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomInfo, 0)
	for rows.Next() {
		var room RoomInfo
		var amenities []byte
		if err := rows.Scan(&room.ID, &room.RoomType, &room.PricePerNightCents,
			&room.Capacity, &amenities, &room.IsActive); err != nil {
			return nil, err
		}
		room.Amenities = decodeStringList(amenities)
		out = append(out, room)
	}
	return out, rows.Err()
}

// GetRoomForUpdateTx locks a room row for booking and returns it.
// ErrRoomNotFound when the room does not exist.  The active check is
// left to the caller so inactive rooms map onto their own error.
func (r *HotelRepo) GetRoomForUpdateTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*model.HotelRoom, error) {
	const q = `SELECT id, hotel_id, room_type, price_per_night_cents, capacity, is_active
		FROM hotel_rooms WHERE id = ? FOR UPDATE`
	var room model.HotelRoom
	err := tx.QueryRowContext(ctx, q, roomID).Scan(
		&room.ID, &room.HotelID, &room.RoomType, &room.PricePerNightCents,
		&room.Capacity, &room.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}
