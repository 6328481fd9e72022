package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// CarRepo provides read queries for the rental car catalog and the
// locked car lookup used by the reservation engine.
type CarRepo struct{ db *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

// DB exposes the underlying pool for handler-scoped transactions.
func (r *CarRepo) DB() *sql.DB { return r.db }

// RentalWindow is the minimal booking summary embedded in car detail
// responses.
type RentalWindow struct {
	ID         uint64    `json:"id"`
	PickupDate time.Time `json:"pickupDate"`
	ReturnDate time.Time `json:"returnDate"`
	Status     string    `json:"status"`
}

// CarDetail is a car shaped for the API, with booking windows for
// single-car lookups.
type CarDetail struct {
	ID               uint64         `json:"id"`
	Brand            string         `json:"brand"`
	Model            string         `json:"model"`
	Year             int            `json:"year"`
	Category         string         `json:"category"`
	PricePerDayCents int64          `json:"pricePerDayCents"`
	Features         []string       `json:"features"`
	Location         string         `json:"location"`
	IsActive         bool           `json:"isActive"`
	Bookings         []RentalWindow `json:"bookings,omitempty"`
}

const carCols = "id, brand, model, year, category, price_per_day_cents, features, location, is_active"

func scanCar(scan func(dest ...interface{}) error) (*CarDetail, error) {
	var c CarDetail
	var features []byte
	if err := scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Category,
		&c.PricePerDayCents, &features, &c.Location, &c.IsActive); err != nil {
		return nil, err
	}
	c.Features = decodeStringList(features)
	return &c, nil
}

// List returns a page of active cars, newest first, optionally
// filtered by category and location.
func (r *CarRepo) List(ctx context.Context, category, location string, page, limit int) ([]CarDetail, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q := "SELECT " + carCols + " FROM cars WHERE is_active = TRUE"
	args := []interface{}{}
	if c := strings.TrimSpace(category); c != "" {
		q += " AND category = ?"
		args = append(args, c)
	}
	if l := strings.TrimSpace(location); l != "" {
		q += " AND location = ?"
		args = append(args, l)
	}
	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CarDetail, 0, limit)
	for rows.Next() {
		c, err := scanCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetByID returns one car with its booking windows, or ErrCarNotFound.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*CarDetail, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx,
		"SELECT "+carCols+" FROM cars WHERE id = ?", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, pickup_date, return_date, status FROM car_bookings
		 WHERE car_id = ? ORDER BY pickup_date`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	c.Bookings = make([]RentalWindow, 0)
	for rows.Next() {
		var w RentalWindow
		if err := rows.Scan(&w.ID, &w.PickupDate, &w.ReturnDate, &w.Status); err != nil {
			return nil, err
		}
		c.Bookings = append(c.Bookings, w)
	}
	return c, rows.Err()
}

// GetForUpdateTx locks a car row for booking.  ErrCarNotFound when the
// car does not exist; the active check is left to the caller.
func (r *CarRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, carID uint64) (*model.Car, error) {
	const q = `SELECT id, brand, model, year, category, price_per_day_cents, location, is_active
		FROM cars WHERE id = ? FOR UPDATE`
	var c model.Car
	err := tx.QueryRowContext(ctx, q, carID).Scan(
		&c.ID, &c.Brand, &c.Model, &c.Year, &c.Category,
		&c.PricePerDayCents, &c.Location, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &c, nil
}
