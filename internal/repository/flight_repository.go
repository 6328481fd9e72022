package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/avialine/travel-booking/internal/model"
)

// FlightRepo provides read queries for the flight catalog and the
// transactional seat-counter operations used by the reservation
// engine.
type FlightRepo struct{ db *sql.DB }

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions
// spanning the flight and booking tables.
func (r *FlightRepo) DB() *sql.DB { return r.db }

// FlightSearchParams narrows a flight search to one route and day.
// SeatClass is empty when the caller has no class preference.
type FlightSearchParams struct {
	DepartureCode string
	ArrivalCode   string
	Date          time.Time
	Passengers    int
	SeatClass     string
}

// Nested response shapes for flight listings.  Field names follow the
// public API contract (camelCase).
type AirlineInfo struct {
	Name string  `json:"name"`
	Code string  `json:"code"`
	Logo *string `json:"logo,omitempty"`
}

type AircraftInfo struct {
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
}

type AirportInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type EndpointInfo struct {
	Airport AirportInfo `json:"airport"`
	Time    time.Time   `json:"time"`
}

type PriceInfo struct {
	EconomyCents    int64 `json:"economyCents"`
	BusinessCents   int64 `json:"businessCents"`
	FirstClassCents int64 `json:"firstClassCents"`
}

// FlightDetail is a flight joined with its airline, aircraft and both
// airports, shaped for the API.
type FlightDetail struct {
	ID             uint64              `json:"id"`
	FlightNumber   string              `json:"flightNumber"`
	Airline        AirlineInfo         `json:"airline"`
	Aircraft       AircraftInfo        `json:"aircraft"`
	Departure      EndpointInfo        `json:"departure"`
	Arrival        EndpointInfo        `json:"arrival"`
	Duration       int                 `json:"duration"`
	Prices         PriceInfo           `json:"prices"`
	AvailableSeats model.SeatInventory `json:"availableSeats"`
	Status         string              `json:"status"`
}

const flightJoin = `FROM flights f
	JOIN airlines al ON al.id = f.airline_id
	JOIN aircraft ac ON ac.id = f.aircraft_id
	JOIN airports dep ON dep.id = f.departure_airport_id
	JOIN airports arr ON arr.id = f.arrival_airport_id`

const flightCols = `f.id, f.flight_number, f.departure_time, f.arrival_time, f.duration_minutes,
	f.economy_price_cents, f.business_price_cents, f.first_class_price_cents,
	f.available_seats, f.status,
	al.name, al.code, al.logo,
	ac.model, ac.manufacturer,
	dep.code, dep.name, dep.city, dep.country,
	arr.code, arr.name, arr.city, arr.country`

func scanFlightDetail(scan func(dest ...interface{}) error) (*FlightDetail, error) {
	var d FlightDetail
	var seatsJSON []byte
	var logo sql.NullString
	err := scan(
		&d.ID, &d.FlightNumber, &d.Departure.Time, &d.Arrival.Time, &d.Duration,
		&d.Prices.EconomyCents, &d.Prices.BusinessCents, &d.Prices.FirstClassCents,
		&seatsJSON, &d.Status,
		&d.Airline.Name, &d.Airline.Code, &logo,
		&d.Aircraft.Model, &d.Aircraft.Manufacturer,
		&d.Departure.Airport.Code, &d.Departure.Airport.Name, &d.Departure.Airport.City, &d.Departure.Airport.Country,
		&d.Arrival.Airport.Code, &d.Arrival.Airport.Name, &d.Arrival.Airport.City, &d.Arrival.Airport.Country,
	)
	if err != nil {
		return nil, err
	}
	if logo.Valid {
		l := logo.String
		d.Airline.Logo = &l
	}
	if len(seatsJSON) > 0 {
		if err := json.Unmarshal(seatsJSON, &d.AvailableSeats); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

// Search returns SCHEDULED flights on the requested route departing on
// the requested day, ordered by departure time ascending.  Flights
// where neither class (or the requested class) can seat the whole
// party are filtered out.
func (r *FlightRepo) Search(ctx context.Context, p FlightSearchParams) ([]FlightDetail, error) {
	dayStart := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	q := "SELECT " + flightCols + " " + flightJoin + `
	WHERE dep.code = ? AND arr.code = ?
	  AND f.departure_time >= ? AND f.departure_time < ?
	  AND f.status = 'SCHEDULED'
	ORDER BY f.departure_time ASC`

	rows, err := r.db.QueryContext(ctx, q, p.DepartureCode, p.ArrivalCode, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FlightDetail, 0)
	for rows.Next() {
		d, err := scanFlightDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		if !d.AvailableSeats.CanSeat(p.Passengers, p.SeatClass) {
			continue
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// GetByID returns one flight with joined display data, or
// ErrFlightNotFound.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*FlightDetail, error) {
	q := "SELECT " + flightCols + " " + flightJoin + " WHERE f.id = ?"
	d, err := scanFlightDetail(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return d, nil
}

// GetForUpdateTx locks the flight row for a seat-counter mutation and
// returns the pricing and inventory fields.  Must run inside the
// transaction that performs the matching UpdateSeatsTx.
func (r *FlightRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Flight, error) {
	const q = `SELECT id, flight_number,
		economy_price_cents, business_price_cents, first_class_price_cents,
		available_seats, status
	FROM flights WHERE id = ? FOR UPDATE`
	var f model.Flight
	var seatsJSON []byte
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.FlightNumber,
		&f.EconomyPriceCents, &f.BusinessPriceCents, &f.FirstClassPriceCents,
		&seatsJSON, &f.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	if len(seatsJSON) > 0 {
		if err := json.Unmarshal(seatsJSON, &f.AvailableSeats); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// UpdateSeatsTx writes the seat inventory back to the locked flight
// row.
func (r *FlightRepo) UpdateSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, inv model.SeatInventory) error {
	seatsJSON, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "UPDATE flights SET available_seats = ? WHERE id = ?", seatsJSON, id)
	return err
}

// CountScheduled returns the number of SCHEDULED flights, used by the
// admin dashboard.
func (r *FlightRepo) CountScheduled(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM flights WHERE status='SCHEDULED'").Scan(&n)
	return n, err
}
