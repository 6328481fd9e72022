package model

import (
	"errors"
	"strings"
	"time"
)

// Seat class names accepted by the flight booking endpoint.
const (
	SeatClassEconomy    = "ECONOMY"
	SeatClassBusiness   = "BUSINESS"
	SeatClassFirstClass = "FIRST_CLASS"
)

// ErrUnknownSeatClass is returned when a request names a seat class
// outside the ECONOMY/BUSINESS/FIRST_CLASS set.
var ErrUnknownSeatClass = errors.New("unknown seat class")

// ErrNotEnoughSeats is returned when a purchase asks for more seats
// than the class counter currently holds.
var ErrNotEnoughSeats = errors.New("not enough available seats")

// ParseSeatClass normalizes user input ("economy", "FIRST_CLASS", ...)
// into one of the seat class constants.
func ParseSeatClass(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case SeatClassEconomy, "ECO":
		return SeatClassEconomy, nil
	case SeatClassBusiness:
		return SeatClassBusiness, nil
	case SeatClassFirstClass, "FIRSTCLASS", "FIRST":
		return SeatClassFirstClass, nil
	}
	return "", ErrUnknownSeatClass
}

// SeatInventory mirrors the flights.available_seats JSON column.  The
// counters track remaining sellable seats per class and must never go
// negative.  JSON key names match the stored document.
type SeatInventory struct {
	Economy    int `json:"economy"`
	Business   int `json:"business"`
	FirstClass int `json:"firstClass"`
}

// Available returns the remaining seat count for the given class.
func (s SeatInventory) Available(class string) (int, error) {
	switch class {
	case SeatClassEconomy:
		return s.Economy, nil
	case SeatClassBusiness:
		return s.Business, nil
	case SeatClassFirstClass:
		return s.FirstClass, nil
	}
	return 0, ErrUnknownSeatClass
}

// Reserve decrements the counter for the given class by count.  When
// the class holds fewer seats than requested, ErrNotEnoughSeats is
// returned and no counter is modified.
func (s *SeatInventory) Reserve(class string, count int) error {
	avail, err := s.Available(class)
	if err != nil {
		return err
	}
	if count <= 0 || count > avail {
		return ErrNotEnoughSeats
	}
	switch class {
	case SeatClassEconomy:
		s.Economy -= count
	case SeatClassBusiness:
		s.Business -= count
	case SeatClassFirstClass:
		s.FirstClass -= count
	}
	return nil
}

// Release returns count seats of the given class to the inventory.
// Used when a flight booking is cancelled.
func (s *SeatInventory) Release(class string, count int) error {
	if count <= 0 {
		return nil
	}
	switch class {
	case SeatClassEconomy:
		s.Economy += count
	case SeatClassBusiness:
		s.Business += count
	case SeatClassFirstClass:
		s.FirstClass += count
	default:
		return ErrUnknownSeatClass
	}
	return nil
}

// CanSeat reports whether any class (or the specific class when one is
// requested) still holds at least passengers seats.  Flight search uses
// this to hide itineraries the party could not board.
func (s SeatInventory) CanSeat(passengers int, class string) bool {
	if class != "" {
		avail, err := s.Available(class)
		return err == nil && avail >= passengers
	}
	return s.Economy >= passengers || s.Business >= passengers || s.FirstClass >= passengers
}

// Airline is a row in the `airlines` table.
type Airline struct {
	ID      uint64  // airlines.id
	Name    string  // airlines.name
	Code    string  // airlines.code (IATA, unique)
	Country string  // airlines.country
	Logo    *string // airlines.logo (nullable URL)
}

// Airport is a row in the `airports` table.
type Airport struct {
	ID       uint64 // airports.id
	Code     string // airports.code (IATA, unique)
	Name     string // airports.name
	City     string // airports.city
	Country  string // airports.country
	Timezone string // airports.timezone
}

// Aircraft is a row in the `aircraft` table and describes the cabin
// layout used to seed flight seat inventories.
type Aircraft struct {
	ID              uint64 // aircraft.id
	Model           string // aircraft.model
	Manufacturer    string // aircraft.manufacturer
	TotalSeats      int    // aircraft.total_seats
	EconomySeats    int    // aircraft.economy_seats
	BusinessSeats   int    // aircraft.business_seats
	FirstClassSeats int    // aircraft.first_class_seats
}

// Flight represents a scheduled flight between two airports.  Prices
// are stored per seat class in cents; the remaining seats per class
// live in the available_seats JSON column.
//
// Fields:
//  ID                  – primary key identifier.
//  FlightNumber        – airline-assigned number (e.g. AA100).
//  AirlineID           – owning airline.
//  AircraftID          – aircraft operating the flight.
//  DepartureAirportID  – origin airport.
//  ArrivalAirportID    – destination airport.
//  DepartureTime       – scheduled departure (UTC).
//  ArrivalTime         – scheduled arrival (UTC).
//  DurationMinutes     – block time in minutes.
//  EconomyPriceCents   – per-seat price, economy.
//  BusinessPriceCents  – per-seat price, business.
//  FirstClassPriceCents – per-seat price, first class.
//  AvailableSeats      – remaining seats per class.
//  Status              – SCHEDULED, DELAYED, CANCELLED or COMPLETED.
type Flight struct {
	ID                   uint64        // flights.id
	FlightNumber         string        // flights.flight_number
	AirlineID            uint64        // flights.airline_id
	AircraftID           uint64        // flights.aircraft_id
	DepartureAirportID   uint64        // flights.departure_airport_id
	ArrivalAirportID     uint64        // flights.arrival_airport_id
	DepartureTime        time.Time     // flights.departure_time
	ArrivalTime          time.Time     // flights.arrival_time
	DurationMinutes      int           // flights.duration_minutes
	EconomyPriceCents    int64         // flights.economy_price_cents
	BusinessPriceCents   int64         // flights.business_price_cents
	FirstClassPriceCents int64         // flights.first_class_price_cents
	AvailableSeats       SeatInventory // flights.available_seats (JSON)
	Status               string        // flights.status
	CreatedAt            time.Time     // flights.created_at
	UpdatedAt            time.Time     // flights.updated_at
}

// PriceCents returns the per-seat price for the given class.
func (f Flight) PriceCents(class string) (int64, error) {
	switch class {
	case SeatClassEconomy:
		return f.EconomyPriceCents, nil
	case SeatClassBusiness:
		return f.BusinessPriceCents, nil
	case SeatClassFirstClass:
		return f.FirstClassPriceCents, nil
	}
	return 0, ErrUnknownSeatClass
}
