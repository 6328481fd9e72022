package model

import "time"

// Booking statuses shared by all reservation kinds.  Cancellation is a
// status transition; booking rows are never deleted.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// HotelBooking records a user's reservation of a hotel room for a
// date range.  The overlap predicate against other non-cancelled
// bookings on the same room guards against double-booking.
type HotelBooking struct {
	ID               uint64    // hotel_bookings.id
	BookingReference string    // hotel_bookings.booking_reference (HTL-<unix-ms>)
	UserID           uint64    // hotel_bookings.user_id
	HotelID          uint64    // hotel_bookings.hotel_id
	RoomID           uint64    // hotel_bookings.room_id
	CheckInDate      time.Time // hotel_bookings.check_in_date (DATE)
	CheckOutDate     time.Time // hotel_bookings.check_out_date (DATE)
	Guests           int       // hotel_bookings.guests
	TotalAmountCents int64     // hotel_bookings.total_amount_cents
	SpecialRequests  *string   // hotel_bookings.special_requests (nullable)
	Status           string    // hotel_bookings.status
	CreatedAt        time.Time // hotel_bookings.created_at
	UpdatedAt        time.Time // hotel_bookings.updated_at
}

// CarBooking records a car rental over a pickup/return range.
type CarBooking struct {
	ID               uint64    // car_bookings.id
	BookingReference string    // car_bookings.booking_reference (CAR-<unix-ms>)
	UserID           uint64    // car_bookings.user_id
	CarID            uint64    // car_bookings.car_id
	PickupDate       time.Time // car_bookings.pickup_date
	ReturnDate       time.Time // car_bookings.return_date
	PickupLocation   string    // car_bookings.pickup_location
	ReturnLocation   string    // car_bookings.return_location
	TotalAmountCents int64     // car_bookings.total_amount_cents
	DriverLicense    string    // car_bookings.driver_license
	Status           string    // car_bookings.status
	CreatedAt        time.Time // car_bookings.created_at
}

// FlightBooking records a seat-class purchase on a flight.  The total
// is the class price multiplied by the passenger count; the flight's
// seat counter for the class is decremented in the same transaction.
type FlightBooking struct {
	ID               uint64    // flight_bookings.id
	BookingReference string    // flight_bookings.booking_reference (FLT-<unix-ms>)
	UserID           uint64    // flight_bookings.user_id
	FlightID         uint64    // flight_bookings.flight_id
	SeatClass        string    // flight_bookings.seat_class
	Passengers       int       // flight_bookings.passengers
	TotalAmountCents int64     // flight_bookings.total_amount_cents
	Status           string    // flight_bookings.status
	CreatedAt        time.Time // flight_bookings.created_at
}
