package model

import "time"

// Hotel is a row in the `hotels` table.  Amenities are stored as a
// JSON string array.
type Hotel struct {
	ID          uint64    // hotels.id
	Name        string    // hotels.name
	Address     string    // hotels.address
	City        string    // hotels.city
	Country     string    // hotels.country
	Rating      float64   // hotels.rating
	Description *string   // hotels.description (nullable)
	Amenities   []string  // hotels.amenities (JSON)
	CreatedAt   time.Time // hotels.created_at
	UpdatedAt   time.Time // hotels.updated_at
}

// HotelRoom is a bookable room type within a hotel.  Price is per
// night in cents.  Inactive rooms do not accept new bookings.
type HotelRoom struct {
	ID                 uint64   // hotel_rooms.id
	HotelID            uint64   // hotel_rooms.hotel_id
	RoomType           string   // hotel_rooms.room_type
	PricePerNightCents int64    // hotel_rooms.price_per_night_cents
	Capacity           int      // hotel_rooms.capacity
	Amenities          []string // hotel_rooms.amenities (JSON)
	IsActive           bool     // hotel_rooms.is_active
}
