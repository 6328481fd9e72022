package model

import "time"

// Car is a row in the `cars` table.  Price is per rental day in
// cents.  Inactive cars are hidden from the catalog and refuse new
// bookings.
type Car struct {
	ID               uint64    // cars.id
	Brand            string    // cars.brand
	Model            string    // cars.model
	Year             int       // cars.year
	Category         string    // cars.category (Economy, Luxury, ...)
	PricePerDayCents int64     // cars.price_per_day_cents
	Features         []string  // cars.features (JSON)
	Location         string    // cars.location
	IsActive         bool      // cars.is_active
	CreatedAt        time.Time // cars.created_at
}
