package fallback

import (
	"fmt"
	"time"
)

// Canned payloads served in degraded mode.  Shapes mirror the real
// responses so clients keep rendering; values are fixed demo fixtures.

// DemoHotels returns the hotel catalog fixture.
func DemoHotels() []map[string]any {
	return []map[string]any{
		{
			"id":          uint64(1),
			"name":        "Grand Hotel Tashkent",
			"address":     "Amir Temur Avenue, Tashkent, Uzbekistan",
			"city":        "Tashkent",
			"country":     "Uzbekistan",
			"rating":      4.5,
			"description": "Luxury hotel in the heart of Tashkent",
			"amenities":   []string{"Wi-Fi", "Pool", "Spa", "Restaurant"},
			"rooms": []map[string]any{
				{
					"id":                 uint64(1),
					"roomType":           "Standard",
					"pricePerNightCents": int64(12000),
					"capacity":           2,
					"amenities":          []string{"Wi-Fi", "TV", "AC"},
					"isActive":           true,
				},
			},
		},
	}
}

// DemoHotel returns the single-hotel fixture with empty room and
// booking lists.
func DemoHotel() map[string]any {
	h := DemoHotels()[0]
	h["rooms"] = []any{}
	h["bookings"] = []any{}
	return h
}

// DemoCars returns the car catalog fixture.
func DemoCars() []map[string]any {
	return []map[string]any{
		{
			"id":               uint64(1),
			"brand":            "Toyota",
			"model":            "Camry",
			"year":             2023,
			"category":         "Economy",
			"pricePerDayCents": int64(4500),
			"features":         []string{"AC", "GPS", "Bluetooth"},
			"location":         "Tashkent",
			"isActive":         true,
		},
		{
			"id":               uint64(2),
			"brand":            "BMW",
			"model":            "X5",
			"year":             2023,
			"category":         "Luxury",
			"pricePerDayCents": int64(12000),
			"features":         []string{"AC", "GPS", "Leather Seats", "Sunroof"},
			"location":         "Tashkent",
			"isActive":         true,
		},
	}
}

// DemoCar returns the single-car fixture.
func DemoCar() map[string]any {
	c := DemoCars()[0]
	c["bookings"] = []any{}
	return c
}

// DemoHotelBooking fabricates a confirmed demo booking echoing the
// request fields back to the caller.
func DemoHotelBooking(userID, hotelID, roomID uint64, checkIn, checkOut string, guests int) map[string]any {
	return map[string]any{
		"id":               fmt.Sprintf("demo-booking-%d", time.Now().UnixMilli()),
		"userId":           userID,
		"hotelId":          hotelID,
		"roomId":           roomID,
		"checkInDate":      checkIn,
		"checkOutDate":     checkOut,
		"guests":           guests,
		"totalAmountCents": int64(24000),
		"status":           "CONFIRMED",
		"hotel":            map[string]any{"name": "Grand Hotel Tashkent", "address": "Amir Temur Avenue"},
		"room":             map[string]any{"roomType": "Standard"},
	}
}

// DemoCarBooking fabricates a confirmed demo car booking.
func DemoCarBooking(userID, carID uint64, pickup, ret, pickupLoc, returnLoc string) map[string]any {
	return map[string]any{
		"id":               fmt.Sprintf("demo-car-booking-%d", time.Now().UnixMilli()),
		"userId":           userID,
		"carId":            carID,
		"pickupDate":       pickup,
		"returnDate":       ret,
		"pickupLocation":   pickupLoc,
		"returnLocation":   returnLoc,
		"totalAmountCents": int64(13500),
		"status":           "CONFIRMED",
		"car":              map[string]any{"brand": "Toyota", "model": "Camry", "category": "Economy"},
	}
}

// DemoDashboard returns the zeroed dashboard placeholder.
func DemoDashboard() map[string]any {
	return map[string]any{
		"overview": map[string]any{
			"totalUsers":    0,
			"totalBookings": 0,
			"totalRevenue":  "0.00",
			"activeFlights": 0,
		},
		"recentBookings": []any{},
		"charts": map[string]any{
			"userDistribution": []any{},
			"bookingStatus":    []any{},
		},
	}
}

// DemoSettings returns the placeholder settings tree grouped by
// category.
func DemoSettings() map[string]any {
	return map[string]any{
		"system": map[string]any{
			"maintenance_mode": map[string]any{
				"value":       "false",
				"description": "Enable maintenance mode",
				"isActive":    true,
			},
			"max_bookings_per_user": map[string]any{
				"value":       "10",
				"description": "Maximum bookings per user",
				"isActive":    true,
			},
		},
	}
}
