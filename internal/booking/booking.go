// Package booking holds the pure arithmetic of the reservation
// engine: stay length, totals, the date-overlap predicate and booking
// reference generation.  Handlers and repositories call into it so the
// rules live in one place and stay testable without a database.
package booking

import (
	"fmt"
	"time"
)

// Reference prefixes per reservation kind.
const (
	PrefixHotel  = "HTL"
	PrefixCar    = "CAR"
	PrefixFlight = "FLT"
)

// NewReference builds a human-readable booking reference from a kind
// prefix and the current unix-millisecond timestamp, e.g.
// "HTL-1705312800000".
func NewReference(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}

// Nights returns the billable length of a stay or rental in whole
// days: the ceiling of (end-start)/24h.  A 2024-01-15 check-in with a
// 2024-01-17 check-out is 2 nights.  Returns 0 when end is not after
// start; callers must reject that as a validation error before
// pricing.
func Nights(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// TotalCents prices a stay: unit price in cents multiplied by the
// ceiling day count between start and end.
func TotalCents(unitPriceCents int64, start, end time.Time) int64 {
	return unitPriceCents * int64(Nights(start, end))
}

// Overlaps reports whether two date ranges intersect under the
// double-booking predicate: existing.start <= new.end AND
// existing.end >= new.start.  Ranges that merely touch at a shared
// boundary day count as overlapping, matching the persistence-side
// conflict query.
func Overlaps(existingStart, existingEnd, newStart, newEnd time.Time) bool {
	return !existingStart.After(newEnd) && !existingEnd.Before(newStart)
}
