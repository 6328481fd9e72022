package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"two nights", date(2024, 1, 15), date(2024, 1, 17), 2},
		{"one night", date(2024, 1, 15), date(2024, 1, 16), 1},
		{"partial day rounds up", date(2024, 1, 15), date(2024, 1, 16).Add(6 * time.Hour), 2},
		{"same day", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"end before start", date(2024, 1, 17), date(2024, 1, 15), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Nights(tc.start, tc.end))
		})
	}
}

func TestTotalCents(t *testing.T) {
	// 45.00 per day for two days
	assert.Equal(t, int64(9000), TotalCents(4500, date(2024, 1, 15), date(2024, 1, 17)))
	// zero-length stay prices to zero; handlers reject it before here
	assert.Equal(t, int64(0), TotalCents(4500, date(2024, 1, 15), date(2024, 1, 15)))
}

func TestOverlaps(t *testing.T) {
	existingStart := date(2024, 3, 10)
	existingEnd := date(2024, 3, 15)

	cases := []struct {
		name     string
		newStart time.Time
		newEnd   time.Time
		want     bool
	}{
		{"inside", date(2024, 3, 11), date(2024, 3, 12), true},
		{"covers", date(2024, 3, 1), date(2024, 3, 20), true},
		{"starts during", date(2024, 3, 14), date(2024, 3, 20), true},
		{"ends during", date(2024, 3, 1), date(2024, 3, 10), true},
		{"touches end boundary", date(2024, 3, 15), date(2024, 3, 18), true},
		{"before", date(2024, 3, 1), date(2024, 3, 9), false},
		{"after", date(2024, 3, 16), date(2024, 3, 20), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(existingStart, existingEnd, tc.newStart, tc.newEnd))
		})
	}
}

func TestNewReference(t *testing.T) {
	now := time.UnixMilli(1705312800000)

	ref := NewReference(PrefixHotel, now)
	require.Equal(t, "HTL-1705312800000", ref)

	assert.True(t, strings.HasPrefix(NewReference(PrefixCar, now), "CAR-"))
	assert.True(t, strings.HasPrefix(NewReference(PrefixFlight, now), "FLT-"))
}
