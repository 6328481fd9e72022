package fallback

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestGuard(enabled bool) *Guard {
	logger := zerolog.Nop()
	return NewGuard(enabled, &logger)
}

func TestGuardDisabledNeverAdmitsFallback(t *testing.T) {
	g := newTestGuard(false)

	assert.False(t, g.Enabled())
	assert.False(t, g.Trip(errors.New("dial tcp: connection refused")),
		"disabled guard records the failure but refuses fallback")
	assert.True(t, g.Down(), "reachability tracking works even when fallback is off")
}

func TestGuardTripAndClear(t *testing.T) {
	g := newTestGuard(true)

	assert.False(t, g.Down())
	assert.True(t, g.Trip(errors.New("driver: bad connection")))
	assert.True(t, g.Down())

	g.Clear()
	assert.False(t, g.Down())
}

func TestGuardIgnoresDomainErrors(t *testing.T) {
	g := newTestGuard(true)

	assert.False(t, g.Trip(nil))
	assert.False(t, g.Trip(sql.ErrNoRows), "a row miss means the database answered")
	assert.False(t, g.Down())
}

func TestNilGuardIsSafe(t *testing.T) {
	var g *Guard
	assert.False(t, g.Enabled())
	assert.False(t, g.Down())
	assert.False(t, g.Trip(errors.New("boom")))
	g.Clear()
}

func TestDemoFixturesShape(t *testing.T) {
	hotels := DemoHotels()
	assert.Len(t, hotels, 1)
	assert.Equal(t, "Grand Hotel Tashkent", hotels[0]["name"])

	cars := DemoCars()
	assert.Len(t, cars, 2)
	assert.Equal(t, "Toyota", cars[0]["brand"])
	assert.Equal(t, "BMW", cars[1]["brand"])

	dash := DemoDashboard()
	overview := dash["overview"].(map[string]any)
	assert.Equal(t, 0, overview["totalUsers"])
	assert.Equal(t, "0.00", overview["totalRevenue"])

	b := DemoHotelBooking(7, 1, 1, "2024-05-01", "2024-05-03", 2)
	assert.Equal(t, uint64(7), b["userId"])
	assert.Equal(t, "CONFIRMED", b["status"])
}
