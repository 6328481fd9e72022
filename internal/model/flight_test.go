package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatClass(t *testing.T) {
	for in, want := range map[string]string{
		"economy":     SeatClassEconomy,
		"ECONOMY":     SeatClassEconomy,
		" business ":  SeatClassBusiness,
		"first_class": SeatClassFirstClass,
		"first":       SeatClassFirstClass,
	} {
		got, err := ParseSeatClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSeatClass("premium")
	assert.ErrorIs(t, err, ErrUnknownSeatClass)
}

func TestSeatInventoryReserve(t *testing.T) {
	inv := SeatInventory{Economy: 144, Business: 16, FirstClass: 0}

	require.NoError(t, inv.Reserve(SeatClassEconomy, 3))
	assert.Equal(t, 141, inv.Economy)
	assert.Equal(t, 16, inv.Business, "only the chosen class is decremented")

	err := inv.Reserve(SeatClassFirstClass, 1)
	assert.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.Equal(t, SeatInventory{Economy: 141, Business: 16, FirstClass: 0}, inv,
		"failed reserve must not mutate the inventory")

	err = inv.Reserve(SeatClassBusiness, 17)
	assert.ErrorIs(t, err, ErrNotEnoughSeats)

	err = inv.Reserve("PREMIUM", 1)
	assert.ErrorIs(t, err, ErrUnknownSeatClass)
}

func TestSeatInventoryRelease(t *testing.T) {
	inv := SeatInventory{Economy: 10}
	require.NoError(t, inv.Release(SeatClassEconomy, 4))
	assert.Equal(t, 14, inv.Economy)

	require.NoError(t, inv.Release(SeatClassBusiness, 0), "zero release is a no-op")
	assert.ErrorIs(t, inv.Release("PREMIUM", 2), ErrUnknownSeatClass)
}

func TestSeatInventoryCanSeat(t *testing.T) {
	inv := SeatInventory{Economy: 2, Business: 5, FirstClass: 0}

	assert.True(t, inv.CanSeat(4, ""), "any class with room qualifies")
	assert.False(t, inv.CanSeat(6, ""))
	assert.True(t, inv.CanSeat(2, SeatClassEconomy))
	assert.False(t, inv.CanSeat(3, SeatClassEconomy))
	assert.False(t, inv.CanSeat(1, SeatClassFirstClass))
}

func TestFlightPriceCents(t *testing.T) {
	f := Flight{EconomyPriceCents: 15000, BusinessPriceCents: 45000, FirstClassPriceCents: 90000}

	for class, want := range map[string]int64{
		SeatClassEconomy:    15000,
		SeatClassBusiness:   45000,
		SeatClassFirstClass: 90000,
	} {
		got, err := f.PriceCents(class)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := f.PriceCents("PREMIUM")
	assert.ErrorIs(t, err, ErrUnknownSeatClass)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePassenger))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.False(t, ValidRole("OWNER"))
	assert.False(t, ValidRole(""))
}
