package handler

// Validation tests exercise the request checks that must reject bad
// input before any persistence work happens.  Handlers are built on
// empty repositories; reaching the database would panic, so a 400
// response also proves the short-circuit.

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avialine/travel-booking/internal/repository"
)

func newFlightHandler() *FlightHandler {
	return NewFlightHandler(
		repository.NewFlightRepo(nil),
		repository.NewFlightBookingRepo(nil),
		repository.NewCatalogRepo(nil),
		nil,
	)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestFlightSearchValidation(t *testing.T) {
	h := newFlightHandler()

	cases := []struct {
		name  string
		query string
	}{
		{"missing route", "?departureDate=2024-06-01"},
		{"missing date", "?departureAirport=TAS&arrivalAirport=IST"},
		{"bad date", "?departureAirport=TAS&arrivalAirport=IST&departureDate=June+1st"},
		{"bad return date", "?departureAirport=TAS&arrivalAirport=IST&departureDate=2024-06-01&returnDate=later"},
		{"return before departure", "?departureAirport=TAS&arrivalAirport=IST&departureDate=2024-06-10&returnDate=2024-06-01"},
		{"zero passengers", "?departureAirport=TAS&arrivalAirport=IST&departureDate=2024-06-01&passengers=0"},
		{"too many passengers", "?departureAirport=TAS&arrivalAirport=IST&departureDate=2024-06-01&passengers=10"},
		{"passengers not a number", "?departureAirport=TAS&arrivalAirport=IST&departureDate=2024-06-01&passengers=two"},
		{"unknown class", "?departureAirport=TAS&arrivalAirport=IST&departureDate=2024-06-01&seatClass=PREMIUM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.Search, http.MethodGet, "/v1/flights/search"+tc.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestFlightBookValidation(t *testing.T) {
	h := newFlightHandler()

	cases := []struct {
		name string
		body string
	}{
		{"missing flightId", `{"seatClass":"ECONOMY","passengers":1}`},
		{"zero passengers", `{"flightId":1,"seatClass":"ECONOMY","passengers":0}`},
		{"too many passengers", `{"flightId":1,"seatClass":"ECONOMY","passengers":10}`},
		{"unknown class", `{"flightId":1,"seatClass":"PREMIUM","passengers":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.Book, http.MethodPost, "/v1/flights/book", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHotelBookValidation(t *testing.T) {
	h := NewHotelHandler(repository.NewHotelRepo(nil), repository.NewHotelBookingRepo(nil), nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing ids", `{"checkInDate":"2024-06-01","checkOutDate":"2024-06-03","guests":2}`},
		{"bad check-in", `{"hotelId":1,"roomId":1,"checkInDate":"June","checkOutDate":"2024-06-03","guests":2}`},
		{"check-out before check-in", `{"hotelId":1,"roomId":1,"checkInDate":"2024-06-03","checkOutDate":"2024-06-01","guests":2}`},
		{"same-day stay", `{"hotelId":1,"roomId":1,"checkInDate":"2024-06-01","checkOutDate":"2024-06-01","guests":2}`},
		{"zero guests", `{"hotelId":1,"roomId":1,"checkInDate":"2024-06-01","checkOutDate":"2024-06-03","guests":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.Book, http.MethodPost, "/v1/hotels/book", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCarBookValidation(t *testing.T) {
	h := NewCarHandler(repository.NewCarRepo(nil), repository.NewCarBookingRepo(nil), nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing carId", `{"pickupDate":"2024-06-01","returnDate":"2024-06-03","driverLicense":"AB1234"}`},
		{"bad pickup date", `{"carId":1,"pickupDate":"soon","returnDate":"2024-06-03","driverLicense":"AB1234"}`},
		{"return before pickup", `{"carId":1,"pickupDate":"2024-06-03","returnDate":"2024-06-01","driverLicense":"AB1234"}`},
		{"missing license", `{"carId":1,"pickupDate":"2024-06-01","returnDate":"2024-06-03"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.Book, http.MethodPost, "/v1/cars/book", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateRoleValidation(t *testing.T) {
	h := NewAdminHandler(repository.NewAdminRepo(nil), repository.NewUserRepo(nil), repository.NewSettingRepo(nil), nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"role":"OWNER"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PASSENGER, ADMIN or SUPER_ADMIN")
}

func TestPathIDRejectsGarbage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	_, okID := pathID(c, "id")
	assert.False(t, okID)
}

func TestHealthWithoutDatabase(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Health(nil)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":false`)
}
