package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avialine/travel-booking/internal/booking"
	"github.com/avialine/travel-booking/internal/fallback"
	"github.com/avialine/travel-booking/internal/metrics"
	"github.com/avialine/travel-booking/internal/model"
	"github.com/avialine/travel-booking/internal/queue"
	"github.com/avialine/travel-booking/internal/repository"
)

const maxPassengers = 9

// FlightHandler serves flight search, catalog lookups and the seat
// purchase flow.
type FlightHandler struct {
	Flights  *repository.FlightRepo
	Bookings *repository.FlightBookingRepo
	Catalog  *repository.CatalogRepo
	Guard    *fallback.Guard
}

func NewFlightHandler(f *repository.FlightRepo, b *repository.FlightBookingRepo, cat *repository.CatalogRepo, g *fallback.Guard) *FlightHandler {
	if f == nil || b == nil || cat == nil {
		panic("handler: nil repository")
	}
	return &FlightHandler{Flights: f, Bookings: b, Catalog: cat, Guard: g}
}

// Search handles GET /v1/flights/search.  departureAirport,
// arrivalAirport and departureDate are required; passengers defaults
// to 1 and must stay within 1..9.  A returnDate adds a second search
// over the reversed route.
func (h *FlightHandler) Search(c echo.Context) error {
	from := strings.ToUpper(strings.TrimSpace(c.QueryParam("departureAirport")))
	to := strings.ToUpper(strings.TrimSpace(c.QueryParam("arrivalAirport")))
	dateStr := strings.TrimSpace(c.QueryParam("departureDate"))
	if from == "" || to == "" || dateStr == "" {
		return fail(c, http.StatusBadRequest, "departureAirport, arrivalAirport and departureDate are required")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fail(c, http.StatusBadRequest, "departureDate must be YYYY-MM-DD")
	}

	var returnDate time.Time
	roundTrip := false
	if r := strings.TrimSpace(c.QueryParam("returnDate")); r != "" {
		returnDate, err = time.Parse("2006-01-02", r)
		if err != nil {
			return fail(c, http.StatusBadRequest, "returnDate must be YYYY-MM-DD")
		}
		if returnDate.Before(date) {
			return fail(c, http.StatusBadRequest, "returnDate must not be before departureDate")
		}
		roundTrip = true
	}

	passengers := 1
	if p := c.QueryParam("passengers"); p != "" {
		passengers, err = strconv.Atoi(p)
		if err != nil {
			return fail(c, http.StatusBadRequest, "passengers must be a number")
		}
	}
	if passengers < 1 || passengers > maxPassengers {
		return fail(c, http.StatusBadRequest, "passengers must be between 1 and 9")
	}

	seatClass := ""
	if s := c.QueryParam("seatClass"); s != "" {
		seatClass, err = model.ParseSeatClass(s)
		if err != nil {
			return fail(c, http.StatusBadRequest, "seatClass must be ECONOMY, BUSINESS or FIRST_CLASS")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	outbound, err := h.Flights.Search(ctx, repository.FlightSearchParams{
		DepartureCode: from,
		ArrivalCode:   to,
		Date:          date,
		Passengers:    passengers,
		SeatClass:     seatClass,
	})
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "flight search failed")
	}
	h.Guard.Clear()

	if !roundTrip {
		return ok(c, http.StatusOK, outbound)
	}

	inbound, err := h.Flights.Search(ctx, repository.FlightSearchParams{
		DepartureCode: to,
		ArrivalCode:   from,
		Date:          returnDate,
		Passengers:    passengers,
		SeatClass:     seatClass,
	})
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "flight search failed")
	}
	return ok(c, http.StatusOK, echo.Map{
		"outboundFlights": outbound,
		"returnFlights":   inbound,
	})
}

// Get handles GET /v1/flights/:id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid flight id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return fail(c, http.StatusNotFound, "flight not found")
		}
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load flight")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, f)
}

type flightBookReq struct {
	FlightID   uint64 `json:"flightId"`
	SeatClass  string `json:"seatClass"`
	Passengers int    `json:"passengers"`
}

// Book handles POST /v1/flights/book.  The seat-counter check,
// decrement and booking insert commit in one transaction so two
// concurrent purchases can never oversell a class.
func (h *FlightHandler) Book(c echo.Context) error {
	var req flightBookReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.FlightID == 0 {
		return fail(c, http.StatusBadRequest, "flightId is required")
	}
	if req.Passengers < 1 || req.Passengers > maxPassengers {
		return fail(c, http.StatusBadRequest, "passengers must be between 1 and 9")
	}
	seatClass, err := model.ParseSeatClass(req.SeatClass)
	if err != nil {
		return fail(c, http.StatusBadRequest, "seatClass must be ECONOMY, BUSINESS or FIRST_CLASS")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Flights.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not start booking")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	f, err := h.Flights.GetForUpdateTx(ctx, tx, req.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return fail(c, http.StatusNotFound, "flight not found")
		}
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load flight")
	}
	if f.Status != "SCHEDULED" {
		return fail(c, http.StatusBadRequest, "flight is not open for booking")
	}

	price, err := f.PriceCents(seatClass)
	if err != nil {
		return fail(c, http.StatusBadRequest, "seatClass must be ECONOMY, BUSINESS or FIRST_CLASS")
	}

	inv := f.AvailableSeats
	if err := inv.Reserve(seatClass, req.Passengers); err != nil {
		metrics.IncConflict("flight")
		return fail(c, http.StatusBadRequest, "not enough seats available in this class")
	}
	if err := h.Flights.UpdateSeatsTx(ctx, tx, f.ID, inv); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not reserve seats")
	}

	b := &model.FlightBooking{
		BookingReference: booking.NewReference(booking.PrefixFlight, time.Now()),
		UserID:           userID(c),
		FlightID:         f.ID,
		SeatClass:        seatClass,
		Passengers:       req.Passengers,
		TotalAmountCents: price * int64(req.Passengers),
		Status:           model.BookingConfirmed,
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not create booking")
	}

	if err := tx.Commit(); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not confirm booking")
	}
	committed = true
	h.Guard.Clear()
	metrics.IncBooking("flight")

	go func(ev queue.BookingConfirmedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue.PublishBookingConfirmed(pubCtx, ev)
	}(queue.BookingConfirmedEvent{
		Kind:             "flight",
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           b.UserID,
		ItemID:           f.ID,
		ItemName:         f.FlightNumber,
		StartDate:        f.DepartureTime.Format(time.RFC3339),
		EndDate:          f.ArrivalTime.Format(time.RFC3339),
		TotalAmountCents: b.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	detail, err := h.Bookings.GetDetail(ctx, b.ID)
	if err != nil {
		// The booking is committed; answer with the bare record.
		return ok(c, http.StatusCreated, b)
	}
	return ok(c, http.StatusCreated, detail)
}

// MyBookings handles GET /v1/flights/bookings/my.
func (h *FlightHandler) MyBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListByUser(ctx, userID(c))
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load bookings")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, list)
}

// Cancel handles DELETE /v1/flights/bookings/:id.  The status
// transition and the seat restore commit together.
func (h *FlightHandler) Cancel(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Flights.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not start cancellation")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, http.StatusNotFound, "booking not found")
		}
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load booking")
	}
	if b.UserID != userID(c) {
		return fail(c, http.StatusForbidden, "not your booking")
	}
	if b.Status == model.BookingCancelled {
		return fail(c, http.StatusBadRequest, "booking is already cancelled")
	}

	f, err := h.Flights.GetForUpdateTx(ctx, tx, b.FlightID)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load flight")
	}
	inv := f.AvailableSeats
	if err := inv.Release(b.SeatClass, b.Passengers); err != nil {
		return fail(c, http.StatusInternalServerError, "could not restore seats")
	}
	if err := h.Flights.UpdateSeatsTx(ctx, tx, f.ID, inv); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not restore seats")
	}
	if err := h.Bookings.CancelTx(ctx, tx, b.ID); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not cancel booking")
	}
	if err := tx.Commit(); err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not cancel booking")
	}
	committed = true
	h.Guard.Clear()

	return ok(c, http.StatusOK, echo.Map{"id": b.ID, "status": model.BookingCancelled})
}

// Airlines handles GET /v1/airlines.
func (h *FlightHandler) Airlines(c echo.Context) error {
	page, limit := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Catalog.ListAirlines(ctx, page, limit)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load airlines")
	}
	h.Guard.Clear()
	out := make([]echo.Map, 0, len(list))
	for _, a := range list {
		out = append(out, echo.Map{"id": a.ID, "name": a.Name, "code": a.Code, "country": a.Country, "logo": a.Logo})
	}
	return ok(c, http.StatusOK, out)
}

// Airports handles GET /v1/airports.
func (h *FlightHandler) Airports(c echo.Context) error {
	page, limit := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Catalog.ListAirports(ctx, page, limit)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load airports")
	}
	h.Guard.Clear()
	out := make([]echo.Map, 0, len(list))
	for _, a := range list {
		out = append(out, echo.Map{"id": a.ID, "code": a.Code, "name": a.Name, "city": a.City, "country": a.Country, "timezone": a.Timezone})
	}
	return ok(c, http.StatusOK, out)
}
