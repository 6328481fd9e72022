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

// HotelHandler serves the hotel catalog and the room reservation flow.
// Catalog reads and bookings fall back to demo fixtures when the guard
// admits it.
type HotelHandler struct {
	Hotels   *repository.HotelRepo
	Bookings *repository.HotelBookingRepo
	Guard    *fallback.Guard
}

func NewHotelHandler(h *repository.HotelRepo, b *repository.HotelBookingRepo, g *fallback.Guard) *HotelHandler {
	if h == nil || b == nil {
		panic("handler: nil repository")
	}
	return &HotelHandler{Hotels: h, Bookings: b, Guard: g}
}

func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// List handles GET /v1/hotels with optional city filter and
// pagination.
func (h *HotelHandler) List(c echo.Context) error {
	if h.Guard.Enabled() && h.Guard.Down() {
		return okDemo(c, http.StatusOK, fallback.DemoHotels(), fallback.NoteDemoData)
	}
	page, limit := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Hotels.List(ctx, c.QueryParam("city"), page, limit)
	if err != nil {
		if h.Guard.Trip(err) {
			return okDemo(c, http.StatusOK, fallback.DemoHotels(), fallback.NoteDemoData)
		}
		return fail(c, http.StatusInternalServerError, "could not load hotels")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, hotels)
}

// Get handles GET /v1/hotels/:id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid hotel id")
	}
	if h.Guard.Enabled() && h.Guard.Down() {
		return okDemo(c, http.StatusOK, fallback.DemoHotel(), fallback.NoteDemoData)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return fail(c, http.StatusNotFound, "hotel not found")
		}
		if h.Guard.Trip(err) {
			return okDemo(c, http.StatusOK, fallback.DemoHotel(), fallback.NoteDemoData)
		}
		return fail(c, http.StatusInternalServerError, "could not load hotel")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, hotel)
}

// Rooms handles GET /v1/hotels/:id/rooms.
func (h *HotelHandler) Rooms(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid hotel id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Hotels.Rooms(ctx, id)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not load rooms")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, rooms)
}

type hotelBookReq struct {
	HotelID         uint64  `json:"hotelId"`
	RoomID          uint64  `json:"roomId"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	Guests          int     `json:"guests"`
	SpecialRequests *string `json:"specialRequests"`
}

// Book handles POST /v1/hotels/book.  The room lock, overlap check and
// insert commit in one transaction so two concurrent requests for the
// same dates cannot both succeed.
func (h *HotelHandler) Book(c echo.Context) error {
	var req hotelBookReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.HotelID == 0 || req.RoomID == 0 {
		return fail(c, http.StatusBadRequest, "hotelId and roomId are required")
	}
	checkIn, err := time.Parse("2006-01-02", strings.TrimSpace(req.CheckInDate))
	if err != nil {
		return fail(c, http.StatusBadRequest, "checkInDate must be YYYY-MM-DD")
	}
	checkOut, err := time.Parse("2006-01-02", strings.TrimSpace(req.CheckOutDate))
	if err != nil {
		return fail(c, http.StatusBadRequest, "checkOutDate must be YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return fail(c, http.StatusBadRequest, "checkOutDate must be after checkInDate")
	}
	if req.Guests < 1 {
		return fail(c, http.StatusBadRequest, "guests must be at least 1")
	}

	uid := userID(c)
	demoBooking := func() error {
		return okDemo(c, http.StatusCreated,
			fallback.DemoHotelBooking(uid, req.HotelID, req.RoomID, req.CheckInDate, req.CheckOutDate, req.Guests),
			fallback.NoteDemoBooking)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Hotels.DB().BeginTx(ctx, nil)
	if err != nil {
		if h.Guard.Trip(err) {
			return demoBooking()
		}
		return fail(c, http.StatusInternalServerError, "could not start booking")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := h.Hotels.GetRoomForUpdateTx(ctx, tx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return fail(c, http.StatusNotFound, "room not found")
		}
		if h.Guard.Trip(err) {
			return demoBooking()
		}
		return fail(c, http.StatusInternalServerError, "could not load room")
	}
	if room.HotelID != req.HotelID {
		return fail(c, http.StatusBadRequest, "room does not belong to this hotel")
	}
	if !room.IsActive {
		return fail(c, http.StatusBadRequest, "room is not available for booking")
	}
	if req.Guests > room.Capacity {
		return fail(c, http.StatusBadRequest, "guests exceed room capacity")
	}

	overlap, err := h.Bookings.HasOverlapTx(ctx, tx, room.ID, checkIn, checkOut)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not check availability")
	}
	if overlap {
		metrics.IncConflict("hotel")
		return fail(c, http.StatusBadRequest, "room is already booked for these dates")
	}

	b := &model.HotelBooking{
		BookingReference: booking.NewReference(booking.PrefixHotel, time.Now()),
		UserID:           uid,
		HotelID:          req.HotelID,
		RoomID:           room.ID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		Guests:           req.Guests,
		TotalAmountCents: booking.TotalCents(room.PricePerNightCents, checkIn, checkOut),
		SpecialRequests:  req.SpecialRequests,
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
	metrics.IncBooking("hotel")

	go func(ev queue.BookingConfirmedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue.PublishBookingConfirmed(pubCtx, ev)
	}(queue.BookingConfirmedEvent{
		Kind:             "hotel",
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           uid,
		ItemID:           room.ID,
		ItemName:         room.RoomType,
		StartDate:        req.CheckInDate,
		EndDate:          req.CheckOutDate,
		TotalAmountCents: b.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	detail, err := h.Bookings.GetDetail(ctx, b.ID)
	if err != nil {
		return ok(c, http.StatusCreated, b)
	}
	return ok(c, http.StatusCreated, detail)
}

// MyBookings handles GET /v1/hotels/bookings/my.
func (h *HotelHandler) MyBookings(c echo.Context) error {
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

// Cancel handles DELETE /v1/hotels/bookings/:id.
func (h *HotelHandler) Cancel(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Bookings.Cancel(ctx, id, userID(c)); {
	case err == nil:
		h.Guard.Clear()
		return ok(c, http.StatusOK, echo.Map{"id": id, "status": model.BookingCancelled})
	case errors.Is(err, repository.ErrBookingNotFound):
		return fail(c, http.StatusNotFound, "booking not found")
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, "not your booking")
	case errors.Is(err, repository.ErrAlreadyCancelled):
		return fail(c, http.StatusBadRequest, "booking is already cancelled")
	default:
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not cancel booking")
	}
}
