package handler

import (
	"context"
	"errors"
	"net/http"
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

// CarHandler serves the rental car catalog and the rental flow.
type CarHandler struct {
	Cars     *repository.CarRepo
	Bookings *repository.CarBookingRepo
	Guard    *fallback.Guard
}

func NewCarHandler(cars *repository.CarRepo, b *repository.CarBookingRepo, g *fallback.Guard) *CarHandler {
	if cars == nil || b == nil {
		panic("handler: nil repository")
	}
	return &CarHandler{Cars: cars, Bookings: b, Guard: g}
}

// List handles GET /v1/cars with optional category and location
// filters.
func (h *CarHandler) List(c echo.Context) error {
	if h.Guard.Enabled() && h.Guard.Down() {
		return okDemo(c, http.StatusOK, fallback.DemoCars(), fallback.NoteDemoData)
	}
	page, limit := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cars, err := h.Cars.List(ctx, c.QueryParam("category"), c.QueryParam("location"), page, limit)
	if err != nil {
		if h.Guard.Trip(err) {
			return okDemo(c, http.StatusOK, fallback.DemoCars(), fallback.NoteDemoData)
		}
		return fail(c, http.StatusInternalServerError, "could not load cars")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, cars)
}

// Get handles GET /v1/cars/:id.
func (h *CarHandler) Get(c echo.Context) error {
	id, okID := pathID(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid car id")
	}
	if h.Guard.Enabled() && h.Guard.Down() {
		return okDemo(c, http.StatusOK, fallback.DemoCar(), fallback.NoteDemoData)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return fail(c, http.StatusNotFound, "car not found")
		}
		if h.Guard.Trip(err) {
			return okDemo(c, http.StatusOK, fallback.DemoCar(), fallback.NoteDemoData)
		}
		return fail(c, http.StatusInternalServerError, "could not load car")
	}
	h.Guard.Clear()
	return ok(c, http.StatusOK, car)
}

type carBookReq struct {
	CarID          uint64 `json:"carId"`
	PickupDate     string `json:"pickupDate"`
	ReturnDate     string `json:"returnDate"`
	PickupLocation string `json:"pickupLocation"`
	ReturnLocation string `json:"returnLocation"`
	DriverLicense  string `json:"driverLicense"`
}

// Book handles POST /v1/cars/book with the same lock-check-insert
// transaction as hotel bookings.
func (h *CarHandler) Book(c echo.Context) error {
	var req carBookReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.CarID == 0 {
		return fail(c, http.StatusBadRequest, "carId is required")
	}
	pickup, err := time.Parse("2006-01-02", strings.TrimSpace(req.PickupDate))
	if err != nil {
		return fail(c, http.StatusBadRequest, "pickupDate must be YYYY-MM-DD")
	}
	ret, err := time.Parse("2006-01-02", strings.TrimSpace(req.ReturnDate))
	if err != nil {
		return fail(c, http.StatusBadRequest, "returnDate must be YYYY-MM-DD")
	}
	if !ret.After(pickup) {
		return fail(c, http.StatusBadRequest, "returnDate must be after pickupDate")
	}
	req.DriverLicense = strings.TrimSpace(req.DriverLicense)
	if req.DriverLicense == "" {
		return fail(c, http.StatusBadRequest, "driverLicense is required")
	}

	uid := userID(c)
	demoBooking := func() error {
		return okDemo(c, http.StatusCreated,
			fallback.DemoCarBooking(uid, req.CarID, req.PickupDate, req.ReturnDate, req.PickupLocation, req.ReturnLocation),
			fallback.NoteDemoBooking)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Cars.DB().BeginTx(ctx, nil)
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

	car, err := h.Cars.GetForUpdateTx(ctx, tx, req.CarID)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return fail(c, http.StatusNotFound, "car not found")
		}
		if h.Guard.Trip(err) {
			return demoBooking()
		}
		return fail(c, http.StatusInternalServerError, "could not load car")
	}
	if !car.IsActive {
		return fail(c, http.StatusBadRequest, "car is not available for booking")
	}

	overlap, err := h.Bookings.HasOverlapTx(ctx, tx, car.ID, pickup, ret)
	if err != nil {
		h.Guard.Trip(err)
		return fail(c, http.StatusInternalServerError, "could not check availability")
	}
	if overlap {
		metrics.IncConflict("car")
		return fail(c, http.StatusBadRequest, "car is already booked for these dates")
	}

	pickupLoc := strings.TrimSpace(req.PickupLocation)
	if pickupLoc == "" {
		pickupLoc = car.Location
	}
	returnLoc := strings.TrimSpace(req.ReturnLocation)
	if returnLoc == "" {
		returnLoc = pickupLoc
	}

	b := &model.CarBooking{
		BookingReference: booking.NewReference(booking.PrefixCar, time.Now()),
		UserID:           uid,
		CarID:            car.ID,
		PickupDate:       pickup,
		ReturnDate:       ret,
		PickupLocation:   pickupLoc,
		ReturnLocation:   returnLoc,
		TotalAmountCents: booking.TotalCents(car.PricePerDayCents, pickup, ret),
		DriverLicense:    req.DriverLicense,
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
	metrics.IncBooking("car")

	go func(ev queue.BookingConfirmedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue.PublishBookingConfirmed(pubCtx, ev)
	}(queue.BookingConfirmedEvent{
		Kind:             "car",
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           uid,
		ItemID:           car.ID,
		ItemName:         car.Brand + " " + car.Model,
		StartDate:        req.PickupDate,
		EndDate:          req.ReturnDate,
		TotalAmountCents: b.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	detail, err := h.Bookings.GetDetail(ctx, b.ID)
	if err != nil {
		return ok(c, http.StatusCreated, b)
	}
	return ok(c, http.StatusCreated, detail)
}

// MyBookings handles GET /v1/cars/bookings/my.
func (h *CarHandler) MyBookings(c echo.Context) error {
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

// Cancel handles DELETE /v1/cars/bookings/:id.
func (h *CarHandler) Cancel(c echo.Context) error {
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
