package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
)

// CheckoutHandler exposes the three checkout endpoints. All of the actual
// work happens in the orchestrator; the handler only binds the request,
// resolves the caller and translates the outcome to the wire.
type CheckoutHandler struct {
	Orchestrator *booking.Orchestrator
}

func NewCheckoutHandler(o *booking.Orchestrator) *CheckoutHandler {
	if o == nil {
		panic("nil orchestrator passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Orchestrator: o}
}

// CheckoutFlight handles POST /v1/checkout/flights.
func (h *CheckoutHandler) CheckoutFlight(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req booking.FlightCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, booking.CodeValidation, "invalid request body")
	}
	data, derr := h.Orchestrator.CheckoutFlight(c.Request().Context(), userID, req)
	if derr != nil {
		return respondDomainError(c, derr)
	}
	return respondOK(c, http.StatusCreated, "booking confirmed", data)
}

// CheckoutHotel handles POST /v1/checkout/hotels.
func (h *CheckoutHandler) CheckoutHotel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req booking.HotelCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, booking.CodeValidation, "invalid request body")
	}
	data, derr := h.Orchestrator.CheckoutHotel(c.Request().Context(), userID, req)
	if derr != nil {
		return respondDomainError(c, derr)
	}
	return respondOK(c, http.StatusCreated, "booking confirmed", data)
}

// CheckoutCar handles POST /v1/checkout/cars.
func (h *CheckoutHandler) CheckoutCar(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req booking.CarCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, booking.CodeValidation, "invalid request body")
	}
	data, derr := h.Orchestrator.CheckoutCar(c.Request().Context(), userID, req)
	if derr != nil {
		return respondDomainError(c, derr)
	}
	return respondOK(c, http.StatusCreated, "booking confirmed", data)
}
