package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/repository"
	"github.com/iliyamo/travel-booking-platform/internal/service"
)

// BookingHandler serves the customer-facing read side: booking lists,
// single booking detail and the PDF receipt.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Receipts *service.ReceiptService
}

func NewBookingHandler(bookings *repository.BookingRepo, receipts *service.ReceiptService) *BookingHandler {
	if bookings == nil || receipts == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Receipts: receipts}
}

// ListMyBookings handles GET /v1/my-bookings?scope=past|current|future|all.
// The default scope is all. Bookings come back newest first with their
// items populated.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	scope, err := repository.ParseScope(c.QueryParam("scope"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error",
			"scope must be one of past, current, future, all")
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID, scope)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to load bookings")
	}
	return respondOK(c, http.StatusOK, "bookings loaded", echo.Map{
		"scope": scope,
		"items": details,
	})
}

// GetBooking handles GET /v1/bookings/:id. Ownership is enforced in the
// repository; a foreign booking looks identical to a missing one.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid booking id")
	}
	detail, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respondError(c, http.StatusNotFound, "booking_not_found", "booking not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to load booking")
	}
	return respondOK(c, http.StatusOK, "booking loaded", detail)
}

// Receipt handles GET /v1/bookings/:id/receipt and streams the rendered
// PDF as a download.
func (h *BookingHandler) Receipt(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid booking id")
	}
	pdf, filename, err := h.Receipts.Render(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respondError(c, http.StatusNotFound, "booking_not_found", "booking not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to render receipt")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
