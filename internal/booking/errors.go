// Package booking contains the checkout orchestrator: the one component
// that turns a checkout request into a durable booking while coordinating
// inventory, pricing, the simulated charge, the billing ledger and the
// post-commit notification event.
package booking

import (
	"fmt"
	"net/http"
)

// DomainError is a structured, expected failure outcome carrying a
// machine-readable code and the HTTP status the API layer should use.
// Anything else bubbling out of the orchestrator is an internal fault.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Detail     string `json:"detail,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes surfaced by checkout. Handlers map these onto wire-level
// responses via HTTPStatus.
const (
	CodeValidation           = "validation_error"
	CodeInvalidDateRange     = "invalid_date_range"
	CodeInvalidRoomCount     = "invalid_room_count"
	CodeInvalidSeatCount     = "invalid_seat_count"
	CodeMissingPaymentMethod = "missing_payment_method"
	CodeFlightNotFound       = "flight_not_found"
	CodeHotelNotFound        = "hotel_not_found"
	CodeCarNotFound          = "car_not_found"
	CodeNoInventory          = "no_inventory"
	CodeInvalidPrice         = "invalid_price"
	CodePaymentFailed        = "payment_failed"
	CodeTxConflict           = "db_transaction_conflict"
	CodeInternal             = "internal_error"
)

func errValidation(msg string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func errInvalidDateRange(msg string) *DomainError {
	return &DomainError{Code: CodeInvalidDateRange, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func errInvalidSeatCount() *DomainError {
	return &DomainError{Code: CodeInvalidSeatCount, Message: "seats must be a positive integer", HTTPStatus: http.StatusBadRequest}
}

func errInvalidRoomCount() *DomainError {
	return &DomainError{Code: CodeInvalidRoomCount, Message: "rooms must be a positive integer", HTTPStatus: http.StatusBadRequest}
}

func errMissingPaymentMethod() *DomainError {
	return &DomainError{Code: CodeMissingPaymentMethod, Message: "payment method token is required", HTTPStatus: http.StatusBadRequest}
}

func errNotFound(code, msg string) *DomainError {
	return &DomainError{Code: code, Message: msg, HTTPStatus: http.StatusNotFound}
}

func errNoInventory(requested, available int) *DomainError {
	return &DomainError{
		Code:       CodeNoInventory,
		Message:    "not enough inventory for this request",
		HTTPStatus: http.StatusConflict,
		Detail:     fmt.Sprintf("requested=%d available=%d", requested, available),
	}
}

func errInvalidPrice(detail string) *DomainError {
	return &DomainError{Code: CodeInvalidPrice, Message: "computed price is not valid", HTTPStatus: http.StatusBadRequest, Detail: detail}
}

func errPaymentFailed(failureCode string) *DomainError {
	return &DomainError{
		Code:       CodePaymentFailed,
		Message:    "payment was declined",
		HTTPStatus: http.StatusPaymentRequired,
		Detail:     failureCode,
	}
}

func errTxConflict() *DomainError {
	return &DomainError{
		Code:       CodeTxConflict,
		Message:    "the booking could not be completed due to contention, please retry",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func errInternal() *DomainError {
	return &DomainError{Code: CodeInternal, Message: "unexpected error", HTTPStatus: http.StatusInternalServerError}
}
