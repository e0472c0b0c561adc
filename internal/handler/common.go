// Package handler defines the HTTP handlers of the booking API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
)

// envelope is the uniform response shape of the API. data is present on
// success, error_code on failure; message is always set.
type envelope struct {
	IsSuccess bool   `json:"is_success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

func respondOK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{IsSuccess: true, Message: message, Data: data})
}

func respondDomainError(c echo.Context, derr *booking.DomainError) error {
	msg := derr.Message
	if derr.Detail != "" {
		msg = derr.Message + ": " + derr.Detail
	}
	return c.JSON(derr.HTTPStatus, envelope{IsSuccess: false, Message: msg, ErrorCode: derr.Code})
}

func respondError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, envelope{IsSuccess: false, Message: message, ErrorCode: code})
}

// getUserID extracts the user_id set by the JWT middleware. JWT numeric
// claims decode as float64, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func unauthorized(c echo.Context) error {
	return respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
}
