// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking orchestrator and handlers to distinguish between failure
// scenarios without string matching. ErrNoInventory in particular is the
// signal that a guarded decrement found fewer units than requested.
package repository

import "errors"

// ErrFlightNotFound is returned when a flight row is absent or inactive.
var ErrFlightNotFound = errors.New("flight not found")

// ErrHotelNotFound is returned when a hotel or its requested room type is
// absent or inactive.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrCarNotFound is returned when a car row is absent or inactive.
var ErrCarNotFound = errors.New("car not found")

// ErrBookingNotFound is returned when a booking does not exist or does not
// belong to the requesting user.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNoInventory is returned by the guarded decrement methods when the
// inventory row holds fewer available units than requested. The row is
// left unchanged.
var ErrNoInventory = errors.New("insufficient inventory")
