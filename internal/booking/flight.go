package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// FlightCheckoutRequest is the payload for booking seats on one flight.
type FlightCheckoutRequest struct {
	FlightID      uint64   `json:"flight_id"`
	Seats         int      `json:"seats"`
	Price         *float64 `json:"price,omitempty"` // expected total, optional
	PaymentToken  string   `json:"payment_token"`
	PaymentMethod string   `json:"payment_method"`
	Notes         string   `json:"notes,omitempty"`
}

type flightResource struct {
	req  FlightCheckoutRequest
	repo *repository.FlightRepo
}

func (f *flightResource) kind() model.ItemKind { return model.ItemKindFlight }

func (f *flightResource) validate() *DomainError {
	if f.req.FlightID == 0 {
		return errValidation("flight_id is required")
	}
	if f.req.Seats <= 0 {
		return errInvalidSeatCount()
	}
	return nil
}

func (f *flightResource) quantity() int { return f.req.Seats }

func (f *flightResource) holdQuantity() int { return f.req.Seats }

func (f *flightResource) expectedPrice() *float64 { return f.req.Price }

func (f *flightResource) paymentToken() string { return f.req.PaymentToken }

func (f *flightResource) paymentMethod() model.PaymentMethod {
	return model.ParsePaymentMethod(f.req.PaymentMethod)
}

func (f *flightResource) notes() string { return f.req.Notes }

func (f *flightResource) lock(ctx context.Context, tx *sql.Tx) (*lockedInventory, error) {
	fl, err := f.repo.LockForUpdateTx(ctx, tx, f.req.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return nil, errNotFound(CodeFlightNotFound, "flight not found or no longer bookable")
		}
		return nil, err
	}
	meta, _ := json.Marshal(map[string]any{
		"airline":       fl.Airline,
		"flight_number": fl.FlightNumber,
		"origin":        fl.Origin,
		"destination":   fl.Destination,
		"cabin_class":   fl.CabinClass,
	})
	return &lockedInventory{
		resourceID:    fl.ID,
		available:     fl.SeatsAvailable,
		baseUnitPrice: fl.BasePrice,
		currency:      fl.Currency,
		startsAt:      fl.DepartsAt,
		endsAt:        fl.ArrivesAt,
		metadata:      string(meta),
		decrement: func(ctx context.Context, tx *sql.Tx, qty int) error {
			return f.repo.DecrementSeatsTx(ctx, tx, fl.ID, qty)
		},
	}, nil
}
