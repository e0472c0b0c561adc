package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// CarCheckoutRequest is the payload for booking one rental car unit.
type CarCheckoutRequest struct {
	CarID         uint64   `json:"car_id"`
	PickupDate    string   `json:"pickup_date"`  // YYYY-MM-DD
	DropoffDate   string   `json:"dropoff_date"` // YYYY-MM-DD
	Price         *float64 `json:"price,omitempty"`
	PaymentToken  string   `json:"payment_token"`
	PaymentMethod string   `json:"payment_method"`
	Notes         string   `json:"notes,omitempty"`
}

type carResource struct {
	req  CarCheckoutRequest
	repo *repository.CarRepo

	pickup  time.Time
	dropoff time.Time
	days    int
}

func (c *carResource) kind() model.ItemKind { return model.ItemKindCar }

func (c *carResource) validate() *DomainError {
	if c.req.CarID == 0 {
		return errValidation("car_id is required")
	}
	var err error
	if c.pickup, err = time.Parse(dateLayout, c.req.PickupDate); err != nil {
		return errInvalidDateRange("pickup_date must be a valid YYYY-MM-DD date")
	}
	if c.dropoff, err = time.Parse(dateLayout, c.req.DropoffDate); err != nil {
		return errInvalidDateRange("dropoff_date must be a valid YYYY-MM-DD date")
	}
	c.days = int(c.dropoff.Sub(c.pickup).Hours() / 24)
	if c.days <= 0 {
		return errInvalidDateRange("dropoff_date must be after pickup_date")
	}
	return nil
}

// quantity is the rental length in days; exactly one unit leaves the pool.
func (c *carResource) quantity() int { return c.days }

func (c *carResource) holdQuantity() int { return 1 }

func (c *carResource) expectedPrice() *float64 { return c.req.Price }

func (c *carResource) paymentToken() string { return c.req.PaymentToken }

func (c *carResource) paymentMethod() model.PaymentMethod {
	return model.ParsePaymentMethod(c.req.PaymentMethod)
}

func (c *carResource) notes() string { return c.req.Notes }

func (c *carResource) lock(ctx context.Context, tx *sql.Tx) (*lockedInventory, error) {
	car, err := c.repo.LockForUpdateTx(ctx, tx, c.req.CarID)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return nil, errNotFound(CodeCarNotFound, "car not found or no longer bookable")
		}
		return nil, err
	}
	meta, _ := json.Marshal(map[string]any{
		"provider": car.Provider,
		"make":     car.Make,
		"model":    car.CarModel,
		"category": car.Category,
		"location": car.Location,
		"days":     c.days,
	})
	return &lockedInventory{
		resourceID:    car.ID,
		available:     car.UnitsAvailable,
		baseUnitPrice: car.DailyPrice,
		currency:      car.Currency,
		startsAt:      c.pickup,
		endsAt:        c.dropoff,
		metadata:      string(meta),
		decrement: func(ctx context.Context, tx *sql.Tx, qty int) error {
			return c.repo.DecrementUnitsTx(ctx, tx, car.ID, qty)
		},
	}, nil
}
