package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"math"
	"time"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/payment"
	"github.com/iliyamo/travel-booking-platform/internal/queue"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
	"github.com/iliyamo/travel-booking-platform/internal/utils"
)

// Charger decides charge outcomes. Satisfied by *payment.Simulator.
type Charger interface {
	Charge(req payment.ChargeRequest) payment.ChargeResult
}

// EventPublisher emits checkout outcome notifications. Implementations are
// fire-and-forget: errors are logged by the orchestrator and never affect
// the checkout result.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishBookingFailed(ctx context.Context, ev queue.BookingFailedEvent) error
}

// CheckoutData is the commit payload of a successful checkout.
type CheckoutData struct {
	Booking model.Booking            `json:"booking"`
	Item    model.BookingItem        `json:"item"`
	Billing model.BillingTransaction `json:"billing"`
}

// lockedInventory is what a resource adapter hands back after taking the
// row lock: everything the shared state machine needs to price, cover and
// decrement, without knowing which kind of inventory it is.
type lockedInventory struct {
	resourceID    uint64
	available     int
	baseUnitPrice float64
	currency      string
	startsAt      time.Time
	endsAt        time.Time
	metadata      string // kind-specific details, serialized JSON
	decrement     func(ctx context.Context, tx *sql.Tx, qty int) error
}

// resource is the per-kind capability interface. Implementations wrap one
// validated checkout request plus the repository that owns its inventory.
// The orchestrator drives the shared state machine through it.
type resource interface {
	kind() model.ItemKind
	// validate performs the fail-fast checks that need no database access.
	validate() *DomainError
	// quantity returns the billable unit count (seats, room-nights, rental
	// days); only valid after validate.
	quantity() int
	// holdQuantity returns how many units of the inventory counter the
	// checkout consumes (seats, rooms, one car unit). It is the amount
	// checked against availability and decremented.
	holdQuantity() int
	expectedPrice() *float64
	paymentToken() string
	paymentMethod() model.PaymentMethod
	notes() string
	// lock acquires the inventory row lock inside tx. It maps a missing or
	// inactive row to the kind's not-found DomainError and passes driver
	// errors through untouched so the coordinator can classify contention.
	lock(ctx context.Context, tx *sql.Tx) (*lockedInventory, error)
}

// Orchestrator composes the transaction coordinator, the inventory and
// booking repositories, the payment simulator and the event publisher into
// one atomic checkout operation per resource kind.
type Orchestrator struct {
	db              *sql.DB
	bookings        *repository.BookingRepo
	billing         *repository.BillingRepo
	flights         *repository.FlightRepo
	hotels          *repository.HotelRepo
	cars            *repository.CarRepo
	charger         Charger
	publisher       EventPublisher
	source          string
	defaultCurrency string
}

// NewOrchestrator wires the checkout dependencies. publisher may be nil, in
// which case no events are emitted (useful in tests and one-off tools).
func NewOrchestrator(
	db *sql.DB,
	bookings *repository.BookingRepo,
	billing *repository.BillingRepo,
	flights *repository.FlightRepo,
	hotels *repository.HotelRepo,
	cars *repository.CarRepo,
	charger Charger,
	publisher EventPublisher,
	source string,
	defaultCurrency string,
) *Orchestrator {
	if db == nil || bookings == nil || billing == nil || flights == nil || hotels == nil || cars == nil || charger == nil {
		panic("nil dependency passed to NewOrchestrator")
	}
	return &Orchestrator{
		db:              db,
		bookings:        bookings,
		billing:         billing,
		flights:         flights,
		hotels:          hotels,
		cars:            cars,
		charger:         charger,
		publisher:       publisher,
		source:          source,
		defaultCurrency: defaultCurrency,
	}
}

// CheckoutFlight books seats on a flight.
func (o *Orchestrator) CheckoutFlight(ctx context.Context, userID uint64, req FlightCheckoutRequest) (*CheckoutData, *DomainError) {
	return o.checkout(ctx, userID, &flightResource{req: req, repo: o.flights})
}

// CheckoutHotel books rooms in a hotel for a stay.
func (o *Orchestrator) CheckoutHotel(ctx context.Context, userID uint64, req HotelCheckoutRequest) (*CheckoutData, *DomainError) {
	return o.checkout(ctx, userID, &hotelResource{req: req, repo: o.hotels})
}

// CheckoutCar books a rental car for a pickup/dropoff window.
func (o *Orchestrator) CheckoutCar(ctx context.Context, userID uint64, req CarCheckoutRequest) (*CheckoutData, *DomainError) {
	return o.checkout(ctx, userID, &carResource{req: req, repo: o.cars})
}

// checkout is the shared state machine. Validation happens before the
// transaction so bad requests never take locks; the transactional body
// returns an error to roll everything back and nil to commit; events are
// published only after the transaction has settled.
func (o *Orchestrator) checkout(ctx context.Context, userID uint64, res resource) (*CheckoutData, *DomainError) {
	if userID == 0 {
		return o.fail(ctx, userID, res, errValidation("user id is required"))
	}
	if res.paymentToken() == "" {
		return o.fail(ctx, userID, res, errMissingPaymentMethod())
	}
	if derr := res.validate(); derr != nil {
		return o.fail(ctx, userID, res, derr)
	}
	qty := res.quantity()
	hold := res.holdQuantity()

	var data *CheckoutData
	err := repository.RunInTx(ctx, o.db, func(tx *sql.Tx) error {
		inv, err := res.lock(ctx, tx)
		if err != nil {
			return err
		}
		if inv.available < hold {
			return errNoInventory(hold, inv.available)
		}

		// Resolve the unit price: a client-echoed expected total wins over
		// the inventory base price. Deliberate simplification, see DESIGN.md.
		unitPrice := inv.baseUnitPrice
		if p := res.expectedPrice(); p != nil {
			unitPrice = *p / float64(qty)
		}
		if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) || unitPrice <= 0 {
			return errInvalidPrice("unit price must be finite and positive")
		}
		totalAmount := unitPrice * float64(qty)
		currency := inv.currency
		if currency == "" {
			currency = o.defaultCurrency
		}

		b := &model.Booking{
			UserID:      userID,
			Reference:   utils.NewBookingReference(res.kind()),
			Status:      model.BookingStatusPending,
			TotalAmount: totalAmount,
			Currency:    currency,
			StartsAt:    inv.startsAt,
			EndsAt:      inv.endsAt,
			Notes:       res.notes(),
		}
		if err := o.bookings.CreateTx(ctx, tx, b); err != nil {
			return err
		}

		item := &model.BookingItem{
			BookingID:  b.ID,
			Kind:       res.kind(),
			ResourceID: inv.resourceID,
			StartDate:  inv.startsAt,
			EndDate:    inv.endsAt,
			Quantity:   qty,
			UnitPrice:  unitPrice,
			TotalPrice: totalAmount,
			Currency:   currency,
			Metadata:   inv.metadata,
		}
		if err := o.bookings.CreateItemTx(ctx, tx, item); err != nil {
			return err
		}

		// The guard inside the decrement statement backs up the explicit
		// availability check above; both run under the same row lock.
		if err := inv.decrement(ctx, tx, hold); err != nil {
			if errors.Is(err, repository.ErrNoInventory) {
				return errNoInventory(hold, inv.available)
			}
			return err
		}

		charge := o.charger.Charge(payment.ChargeRequest{
			Amount:   totalAmount,
			Currency: currency,
			Token:    res.paymentToken(),
			Method:   res.paymentMethod(),
		})

		bt := &model.BillingTransaction{
			BookingID:    b.ID,
			UserID:       userID,
			Amount:       totalAmount,
			Currency:     currency,
			Method:       res.paymentMethod(),
			PaymentToken: res.paymentToken(),
			ProviderRef:  charge.ProviderRef,
			Status:       model.BillingStatusSuccess,
			RawResponse:  charge.RawJSON(),
		}
		if !charge.Success {
			bt.Status = model.BillingStatusFailed
			bt.FailureCode = charge.FailureCode
		}
		if err := o.billing.CreateTx(ctx, tx, bt); err != nil {
			return err
		}

		if !charge.Success {
			// Record the FAILED transition for completeness; the rollback
			// triggered by the returned error discards it together with the
			// booking, item, decrement and ledger row.
			if err := o.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingStatusFailed); err != nil {
				return err
			}
			return errPaymentFailed(charge.FailureCode)
		}

		if err := o.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingStatusConfirmed); err != nil {
			return err
		}
		b.Status = model.BookingStatusConfirmed
		data = &CheckoutData{Booking: *b, Item: *item, Billing: *bt}
		return nil
	})

	if err != nil {
		var derr *DomainError
		switch {
		case errors.As(err, &derr):
			// domain outcome, already classified
		case errors.Is(err, repository.ErrTxConflict):
			derr = errTxConflict()
		default:
			log.Printf("checkout %s: unexpected error: %v", res.kind(), err)
			derr = errInternal()
		}
		return o.fail(ctx, userID, res, derr)
	}

	o.publishConfirmed(ctx, data)
	return data, nil
}

// fail publishes a best-effort failure event and passes the domain error
// through unchanged.
func (o *Orchestrator) fail(ctx context.Context, userID uint64, res resource, derr *DomainError) (*CheckoutData, *DomainError) {
	if o.publisher != nil {
		ev := queue.BookingFailedEvent{
			UserID:     userID,
			ItemKind:   string(res.kind()),
			ErrorCode:  derr.Code,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
			Source:     o.source,
		}
		if err := o.publisher.PublishBookingFailed(ctx, ev); err != nil {
			log.Printf("checkout %s: publish failed event: %v", res.kind(), err)
		}
	}
	return nil, derr
}

func (o *Orchestrator) publishConfirmed(ctx context.Context, data *CheckoutData) {
	if o.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:     data.Booking.ID,
		Reference:     data.Booking.Reference,
		UserID:        data.Booking.UserID,
		Status:        string(data.Booking.Status),
		ItemKind:      string(data.Item.Kind),
		TotalAmount:   data.Booking.TotalAmount,
		Currency:      data.Booking.Currency,
		BillingStatus: string(data.Billing.Status),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		Source:        o.source,
	}
	if err := o.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("checkout %s: publish confirmed event: %v", data.Item.Kind, err)
	}
}
