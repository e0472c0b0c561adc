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

const dateLayout = "2006-01-02"

// HotelCheckoutRequest is the payload for booking rooms in one hotel.
// RoomType is optional; when empty the cheapest available block is used.
type HotelCheckoutRequest struct {
	HotelID       uint64   `json:"hotel_id"`
	RoomType      string   `json:"room_type,omitempty"`
	Rooms         int      `json:"rooms"`
	CheckIn       string   `json:"check_in"`  // YYYY-MM-DD
	CheckOut      string   `json:"check_out"` // YYYY-MM-DD
	Price         *float64 `json:"price,omitempty"`
	PaymentToken  string   `json:"payment_token"`
	PaymentMethod string   `json:"payment_method"`
	Notes         string   `json:"notes,omitempty"`
}

type hotelResource struct {
	req  HotelCheckoutRequest
	repo *repository.HotelRepo

	checkIn  time.Time
	checkOut time.Time
	nights   int
}

func (h *hotelResource) kind() model.ItemKind { return model.ItemKindHotel }

func (h *hotelResource) validate() *DomainError {
	if h.req.HotelID == 0 {
		return errValidation("hotel_id is required")
	}
	if h.req.Rooms <= 0 {
		return errInvalidRoomCount()
	}
	var err error
	if h.checkIn, err = time.Parse(dateLayout, h.req.CheckIn); err != nil {
		return errInvalidDateRange("check_in must be a valid YYYY-MM-DD date")
	}
	if h.checkOut, err = time.Parse(dateLayout, h.req.CheckOut); err != nil {
		return errInvalidDateRange("check_out must be a valid YYYY-MM-DD date")
	}
	h.nights = int(h.checkOut.Sub(h.checkIn).Hours() / 24)
	if h.nights <= 0 {
		return errInvalidDateRange("check_out must be after check_in")
	}
	return nil
}

// quantity is the billable unit count: room-nights.
func (h *hotelResource) quantity() int { return h.nights * h.req.Rooms }

// holdQuantity is the number of rooms taken from the block; the same rooms
// cover every night of the stay.
func (h *hotelResource) holdQuantity() int { return h.req.Rooms }

func (h *hotelResource) expectedPrice() *float64 { return h.req.Price }

func (h *hotelResource) paymentToken() string { return h.req.PaymentToken }

func (h *hotelResource) paymentMethod() model.PaymentMethod {
	return model.ParsePaymentMethod(h.req.PaymentMethod)
}

func (h *hotelResource) notes() string { return h.req.Notes }

func (h *hotelResource) lock(ctx context.Context, tx *sql.Tx) (*lockedInventory, error) {
	hr, err := h.repo.LockRoomForUpdateTx(ctx, tx, h.req.HotelID, h.req.RoomType)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return nil, errNotFound(CodeHotelNotFound, "hotel or room type not found or no longer bookable")
		}
		return nil, err
	}
	meta, _ := json.Marshal(map[string]any{
		"hotel_id":  hr.HotelID,
		"room_type": hr.RoomType,
		"rooms":     h.req.Rooms,
		"nights":    h.nights,
	})
	return &lockedInventory{
		resourceID:    hr.ID,
		available:     hr.RoomsAvailable,
		baseUnitPrice: hr.NightlyPrice,
		currency:      hr.Currency,
		startsAt:      h.checkIn,
		endsAt:        h.checkOut,
		metadata:      string(meta),
		decrement: func(ctx context.Context, tx *sql.Tx, qty int) error {
			return h.repo.DecrementRoomsTx(ctx, tx, hr.ID, qty)
		},
	}, nil
}
