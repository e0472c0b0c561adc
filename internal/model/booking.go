package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A booking is
// created PENDING inside the checkout transaction and transitioned to
// CONFIRMED before commit.  FAILED exists only inside a transaction that is
// subsequently rolled back, so readers never observe it.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// ItemKind identifies which inventory table a booking item draws from.
type ItemKind string

const (
	ItemKindFlight ItemKind = "FLIGHT"
	ItemKindHotel  ItemKind = "HOTEL"
	ItemKindCar    ItemKind = "CAR"
)

// Booking is the header record for one checkout.  StartsAt/EndsAt are
// derived from the underlying resource's coverage dates (departure day for
// flights, stay for hotels, rental window for cars) and drive the
// past/current/future read scopes.
//
// Fields:
//  ID          – primary key identifier of the booking.
//  UserID      – owner of the booking.
//  Reference   – short human-shareable code (kind prefix + 6 base-36 chars).
//  Status      – lifecycle status, see BookingStatus.
//  TotalAmount – total monetary amount across items.
//  Currency    – ISO 4217 code; matches all items.
//  StartsAt    – coverage start timestamp (UTC).
//  EndsAt      – coverage end timestamp (UTC).
//  Notes       – free-text notes supplied at checkout.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Booking struct {
	ID          uint64        // bookings.id
	UserID      uint64        // bookings.user_id
	Reference   string        // bookings.reference
	Status      BookingStatus // bookings.status
	TotalAmount float64       // bookings.total_amount
	Currency    string        // bookings.currency
	StartsAt    time.Time     // bookings.starts_at
	EndsAt      time.Time     // bookings.ends_at
	Notes       string        // bookings.notes
	CreatedAt   time.Time     // bookings.created_at
	UpdatedAt   time.Time     // bookings.updated_at
}

// BookingItem is one resource line attached to a booking.  The design is
// 1:1 today but the shape supports multi-item carts later.  Metadata holds
// kind-specific details (cabin class, room type, provider) as a JSON object.
type BookingItem struct {
	ID         uint64    // booking_items.id
	BookingID  uint64    // booking_items.booking_id
	Kind       ItemKind  // booking_items.kind
	ResourceID uint64    // booking_items.resource_id (FK into the kind's table)
	StartDate  time.Time // booking_items.start_date
	EndDate    time.Time // booking_items.end_date
	Quantity   int       // booking_items.quantity (seats, nights*rooms, days)
	UnitPrice  float64   // booking_items.unit_price
	TotalPrice float64   // booking_items.total_price (== UnitPrice * Quantity)
	Currency   string    // booking_items.currency
	Metadata   string    // booking_items.metadata (JSON)
	CreatedAt  time.Time // booking_items.created_at
}
