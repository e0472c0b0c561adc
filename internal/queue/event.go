// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used for checkout notifications. Both are declared durable by
// publisher and consumer alike so declaration is idempotent on either side.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingFailedQueue    = "booking.failed"
)

// BookingConfirmedEvent is published after a checkout transaction commits.
// It contains enough information for downstream consumers to notify, bill
// and feed analytics without querying the primary database. Delivery is
// best-effort and at-least-once; consumers must tolerate duplicates.
type BookingConfirmedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	Reference     string  `json:"reference"`
	UserID        uint64  `json:"user_id"`
	Status        string  `json:"status"`
	ItemKind      string  `json:"item_kind"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	BillingStatus string  `json:"billing_status"`
	OccurredAt    string  `json:"occurred_at"`
	Source        string  `json:"source"`
}

// BookingFailedEvent is published when a checkout ends in a domain error.
// BookingID is zero when the failure rolled back before anything durable
// existed, which is the common case.
type BookingFailedEvent struct {
	BookingID  uint64 `json:"booking_id,omitempty"`
	UserID     uint64 `json:"user_id"`
	ItemKind   string `json:"item_kind"`
	ErrorCode  string `json:"error_code"`
	OccurredAt string `json:"occurred_at"`
	Source     string `json:"source"`
}
