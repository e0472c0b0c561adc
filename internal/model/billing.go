package model

import (
	"strings"
	"time"
)

// PaymentMethod enumerates the accepted payment method families.  The
// simulated gateway applies a different failure probability per method.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodPaypal PaymentMethod = "PAYPAL"
	PaymentMethodOther  PaymentMethod = "OTHER"
)

// ParsePaymentMethod normalizes a client-supplied method string.  Unknown
// values fall back to OTHER rather than failing, matching gateway behavior
// for alternative payment rails.
func ParsePaymentMethod(s string) PaymentMethod {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(PaymentMethodCard):
		return PaymentMethodCard
	case string(PaymentMethodPaypal):
		return PaymentMethodPaypal
	default:
		return PaymentMethodOther
	}
}

// BillingStatus enumerates ledger row outcomes.  REFUNDED is reserved for
// out-of-scope refund flows and is never written by checkout.
type BillingStatus string

const (
	BillingStatusPending  BillingStatus = "PENDING"
	BillingStatusSuccess  BillingStatus = "SUCCESS"
	BillingStatusFailed   BillingStatus = "FAILED"
	BillingStatusRefunded BillingStatus = "REFUNDED"
)

// BillingTransaction is an append-only ledger row recording one simulated
// charge attempt.  It is written inside the same transaction as the booking,
// so a rolled-back checkout leaves no ledger trace.
//
// Fields:
//  ID           – primary key identifier.
//  BookingID    – booking this charge belongs to.
//  UserID       – user who was charged.
//  Amount       – charged amount.
//  Currency     – ISO 4217 code.
//  Method       – payment method family.
//  PaymentToken – opaque client-supplied payment token.
//  ProviderRef  – synthetic gateway reference for audit correlation.
//  Status       – SUCCESS or FAILED for checkout-written rows.
//  FailureCode  – gateway failure code when Status is FAILED.
//  RawResponse  – raw simulator payload (JSON) kept for audit.
//  CreatedAt    – timestamp of creation.
type BillingTransaction struct {
	ID           uint64        // billing_transactions.id
	BookingID    uint64        // billing_transactions.booking_id
	UserID       uint64        // billing_transactions.user_id
	Amount       float64       // billing_transactions.amount
	Currency     string        // billing_transactions.currency
	Method       PaymentMethod // billing_transactions.method
	PaymentToken string        // billing_transactions.payment_token
	ProviderRef  string        // billing_transactions.provider_ref
	Status       BillingStatus // billing_transactions.status
	FailureCode  string        // billing_transactions.failure_code
	RawResponse  string        // billing_transactions.raw_response (JSON)
	CreatedAt    time.Time     // billing_transactions.created_at
}
