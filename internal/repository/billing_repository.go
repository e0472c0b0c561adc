package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// BillingRepo appends charge outcomes to the billing_transactions ledger.
// Rows are written inside the checkout transaction and never updated by
// this service; refunds belong to a separate flow.
type BillingRepo struct {
	db *sql.DB
}

// NewBillingRepo returns a new BillingRepo bound to the given database.
func NewBillingRepo(db *sql.DB) *BillingRepo { return &BillingRepo{db: db} }

// CreateTx appends one ledger row within the provided transaction and
// populates its generated ID and creation timestamp.
func (r *BillingRepo) CreateTx(ctx context.Context, tx *sql.Tx, bt *model.BillingTransaction) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO billing_transactions (booking_id, user_id, amount, currency, method,
			payment_token, provider_ref, status, failure_code, raw_response)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bt.BookingID, bt.UserID, bt.Amount, bt.Currency, bt.Method,
		bt.PaymentToken, bt.ProviderRef, bt.Status, bt.FailureCode, bt.RawResponse)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	bt.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at FROM billing_transactions WHERE id = ?`, bt.ID).Scan(&bt.CreatedAt)
}

// ListByBooking returns the ledger rows of one booking, oldest first. Used
// by the receipt renderer and admin billing views.
func (r *BillingRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.BillingTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, user_id, amount, currency, method, payment_token,
			provider_ref, status, failure_code, raw_response, created_at
		 FROM billing_transactions WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BillingTransaction, 0)
	for rows.Next() {
		var bt model.BillingTransaction
		var failureCode, rawResponse sql.NullString
		if err := rows.Scan(&bt.ID, &bt.BookingID, &bt.UserID, &bt.Amount, &bt.Currency,
			&bt.Method, &bt.PaymentToken, &bt.ProviderRef, &bt.Status,
			&failureCode, &rawResponse, &bt.CreatedAt); err != nil {
			return nil, err
		}
		bt.FailureCode = failureCode.String
		bt.RawResponse = rawResponse.String
		out = append(out, bt)
	}
	return out, rows.Err()
}
