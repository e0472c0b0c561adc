package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// Scope selects a time window of bookings relative to "now" based on the
// booking's coverage dates.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopePast    Scope = "past"
	ScopeCurrent Scope = "current"
	ScopeFuture  Scope = "future"
)

// ParseScope normalizes a query parameter into a Scope. Empty means all.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopePast, ScopeCurrent, ScopeFuture:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// ScopeCondition returns the SQL predicate for a scope, evaluated against
// UTC_TIMESTAMP(). The three non-all scopes partition any set of bookings:
// future means the coverage has not begun, past means it has fully ended,
// and current is everything in between (inclusive on both edges).
func ScopeCondition(s Scope) string {
	switch s {
	case ScopePast:
		return "b.ends_at < UTC_TIMESTAMP()"
	case ScopeCurrent:
		return "b.starts_at <= UTC_TIMESTAMP() AND b.ends_at >= UTC_TIMESTAMP()"
	case ScopeFuture:
		return "b.starts_at > UTC_TIMESTAMP()"
	default:
		return "1=1"
	}
}

// BookingRepo provides CRUD operations for bookings, their items and the
// billing rows hanging off them. The *_Tx methods run inside the checkout
// transaction; the read methods serve the user-facing booking lists.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so the orchestrator can open the
// checkout transaction spanning bookings, inventory and billing.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within the scope of an existing
// transaction. It populates the generated ID and the DB-defaulted
// timestamps on the provided record. The caller must commit or roll back
// the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, reference, status, total_amount, currency, starts_at, ends_at, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Reference, b.Status, b.TotalAmount, b.Currency,
		b.StartsAt.UTC(), b.EndsAt.UTC(), b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the row to populate timestamps and defaults.
	return tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// CreateItemTx inserts a booking item within the provided transaction and
// populates its generated ID.
func (r *BookingRepo) CreateItemTx(ctx context.Context, tx *sql.Tx, it *model.BookingItem) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO booking_items (booking_id, kind, resource_id, start_date, end_date,
			quantity, unit_price, total_price, currency, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.BookingID, it.Kind, it.ResourceID, it.StartDate.UTC(), it.EndDate.UTC(),
		it.Quantity, it.UnitPrice, it.TotalPrice, it.Currency, it.Metadata)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// UpdateStatusTx transitions a booking's status inside the checkout
// transaction. The transition is only durable if the surrounding
// transaction commits.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, status, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingDetail bundles a booking with its items for display to customers.
type BookingDetail struct {
	Booking model.Booking       `json:"booking"`
	Items   []model.BookingItem `json:"items"`
}

const bookingColumns = `b.id, b.user_id, b.reference, b.status, b.total_amount, b.currency,
	b.starts_at, b.ends_at, b.notes, b.created_at, b.updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(
		&b.ID, &b.UserID, &b.Reference, &b.Status, &b.TotalAmount, &b.Currency,
		&b.StartsAt, &b.EndsAt, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns all bookings of a user within the given scope, newest
// first, with their items populated in a second query. When no bookings
// match, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, scope Scope) ([]BookingDetail, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
			  WHERE b.user_id = ? AND ` + ScopeCondition(scope) + `
			  ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		index[b.ID] = len(details)
		details = append(details, BookingDetail{Booking: *b, Items: []model.BookingItem{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Fetch items for all bookings in one query.
	ids := make([]any, 0, len(details))
	placeholders := ""
	for i, d := range details {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		ids = append(ids, d.Booking.ID)
	}
	itemQuery := `SELECT id, booking_id, kind, resource_id, start_date, end_date,
					  quantity, unit_price, total_price, currency, metadata, created_at
				  FROM booking_items WHERE booking_id IN (` + placeholders + `)
				  ORDER BY booking_id, id`
	irows, err := r.db.QueryContext(ctx, itemQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it model.BookingItem
		if err := irows.Scan(&it.ID, &it.BookingID, &it.Kind, &it.ResourceID,
			&it.StartDate, &it.EndDate, &it.Quantity, &it.UnitPrice, &it.TotalPrice,
			&it.Currency, &it.Metadata, &it.CreatedAt); err != nil {
			return nil, err
		}
		if idx, ok := index[it.BookingID]; ok {
			details[idx].Items = append(details[idx].Items, it)
		}
	}
	return details, irows.Err()
}

// GetByIDForUser returns a single booking with its items, enforcing
// ownership. Returns ErrBookingNotFound when the booking does not exist or
// belongs to a different user.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ? AND b.user_id = ?`,
		bookingID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	det := &BookingDetail{Booking: *b, Items: []model.BookingItem{}}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, kind, resource_id, start_date, end_date,
			 quantity, unit_price, total_price, currency, metadata, created_at
		 FROM booking_items WHERE booking_id = ? ORDER BY id`, b.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.BookingItem
		if err := rows.Scan(&it.ID, &it.BookingID, &it.Kind, &it.ResourceID,
			&it.StartDate, &it.EndDate, &it.Quantity, &it.UnitPrice, &it.TotalPrice,
			&it.Currency, &it.Metadata, &it.CreatedAt); err != nil {
			return nil, err
		}
		det.Items = append(det.Items, it)
	}
	return det, rows.Err()
}
