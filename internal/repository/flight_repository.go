package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// FlightRepo provides data access to the flights table. Availability
// mutations happen only through LockForUpdateTx + DecrementSeatsTx inside a
// checkout transaction; everything else is plain read or admin CRUD.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repositories.
func (r *FlightRepo) DB() *sql.DB { return r.db }

const flightColumns = `id, airline, flight_number, origin, destination, departs_at, arrives_at,
	cabin_class, seats_total, seats_available, base_price, currency, is_active, created_at, updated_at`

func scanFlight(row interface{ Scan(...any) error }) (*model.Flight, error) {
	var f model.Flight
	if err := row.Scan(
		&f.ID, &f.Airline, &f.FlightNumber, &f.Origin, &f.Destination,
		&f.DepartsAt, &f.ArrivesAt, &f.CabinClass, &f.SeatsTotal, &f.SeatsAvailable,
		&f.BasePrice, &f.Currency, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// FlightSearch carries optional filters for the public flight listing.
// Zero values mean "no filter".
type FlightSearch struct {
	Origin        string    // exact IATA code match
	Destination   string    // exact IATA code match
	DepartureDate time.Time // matches the calendar day of departs_at (UTC)
}

// Search returns active flights matching the given filters, soonest first.
// The WHERE clause is assembled dynamically so unset filters cost nothing.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearch) ([]model.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE is_active = 1`
	args := make([]any, 0, 4)
	if s := strings.ToUpper(strings.TrimSpace(q.Origin)); s != "" {
		query += ` AND origin = ?`
		args = append(args, s)
	}
	if s := strings.ToUpper(strings.TrimSpace(q.Destination)); s != "" {
		query += ` AND destination = ?`
		args = append(args, s)
	}
	if !q.DepartureDate.IsZero() {
		query += ` AND DATE(departs_at) = ?`
		args = append(args, q.DepartureDate.UTC().Format("2006-01-02"))
	}
	query += ` ORDER BY departs_at ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	flights := make([]model.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

// GetByID returns a single flight regardless of its active flag, for admin
// views and booking detail joins. Returns ErrFlightNotFound when absent.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return nil, ErrFlightNotFound
	}
	return f, err
}

// LockForUpdateTx acquires an exclusive row lock on an active flight for
// the remainder of the transaction. Concurrent checkouts against the same
// flight serialize here. Returns ErrFlightNotFound when the row is absent
// or inactive.
func (r *FlightRepo) LockForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Flight, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id = ? AND is_active = 1 FOR UPDATE`, id)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return nil, ErrFlightNotFound
	}
	return f, err
}

// DecrementSeatsTx atomically reduces seats_available by qty inside the
// caller's transaction. The availability guard is part of the statement, so
// together with the row lock held since LockForUpdateTx there is no
// read-modify-write window. Returns ErrNoInventory when fewer than qty
// seats remain.
func (r *FlightRepo) DecrementSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE flights SET seats_available = seats_available - ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ? AND seats_available >= ?`, qty, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoInventory
	}
	return nil
}

// Create inserts a new flight and returns its ID. Admin only.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO flights (airline, flight_number, origin, destination, departs_at, arrives_at,
			cabin_class, seats_total, seats_available, base_price, currency, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Airline, f.FlightNumber, strings.ToUpper(f.Origin), strings.ToUpper(f.Destination),
		f.DepartsAt.UTC(), f.ArrivesAt.UTC(), f.CabinClass, f.SeatsTotal, f.SeatsAvailable,
		f.BasePrice, f.Currency, f.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdatePricing changes the base price of a flight. Admin only.
func (r *FlightRepo) UpdatePricing(ctx context.Context, id uint64, basePrice float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE flights SET base_price = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, basePrice, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// SetActive flips the is_active flag. Deactivated flights disappear from
// search results and reject new checkouts but keep existing bookings.
func (r *FlightRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE flights SET is_active = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
