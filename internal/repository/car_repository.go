package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// CarRepo provides data access to the cars table. Each row is a pool of
// identical rental units at one location; units_available is the contended
// counter.
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo returns a new CarRepo bound to the given database.
func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

// DB exposes the underlying handle for cross-repository transactions.
func (r *CarRepo) DB() *sql.DB { return r.db }

const carColumns = `id, provider, make, model, category, location, units_total,
	units_available, daily_price, currency, is_active, created_at, updated_at`

func scanCar(row interface{ Scan(...any) error }) (*model.Car, error) {
	var c model.Car
	if err := row.Scan(
		&c.ID, &c.Provider, &c.Make, &c.CarModel, &c.Category, &c.Location,
		&c.UnitsTotal, &c.UnitsAvailable, &c.DailyPrice, &c.Currency,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchByLocation returns active car pools at the given location,
// cheapest first. An empty location lists everything.
func (r *CarRepo) SearchByLocation(ctx context.Context, location string) ([]model.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE is_active = 1`
	args := make([]any, 0, 1)
	if s := strings.TrimSpace(location); s != "" {
		query += ` AND location = ?`
		args = append(args, s)
	}
	query += ` ORDER BY daily_price ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

// GetByID returns a car pool by id. Returns ErrCarNotFound when absent.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = ?`, id)
	c, err := scanCar(row)
	if err == sql.ErrNoRows {
		return nil, ErrCarNotFound
	}
	return c, err
}

// LockForUpdateTx acquires an exclusive row lock on an active car pool for
// the remainder of the transaction. Returns ErrCarNotFound when the row is
// absent or inactive.
func (r *CarRepo) LockForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Car, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE id = ? AND is_active = 1 FOR UPDATE`, id)
	c, err := scanCar(row)
	if err == sql.ErrNoRows {
		return nil, ErrCarNotFound
	}
	return c, err
}

// DecrementUnitsTx atomically reduces units_available by qty inside the
// caller's transaction, guarded against oversubscription. Returns
// ErrNoInventory when fewer than qty units remain.
func (r *CarRepo) DecrementUnitsTx(ctx context.Context, tx *sql.Tx, id uint64, qty int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE cars SET units_available = units_available - ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ? AND units_available >= ?`, qty, id, qty)
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

// Create inserts a car pool and returns its ID. Admin only.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cars (provider, make, model, category, location, units_total,
			units_available, daily_price, currency, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Provider, c.Make, c.CarModel, c.Category, c.Location,
		c.UnitsTotal, c.UnitsAvailable, c.DailyPrice, c.Currency, c.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetActive flips the is_active flag. Admin only.
func (r *CarRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cars SET is_active = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	return nil
}
