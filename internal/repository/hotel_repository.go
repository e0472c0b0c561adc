package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// HotelRepo provides data access to the hotels and hotel_rooms tables.
// Room inventory is tracked per hotel + room type; a checkout locks exactly
// one hotel_rooms row.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// DB exposes the underlying handle for cross-repository transactions.
func (r *HotelRepo) DB() *sql.DB { return r.db }

const hotelRoomColumns = `id, hotel_id, room_type, rooms_total, rooms_available,
	nightly_price, currency, is_active, created_at, updated_at`

func scanHotelRoom(row interface{ Scan(...any) error }) (*model.HotelRoom, error) {
	var hr model.HotelRoom
	if err := row.Scan(
		&hr.ID, &hr.HotelID, &hr.RoomType, &hr.RoomsTotal, &hr.RoomsAvailable,
		&hr.NightlyPrice, &hr.Currency, &hr.IsActive, &hr.CreatedAt, &hr.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &hr, nil
}

// SearchByCity returns active hotels in the given city together with their
// active room blocks. Hotels with no available rooms still appear so the
// UI can render them as sold out.
func (r *HotelRepo) SearchByCity(ctx context.Context, city string) ([]model.Hotel, error) {
	query := `SELECT id, name, city, country, stars, is_active, created_at, updated_at
			  FROM hotels WHERE is_active = 1`
	args := make([]any, 0, 1)
	if s := strings.TrimSpace(city); s != "" {
		query += ` AND city = ?`
		args = append(args, s)
	}
	query += ` ORDER BY stars DESC, name ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Country, &h.Stars,
			&h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

// GetByID returns a hotel by id. Returns ErrHotelNotFound when absent.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	var h model.Hotel
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, city, country, stars, is_active, created_at, updated_at
		 FROM hotels WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &h.City, &h.Country, &h.Stars, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListRooms returns the room blocks of a hotel, active ones first.
func (r *HotelRepo) ListRooms(ctx context.Context, hotelID uint64) ([]model.HotelRoom, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hotelRoomColumns+` FROM hotel_rooms WHERE hotel_id = ?
		 ORDER BY is_active DESC, nightly_price ASC`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.HotelRoom, 0)
	for rows.Next() {
		hr, err := scanHotelRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *hr)
	}
	return out, rows.Err()
}

// LockRoomForUpdateTx locks the inventory row for one room type of one
// hotel. When roomType is empty the cheapest active block that still has
// rooms is chosen (any-available-type fallback). The lock is held for the
// remainder of the transaction; concurrent checkouts against the same block
// serialize here. Returns ErrHotelNotFound when the hotel is inactive or no
// matching block exists.
func (r *HotelRepo) LockRoomForUpdateTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType string) (*model.HotelRoom, error) {
	// The hotel itself must be active regardless of which block we lock.
	var active bool
	err := tx.QueryRowContext(ctx, `SELECT is_active FROM hotels WHERE id = ?`, hotelID).Scan(&active)
	if err == sql.ErrNoRows || (err == nil && !active) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + hotelRoomColumns + ` FROM hotel_rooms WHERE hotel_id = ? AND is_active = 1`
	args := []any{hotelID}
	if rt := strings.ToUpper(strings.TrimSpace(roomType)); rt != "" {
		query += ` AND room_type = ?`
		args = append(args, rt)
	} else {
		query += ` AND rooms_available > 0 ORDER BY nightly_price ASC`
	}
	query += ` LIMIT 1 FOR UPDATE`
	hr, err := scanHotelRoom(tx.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	return hr, err
}

// DecrementRoomsTx atomically reduces rooms_available by qty inside the
// caller's transaction, guarded against oversubscription. Returns
// ErrNoInventory when fewer than qty rooms remain.
func (r *HotelRepo) DecrementRoomsTx(ctx context.Context, tx *sql.Tx, roomID uint64, qty int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE hotel_rooms SET rooms_available = rooms_available - ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ? AND rooms_available >= ?`, qty, roomID, qty)
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

// CreateHotel inserts a hotel row and returns its ID. Admin only.
func (r *HotelRepo) CreateHotel(ctx context.Context, h *model.Hotel) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hotels (name, city, country, stars, is_active) VALUES (?, ?, ?, ?, ?)`,
		h.Name, h.City, h.Country, h.Stars, h.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateRoomBlock inserts a hotel_rooms row and returns its ID. Admin only.
func (r *HotelRepo) CreateRoomBlock(ctx context.Context, hr *model.HotelRoom) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hotel_rooms (hotel_id, room_type, rooms_total, rooms_available,
			nightly_price, currency, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		hr.HotelID, strings.ToUpper(hr.RoomType), hr.RoomsTotal, hr.RoomsAvailable,
		hr.NightlyPrice, hr.Currency, hr.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetRoomActive flips a room block's is_active flag. Admin only.
func (r *HotelRepo) SetRoomActive(ctx context.Context, roomID uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE hotel_rooms SET is_active = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, active, roomID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHotelNotFound
	}
	return nil
}
