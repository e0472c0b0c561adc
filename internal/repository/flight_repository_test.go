package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrementSeatsTxGuardsAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	// No row matches when seats_available < qty; the repo must surface
	// that as ErrNoInventory without touching the row.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats_available = seats_available - ?")).
		WithArgs(3, uint64(12), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewFlightRepo(db)
	err = repo.DecrementSeatsTx(context.Background(), tx, 12, 3)
	assert.ErrorIs(t, err, ErrNoInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightSearchBuildsFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "airline", "flight_number", "origin", "destination",
		"departs_at", "arrives_at", "cabin_class", "seats_total", "seats_available",
		"base_price", "currency", "is_active", "created_at", "updated_at"}
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("AND origin = ? AND destination = ? AND DATE(departs_at) = ?")).
		WithArgs("JFK", "LAX", "2026-09-01").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Acme Air", "AA100", "JFK", "LAX", now, now.Add(6*time.Hour),
				"ECONOMY", 180, 42, 199.99, "USD", true, now, now))

	repo := NewFlightRepo(db)
	flights, err := repo.Search(context.Background(), FlightSearch{
		Origin:        "jfk",
		Destination:   "lax",
		DepartureDate: now,
	})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "AA100", flights[0].FlightNumber)
	assert.Equal(t, 42, flights[0].SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
