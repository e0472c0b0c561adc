//go:build integration

package booking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
	"github.com/iliyamo/travel-booking-platform/internal/utils"
)

// These tests run the real checkout path against a live MySQL instance and
// verify the properties that sqlmock cannot: row locks actually serialize
// concurrent checkouts, and the scope predicates partition real rows.
//
// Run with:
//
//	TEST_MYSQL_DSN='user:pass@tcp(127.0.0.1:3306)/travel_test?parseTime=true&loc=UTC' \
//	  go test -tags integration ./internal/booking/
//
// The target schema must already contain the tables from migrations/. The
// DSN needs parseTime=true and loc=UTC.

func integrationDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))
	return db
}

func seedUser(t *testing.T, db *sql.DB) uint64 {
	t.Helper()
	email := fmt.Sprintf("itest-%d@example.test", time.Now().UnixNano())
	res, err := db.Exec(
		`INSERT INTO users (email, password_hash, role) VALUES (?, ?, 'CUSTOMER')`,
		email, "x")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	userID := uint64(id)
	t.Cleanup(func() {
		// Bookings cascade their items and billing rows; the user row goes last.
		db.Exec(`DELETE FROM bookings WHERE user_id = ?`, userID)
		db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	})
	return userID
}

func seedFlight(t *testing.T, db *sql.DB, seats int) uint64 {
	t.Helper()
	departs := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	res, err := db.Exec(
		`INSERT INTO flights (airline, flight_number, origin, destination, departs_at, arrives_at,
			cabin_class, seats_total, seats_available, base_price, currency)
		 VALUES (?, ?, 'AMS', 'LIS', ?, ?, 'ECONOMY', ?, ?, 120.00, 'EUR')`,
		"TestAir", fmt.Sprintf("T%d", time.Now().UnixNano()%100000),
		departs, departs.Add(3*time.Hour), seats, seats)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	flightID := uint64(id)
	t.Cleanup(func() { db.Exec(`DELETE FROM flights WHERE id = ?`, flightID) })
	return flightID
}

func liveOrchestrator(db *sql.DB) *Orchestrator {
	return NewOrchestrator(db,
		repository.NewBookingRepo(db),
		repository.NewBillingRepo(db),
		repository.NewFlightRepo(db),
		repository.NewHotelRepo(db),
		repository.NewCarRepo(db),
		&stubCharger{result: successCharge()},
		nil,
		"integration-test",
		"EUR")
}

// TestConcurrentCheckoutNeverOversells races more single-seat checkouts than
// there are seats. Exactly seats of them must confirm, the rest must lose
// with no_inventory, and the counter must land on zero with no CONFIRMED
// booking beyond capacity.
func TestConcurrentCheckoutNeverOversells(t *testing.T) {
	db := integrationDB(t)
	userID := seedUser(t, db)
	const seats = 3
	const contenders = 8
	flightID := seedFlight(t, db, seats)

	outcomes := make([]string, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			// Each contender gets its own orchestrator so the charge stub is
			// never shared between goroutines.
			o := liveOrchestrator(db)
			req := FlightCheckoutRequest{
				FlightID:     flightID,
				Seats:        1,
				PaymentToken: fmt.Sprintf("tok_live_%d", slot),
			}
			// Lock order is identical for every contender so deadlocks are
			// not expected, but a conflict outcome still deserves one retry
			// rather than a flaky failure.
			for attempt := 0; attempt < 3; attempt++ {
				data, derr := o.CheckoutFlight(context.Background(), userID, req)
				if derr != nil && derr.Code == CodeTxConflict {
					continue
				}
				if derr != nil {
					outcomes[slot] = derr.Code
				} else if data != nil {
					outcomes[slot] = string(data.Booking.Status)
				}
				return
			}
			outcomes[slot] = CodeTxConflict
		}(i)
	}
	wg.Wait()

	confirmed, noInventory := 0, 0
	for _, out := range outcomes {
		switch out {
		case string(model.BookingStatusConfirmed):
			confirmed++
		case CodeNoInventory:
			noInventory++
		default:
			t.Fatalf("unexpected checkout outcome %q", out)
		}
	}
	assert.Equal(t, seats, confirmed)
	assert.Equal(t, contenders-seats, noInventory)

	var remaining int
	require.NoError(t, db.QueryRow(
		`SELECT seats_available FROM flights WHERE id = ?`, flightID).Scan(&remaining))
	assert.Equal(t, 0, remaining)

	var stored int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM bookings WHERE user_id = ? AND status = ?`,
		userID, model.BookingStatusConfirmed).Scan(&stored))
	assert.Equal(t, seats, stored)

	// Losers leave nothing behind: no bookings, items or ledger rows in any
	// non-confirmed state.
	var leaked int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM bookings WHERE user_id = ? AND status <> ?`,
		userID, model.BookingStatusConfirmed).Scan(&leaked))
	assert.Zero(t, leaked)
}

// TestListByUserScopesPartition seeds one booking fully in the past, one
// spanning now and one fully in the future, then checks the three scopes
// return disjoint singletons whose union is the all scope.
func TestListByUserScopesPartition(t *testing.T) {
	db := integrationDB(t)
	userID := seedUser(t, db)
	repo := repository.NewBookingRepo(db)
	now := time.Now().UTC()

	insert := func(startsAt, endsAt time.Time) string {
		ref := utils.NewBookingReference(model.ItemKindFlight)
		_, err := db.Exec(
			`INSERT INTO bookings (user_id, reference, status, total_amount, currency, starts_at, ends_at, notes)
			 VALUES (?, ?, 'CONFIRMED', 100.00, 'EUR', ?, ?, '')`,
			userID, ref, startsAt, endsAt)
		require.NoError(t, err)
		return ref
	}
	pastRef := insert(now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	currentRef := insert(now.Add(-1*time.Hour), now.Add(1*time.Hour))
	futureRef := insert(now.Add(24*time.Hour), now.Add(48*time.Hour))

	list := func(scope repository.Scope) []string {
		details, err := repo.ListByUser(context.Background(), userID, scope)
		require.NoError(t, err)
		refs := make([]string, 0, len(details))
		for _, d := range details {
			refs = append(refs, d.Booking.Reference)
		}
		return refs
	}

	assert.Equal(t, []string{pastRef}, list(repository.ScopePast))
	assert.Equal(t, []string{currentRef}, list(repository.ScopeCurrent))
	assert.Equal(t, []string{futureRef}, list(repository.ScopeFuture))
	assert.ElementsMatch(t,
		[]string{pastRef, currentRef, futureRef},
		list(repository.ScopeAll))
}
