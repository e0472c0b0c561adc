package booking

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/payment"
	"github.com/iliyamo/travel-booking-platform/internal/queue"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// stubCharger pins the gateway outcome so tests control the payment leg.
type stubCharger struct {
	result payment.ChargeResult
	calls  int
}

func (s *stubCharger) Charge(req payment.ChargeRequest) payment.ChargeResult {
	s.calls++
	return s.result
}

// stubPublisher records events instead of talking to a broker.
type stubPublisher struct {
	confirmed []queue.BookingConfirmedEvent
	failed    []queue.BookingFailedEvent
}

func (s *stubPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	s.confirmed = append(s.confirmed, ev)
	return nil
}

func (s *stubPublisher) PublishBookingFailed(ctx context.Context, ev queue.BookingFailedEvent) error {
	s.failed = append(s.failed, ev)
	return nil
}

func successCharge() payment.ChargeResult {
	return payment.ChargeResult{
		Success:     true,
		Status:      "SUCCESS",
		ProviderRef: "SIM-test",
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func declinedCharge(code string) payment.ChargeResult {
	return payment.ChargeResult{
		Success:     false,
		Status:      "FAILED",
		FailureCode: code,
		ProviderRef: "SIM-test",
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func newTestOrchestrator(t *testing.T, charger Charger, pub EventPublisher) (*Orchestrator, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	o := NewOrchestrator(db,
		repository.NewBookingRepo(db),
		repository.NewBillingRepo(db),
		repository.NewFlightRepo(db),
		repository.NewHotelRepo(db),
		repository.NewCarRepo(db),
		charger, pub, "test-suite", "USD")
	return o, mock, db
}

var flightCols = []string{"id", "airline", "flight_number", "origin", "destination",
	"departs_at", "arrives_at", "cabin_class", "seats_total", "seats_available",
	"base_price", "currency", "is_active", "created_at", "updated_at"}

func flightRow(seatsAvailable int, basePrice float64) *sqlmock.Rows {
	departs := time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC)
	return sqlmock.NewRows(flightCols).
		AddRow(55, "Acme Air", "AA100", "JFK", "LAX", departs, departs.Add(6*time.Hour),
			"ECONOMY", 180, seatsAvailable, basePrice, "USD", true, departs, departs)
}

func expectFlightLock(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights WHERE id = ? AND is_active = 1 FOR UPDATE")).
		WithArgs(uint64(55)).
		WillReturnRows(rows)
}

func expectBookingInsert(mock sqlmock.Sqlmock, bookingID int64) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(bookingID, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM bookings")).
		WithArgs(uint64(bookingID)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
}

func expectBillingInsert(mock sqlmock.Sqlmock, billingID int64) {
	now := time.Date(2026, 8, 1, 12, 0, 1, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO billing_transactions")).
		WillReturnResult(sqlmock.NewResult(billingID, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM billing_transactions")).
		WithArgs(uint64(billingID)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
}

func TestCheckoutFlightSuccess(t *testing.T) {
	charger := &stubCharger{result: successCharge()}
	pub := &stubPublisher{}
	o, mock, _ := newTestOrchestrator(t, charger, pub)

	mock.ExpectBegin()
	expectFlightLock(mock, flightRow(10, 199.99))
	expectBookingInsert(mock, 42)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_items")).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats_available = seats_available - ?")).
		WithArgs(2, uint64(55), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectBillingInsert(mock, 5)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WithArgs(model.BookingStatusConfirmed, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	data, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         2,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.Nil(t, derr)
	require.NotNil(t, data)
	assert.Equal(t, model.BookingStatusConfirmed, data.Booking.Status)
	assert.Equal(t, uint64(42), data.Booking.ID)
	assert.InDelta(t, 399.98, data.Booking.TotalAmount, 0.001)
	assert.Equal(t, 2, data.Item.Quantity)
	assert.InDelta(t, 199.99, data.Item.UnitPrice, 0.001)
	assert.Equal(t, model.BillingStatusSuccess, data.Billing.Status)
	assert.Regexp(t, `^FLT-[0-9A-Z]{6}$`, data.Booking.Reference)
	assert.Equal(t, 1, charger.calls)

	require.Len(t, pub.confirmed, 1)
	assert.Equal(t, uint64(42), pub.confirmed[0].BookingID)
	assert.Equal(t, "test-suite", pub.confirmed[0].Source)
	assert.Empty(t, pub.failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightClientPriceWins(t *testing.T) {
	charger := &stubCharger{result: successCharge()}
	o, mock, _ := newTestOrchestrator(t, charger, nil)

	mock.ExpectBegin()
	expectFlightLock(mock, flightRow(10, 199.99))
	expectBookingInsert(mock, 43)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_items")).
		WillReturnResult(sqlmock.NewResult(78, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats_available")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectBillingInsert(mock, 6)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	price := 300.00
	data, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         2,
		Price:         &price,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.Nil(t, derr)
	assert.InDelta(t, 300.00, data.Booking.TotalAmount, 0.001)
	assert.InDelta(t, 150.00, data.Item.UnitPrice, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightPaymentFailureRollsBack(t *testing.T) {
	charger := &stubCharger{result: declinedCharge("insufficient_funds")}
	pub := &stubPublisher{}
	o, mock, _ := newTestOrchestrator(t, charger, pub)

	mock.ExpectBegin()
	expectFlightLock(mock, flightRow(10, 199.99))
	expectBookingInsert(mock, 42)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_items")).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats_available")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectBillingInsert(mock, 5)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WithArgs(model.BookingStatusFailed, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	data, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         1,
		PaymentToken:  "tok_declined",
		PaymentMethod: "CARD",
	})
	assert.Nil(t, data)
	require.NotNil(t, derr)
	assert.Equal(t, CodePaymentFailed, derr.Code)
	assert.Equal(t, http.StatusPaymentRequired, derr.HTTPStatus)
	assert.Equal(t, "insufficient_funds", derr.Detail)

	require.Len(t, pub.failed, 1)
	assert.Equal(t, CodePaymentFailed, pub.failed[0].ErrorCode)
	assert.Empty(t, pub.confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightNoInventory(t *testing.T) {
	charger := &stubCharger{result: successCharge()}
	o, mock, _ := newTestOrchestrator(t, charger, nil)

	mock.ExpectBegin()
	expectFlightLock(mock, flightRow(1, 199.99))
	mock.ExpectRollback()

	data, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         2,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	assert.Nil(t, data)
	require.NotNil(t, derr)
	assert.Equal(t, CodeNoInventory, derr.Code)
	assert.Equal(t, http.StatusConflict, derr.HTTPStatus)
	assert.Equal(t, "requested=2 available=1", derr.Detail)
	assert.Zero(t, charger.calls, "payment must not run when inventory is short")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightNotFound(t *testing.T) {
	o, mock, _ := newTestOrchestrator(t, &stubCharger{result: successCharge()}, nil)

	mock.ExpectBegin()
	expectFlightLock(mock, sqlmock.NewRows(flightCols))
	mock.ExpectRollback()

	_, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         1,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeFlightNotFound, derr.Code)
	assert.Equal(t, http.StatusNotFound, derr.HTTPStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutMissingUserPublishesFailure(t *testing.T) {
	// Every failure path emits a best-effort event, including the ones
	// rejected before the transaction opens.
	pub := &stubPublisher{}
	o, mock, _ := newTestOrchestrator(t, &stubCharger{result: successCharge()}, pub)

	_, derr := o.CheckoutFlight(context.Background(), 0, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         1,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeValidation, derr.Code)

	require.Len(t, pub.failed, 1)
	assert.Equal(t, CodeValidation, pub.failed[0].ErrorCode)
	assert.Zero(t, pub.failed[0].UserID)
	assert.Equal(t, string(model.ItemKindFlight), pub.failed[0].ItemKind)
	assert.Empty(t, pub.confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightValidationFailsFast(t *testing.T) {
	// No mock expectations: a bad request must never reach the database.
	o, mock, _ := newTestOrchestrator(t, &stubCharger{result: successCharge()}, nil)

	_, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         0,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidSeatCount, derr.Code)

	_, derr = o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         1,
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeMissingPaymentMethod, derr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightInvalidClientPrice(t *testing.T) {
	o, mock, _ := newTestOrchestrator(t, &stubCharger{result: successCharge()}, nil)

	mock.ExpectBegin()
	expectFlightLock(mock, flightRow(10, 199.99))
	mock.ExpectRollback()

	price := -50.0
	_, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         1,
		Price:         &price,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidPrice, derr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFlightDeadlockMapsToTxConflict(t *testing.T) {
	o, mock, _ := newTestOrchestrator(t, &stubCharger{result: successCharge()}, nil)

	mock.ExpectBegin()
	expectFlightLock(mock, flightRow(10, 199.99))
	expectBookingInsert(mock, 42)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_items")).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE flights SET seats_available")).
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
	mock.ExpectRollback()

	_, derr := o.CheckoutFlight(context.Background(), 7, FlightCheckoutRequest{
		FlightID:      55,
		Seats:         1,
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeTxConflict, derr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, derr.HTTPStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var hotelRoomCols = []string{"id", "hotel_id", "room_type", "rooms_total", "rooms_available",
	"nightly_price", "currency", "is_active", "created_at", "updated_at"}

func TestCheckoutHotelSuccess(t *testing.T) {
	charger := &stubCharger{result: successCharge()}
	o, mock, _ := newTestOrchestrator(t, charger, nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_active FROM hotels WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM hotel_rooms WHERE hotel_id = ? AND is_active = 1")).
		WithArgs(uint64(3), "DOUBLE").
		WillReturnRows(sqlmock.NewRows(hotelRoomCols).
			AddRow(21, 3, "DOUBLE", 20, 5, 120.00, "EUR", true, now, now))
	expectBookingInsert(mock, 44)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_items")).
		WillReturnResult(sqlmock.NewResult(80, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE hotel_rooms SET rooms_available = rooms_available - ?")).
		WithArgs(2, uint64(21), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectBillingInsert(mock, 8)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	data, derr := o.CheckoutHotel(context.Background(), 7, HotelCheckoutRequest{
		HotelID:       3,
		RoomType:      "DOUBLE",
		Rooms:         2,
		CheckIn:       "2026-09-10",
		CheckOut:      "2026-09-13",
		PaymentToken:  "tok_ok",
		PaymentMethod: "PAYPAL",
	})
	require.Nil(t, derr)
	// 3 nights x 2 rooms = 6 room-nights at the nightly price.
	assert.Equal(t, 6, data.Item.Quantity)
	assert.InDelta(t, 720.00, data.Booking.TotalAmount, 0.001)
	assert.Equal(t, "EUR", data.Booking.Currency)
	assert.Regexp(t, `^HTL-[0-9A-Z]{6}$`, data.Booking.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutHotelDateValidation(t *testing.T) {
	o, mock, _ := newTestOrchestrator(t, &stubCharger{result: successCharge()}, nil)

	cases := []HotelCheckoutRequest{
		{HotelID: 3, Rooms: 1, CheckIn: "not-a-date", CheckOut: "2026-09-13", PaymentToken: "t", PaymentMethod: "CARD"},
		{HotelID: 3, Rooms: 1, CheckIn: "2026-09-13", CheckOut: "2026-09-10", PaymentToken: "t", PaymentMethod: "CARD"},
		{HotelID: 3, Rooms: 1, CheckIn: "2026-09-10", CheckOut: "2026-09-10", PaymentToken: "t", PaymentMethod: "CARD"},
	}
	for i, req := range cases {
		_, derr := o.CheckoutHotel(context.Background(), 7, req)
		require.NotNil(t, derr, "case %d", i)
		assert.Equal(t, CodeInvalidDateRange, derr.Code, "case %d", i)
	}

	_, derr := o.CheckoutHotel(context.Background(), 7, HotelCheckoutRequest{
		HotelID: 3, Rooms: 0, CheckIn: "2026-09-10", CheckOut: "2026-09-13",
		PaymentToken: "t", PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidRoomCount, derr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

var carCols = []string{"id", "provider", "make", "model", "category", "location",
	"units_total", "units_available", "daily_price", "currency", "is_active",
	"created_at", "updated_at"}

func TestCheckoutCarSuccess(t *testing.T) {
	charger := &stubCharger{result: successCharge()}
	o, mock, _ := newTestOrchestrator(t, charger, nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE id = ? AND is_active = 1 FOR UPDATE")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(carCols).
			AddRow(9, "Hertz", "Toyota", "Corolla", "COMPACT", "LAX", 12, 4, 45.00, "USD", true, now, now))
	expectBookingInsert(mock, 45)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_items")).
		WillReturnResult(sqlmock.NewResult(81, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cars SET units_available = units_available - ?")).
		WithArgs(1, uint64(9), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectBillingInsert(mock, 9)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	data, derr := o.CheckoutCar(context.Background(), 7, CarCheckoutRequest{
		CarID:         9,
		PickupDate:    "2026-09-01",
		DropoffDate:   "2026-09-05",
		PaymentToken:  "tok_ok",
		PaymentMethod: "OTHER",
	})
	require.Nil(t, derr)
	// 4 rental days, one unit out of the pool.
	assert.Equal(t, 4, data.Item.Quantity)
	assert.InDelta(t, 180.00, data.Booking.TotalAmount, 0.001)
	assert.Regexp(t, `^CAR-[0-9A-Z]{6}$`, data.Booking.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutCarNoUnits(t *testing.T) {
	charger := &stubCharger{result: successCharge()}
	o, mock, _ := newTestOrchestrator(t, charger, nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE id = ? AND is_active = 1 FOR UPDATE")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(carCols).
			AddRow(9, "Hertz", "Toyota", "Corolla", "COMPACT", "LAX", 12, 0, 45.00, "USD", true, now, now))
	mock.ExpectRollback()

	_, derr := o.CheckoutCar(context.Background(), 7, CarCheckoutRequest{
		CarID:         9,
		PickupDate:    "2026-09-01",
		DropoffDate:   "2026-09-03",
		PaymentToken:  "tok_ok",
		PaymentMethod: "CARD",
	})
	require.NotNil(t, derr)
	assert.Equal(t, CodeNoInventory, derr.Code)
	assert.Equal(t, "requested=1 available=0", derr.Detail)
	assert.Zero(t, charger.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
