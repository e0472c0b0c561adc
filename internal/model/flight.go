package model

import "time"

// Flight is a sellable flight departure with a finite seat pool.  The
// seats_available counter is the contended inventory row for flight
// checkouts and is only ever decremented under a row lock.
type Flight struct {
	ID             uint64    // flights.id
	Airline        string    // flights.airline
	FlightNumber   string    // flights.flight_number
	Origin         string    // flights.origin (IATA code)
	Destination    string    // flights.destination (IATA code)
	DepartsAt      time.Time // flights.departs_at (UTC)
	ArrivesAt      time.Time // flights.arrives_at (UTC)
	CabinClass     string    // flights.cabin_class (ECONOMY/BUSINESS/FIRST)
	SeatsTotal     int       // flights.seats_total
	SeatsAvailable int       // flights.seats_available
	BasePrice      float64   // flights.base_price (per seat)
	Currency       string    // flights.currency
	IsActive       bool      // flights.is_active
	CreatedAt      time.Time // flights.created_at
	UpdatedAt      time.Time // flights.updated_at
}
