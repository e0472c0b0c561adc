package model

import "time"

// Car is a rentable car pool at a pickup location.  UnitsAvailable is the
// contended inventory counter for car checkouts; DailyPrice is the base
// unit price per rental day.
type Car struct {
	ID             uint64    // cars.id
	Provider       string    // cars.provider (rental company)
	Make           string    // cars.make
	CarModel       string    // cars.model
	Category       string    // cars.category (ECONOMY/COMPACT/SUV/LUXURY)
	Location       string    // cars.location (pickup city or airport code)
	UnitsTotal     int       // cars.units_total
	UnitsAvailable int       // cars.units_available
	DailyPrice     float64   // cars.daily_price
	Currency       string    // cars.currency
	IsActive       bool      // cars.is_active
	CreatedAt      time.Time // cars.created_at
	UpdatedAt      time.Time // cars.updated_at
}
