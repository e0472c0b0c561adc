package model

import "time"

// Hotel is a property listing.  Hotels themselves carry no inventory;
// capacity lives on HotelRoom rows, one per room type.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	City      string    // hotels.city
	Country   string    // hotels.country
	Stars     int       // hotels.stars (1..5)
	IsActive  bool      // hotels.is_active
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}

// HotelRoom is the contended inventory row for hotel checkouts: the
// available-room counter for one room type of one hotel.  NightlyPrice is
// the base unit price used when the caller does not echo an expected total.
type HotelRoom struct {
	ID             uint64    // hotel_rooms.id
	HotelID        uint64    // hotel_rooms.hotel_id
	RoomType       string    // hotel_rooms.room_type (STANDARD/DELUXE/SUITE)
	RoomsTotal     int       // hotel_rooms.rooms_total
	RoomsAvailable int       // hotel_rooms.rooms_available
	NightlyPrice   float64   // hotel_rooms.nightly_price
	Currency       string    // hotel_rooms.currency
	IsActive       bool      // hotel_rooms.is_active
	CreatedAt      time.Time // hotel_rooms.created_at
	UpdatedAt      time.Time // hotel_rooms.updated_at
}
