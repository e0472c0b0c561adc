package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// PublicHandler serves the unauthenticated search endpoints. These are the
// hot read paths fronted by the Redis response cache.
type PublicHandler struct {
	Flights *repository.FlightRepo
	Hotels  *repository.HotelRepo
	Cars    *repository.CarRepo
}

func NewPublicHandler(flights *repository.FlightRepo, hotels *repository.HotelRepo, cars *repository.CarRepo) *PublicHandler {
	if flights == nil || hotels == nil || cars == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Flights: flights, Hotels: hotels, Cars: cars}
}

// SearchFlights handles GET /v1/flights?origin=&destination=&date=.
// All filters are optional; date selects the calendar day of departure.
func (h *PublicHandler) SearchFlights(c echo.Context) error {
	q := repository.FlightSearch{
		Origin:      c.QueryParam("origin"),
		Destination: c.QueryParam("destination"),
	}
	if d := c.QueryParam("date"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		}
		q.DepartureDate = t
	}
	flights, err := h.Flights.Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to search flights")
	}
	return respondOK(c, http.StatusOK, "flights loaded", echo.Map{"items": flights})
}

// GetFlight handles GET /v1/flights/:id.
func (h *PublicHandler) GetFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid flight id")
	}
	f, err := h.Flights.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return respondError(c, http.StatusNotFound, "flight_not_found", "flight not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to load flight")
	}
	return respondOK(c, http.StatusOK, "flight loaded", f)
}

// SearchHotels handles GET /v1/hotels?city=.
func (h *PublicHandler) SearchHotels(c echo.Context) error {
	hotels, err := h.Hotels.SearchByCity(c.Request().Context(), c.QueryParam("city"))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to search hotels")
	}
	return respondOK(c, http.StatusOK, "hotels loaded", echo.Map{"items": hotels})
}

// ListHotelRooms handles GET /v1/hotels/:id/rooms.
func (h *PublicHandler) ListHotelRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid hotel id")
	}
	if _, err := h.Hotels.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return respondError(c, http.StatusNotFound, "hotel_not_found", "hotel not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to load hotel")
	}
	rooms, err := h.Hotels.ListRooms(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to load rooms")
	}
	return respondOK(c, http.StatusOK, "rooms loaded", echo.Map{"items": rooms})
}

// SearchCars handles GET /v1/cars?location=.
func (h *PublicHandler) SearchCars(c echo.Context) error {
	cars, err := h.Cars.SearchByLocation(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to search cars")
	}
	return respondOK(c, http.StatusOK, "cars loaded", echo.Map{"items": cars})
}
