package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/model"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
)

// AdminHandler owns the inventory CRUD endpoints. All routes behind it
// require the ADMIN role.
type AdminHandler struct {
	Flights *repository.FlightRepo
	Hotels  *repository.HotelRepo
	Cars    *repository.CarRepo
}

func NewAdminHandler(flights *repository.FlightRepo, hotels *repository.HotelRepo, cars *repository.CarRepo) *AdminHandler {
	if flights == nil || hotels == nil || cars == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Flights: flights, Hotels: hotels, Cars: cars}
}

type createFlightReq struct {
	Airline      string  `json:"airline"`
	FlightNumber string  `json:"flight_number"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	DepartsAt    string  `json:"departs_at"` // RFC 3339
	ArrivesAt    string  `json:"arrives_at"`
	CabinClass   string  `json:"cabin_class"`
	Seats        int     `json:"seats"`
	BasePrice    float64 `json:"base_price"`
	Currency     string  `json:"currency"`
}

// CreateFlight handles POST /v1/admin/flights.
func (h *AdminHandler) CreateFlight(c echo.Context) error {
	var req createFlightReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if strings.TrimSpace(req.Airline) == "" || strings.TrimSpace(req.FlightNumber) == "" ||
		strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return respondError(c, http.StatusBadRequest, "validation_error",
			"airline, flight_number, origin and destination are required")
	}
	departs, err := time.Parse(time.RFC3339, req.DepartsAt)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "departs_at must be RFC 3339")
	}
	arrives, err := time.Parse(time.RFC3339, req.ArrivesAt)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "arrives_at must be RFC 3339")
	}
	if !arrives.After(departs) {
		return respondError(c, http.StatusBadRequest, "invalid_date_range", "arrives_at must be after departs_at")
	}
	if req.Seats <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_seat_count", "seats must be a positive integer")
	}
	if req.BasePrice <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_price", "base_price must be positive")
	}
	f := &model.Flight{
		Airline:        req.Airline,
		FlightNumber:   strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartsAt:      departs.UTC(),
		ArrivesAt:      arrives.UTC(),
		CabinClass:     strings.ToUpper(strings.TrimSpace(req.CabinClass)),
		SeatsTotal:     req.Seats,
		SeatsAvailable: req.Seats,
		BasePrice:      req.BasePrice,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		IsActive:       true,
	}
	id, err := h.Flights.Create(c.Request().Context(), f)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to create flight")
	}
	return respondOK(c, http.StatusCreated, "flight created", echo.Map{"id": id})
}

// UpdateFlightPricing handles PATCH /v1/admin/flights/:id/pricing.
func (h *AdminHandler) UpdateFlightPricing(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid flight id")
	}
	var req struct {
		BasePrice float64 `json:"base_price"`
	}
	if err := c.Bind(&req); err != nil || req.BasePrice <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_price", "base_price must be positive")
	}
	if err := h.Flights.UpdatePricing(c.Request().Context(), id, req.BasePrice); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return respondError(c, http.StatusNotFound, "flight_not_found", "flight not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to update pricing")
	}
	return respondOK(c, http.StatusOK, "pricing updated", nil)
}

type setActiveReq struct {
	Active *bool `json:"active"`
}

// SetFlightActive handles PATCH /v1/admin/flights/:id/active.
func (h *AdminHandler) SetFlightActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid flight id")
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "active is required")
	}
	if err := h.Flights.SetActive(c.Request().Context(), id, *req.Active); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return respondError(c, http.StatusNotFound, "flight_not_found", "flight not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to update flight")
	}
	return respondOK(c, http.StatusOK, "flight updated", nil)
}

type createHotelReq struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
	Stars   int    `json:"stars"`
}

// CreateHotel handles POST /v1/admin/hotels.
func (h *AdminHandler) CreateHotel(c echo.Context) error {
	var req createHotelReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.City) == "" {
		return respondError(c, http.StatusBadRequest, "validation_error", "name and city are required")
	}
	if req.Stars < 1 || req.Stars > 5 {
		return respondError(c, http.StatusBadRequest, "validation_error", "stars must be between 1 and 5")
	}
	id, err := h.Hotels.CreateHotel(c.Request().Context(), &model.Hotel{
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		Stars:    req.Stars,
		IsActive: true,
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to create hotel")
	}
	return respondOK(c, http.StatusCreated, "hotel created", echo.Map{"id": id})
}

type createRoomBlockReq struct {
	RoomType     string  `json:"room_type"`
	Rooms        int     `json:"rooms"`
	NightlyPrice float64 `json:"nightly_price"`
	Currency     string  `json:"currency"`
}

// CreateRoomBlock handles POST /v1/admin/hotels/:id/rooms.
func (h *AdminHandler) CreateRoomBlock(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid hotel id")
	}
	var req createRoomBlockReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if strings.TrimSpace(req.RoomType) == "" {
		return respondError(c, http.StatusBadRequest, "validation_error", "room_type is required")
	}
	if req.Rooms <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_room_count", "rooms must be a positive integer")
	}
	if req.NightlyPrice <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_price", "nightly_price must be positive")
	}
	if _, err := h.Hotels.GetByID(c.Request().Context(), hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return respondError(c, http.StatusNotFound, "hotel_not_found", "hotel not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to load hotel")
	}
	id, err := h.Hotels.CreateRoomBlock(c.Request().Context(), &model.HotelRoom{
		HotelID:        hotelID,
		RoomType:       req.RoomType,
		RoomsTotal:     req.Rooms,
		RoomsAvailable: req.Rooms,
		NightlyPrice:   req.NightlyPrice,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		IsActive:       true,
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to create room block")
	}
	return respondOK(c, http.StatusCreated, "room block created", echo.Map{"id": id})
}

// SetRoomActive handles PATCH /v1/admin/rooms/:id/active.
func (h *AdminHandler) SetRoomActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid room id")
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "active is required")
	}
	if err := h.Hotels.SetRoomActive(c.Request().Context(), id, *req.Active); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return respondError(c, http.StatusNotFound, "hotel_not_found", "room block not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to update room block")
	}
	return respondOK(c, http.StatusOK, "room block updated", nil)
}

type createCarReq struct {
	Provider   string  `json:"provider"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Category   string  `json:"category"`
	Location   string  `json:"location"`
	Units      int     `json:"units"`
	DailyPrice float64 `json:"daily_price"`
	Currency   string  `json:"currency"`
}

// CreateCar handles POST /v1/admin/cars.
func (h *AdminHandler) CreateCar(c echo.Context) error {
	var req createCarReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if strings.TrimSpace(req.Provider) == "" || strings.TrimSpace(req.Location) == "" {
		return respondError(c, http.StatusBadRequest, "validation_error", "provider and location are required")
	}
	if req.Units <= 0 {
		return respondError(c, http.StatusBadRequest, "validation_error", "units must be a positive integer")
	}
	if req.DailyPrice <= 0 {
		return respondError(c, http.StatusBadRequest, "invalid_price", "daily_price must be positive")
	}
	id, err := h.Cars.Create(c.Request().Context(), &model.Car{
		Provider:       req.Provider,
		Make:           req.Make,
		CarModel:       req.Model,
		Category:       strings.ToUpper(strings.TrimSpace(req.Category)),
		Location:       req.Location,
		UnitsTotal:     req.Units,
		UnitsAvailable: req.Units,
		DailyPrice:     req.DailyPrice,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		IsActive:       true,
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to create car")
	}
	return respondOK(c, http.StatusCreated, "car created", echo.Map{"id": id})
}

// SetCarActive handles PATCH /v1/admin/cars/:id/active.
func (h *AdminHandler) SetCarActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondError(c, http.StatusBadRequest, "validation_error", "invalid car id")
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return respondError(c, http.StatusBadRequest, "validation_error", "active is required")
	}
	if err := h.Cars.SetActive(c.Request().Context(), id, *req.Active); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return respondError(c, http.StatusNotFound, "car_not_found", "car not found")
		}
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to update car")
	}
	return respondOK(c, http.StatusOK, "car updated", nil)
}
