// Package router wires handlers to routes and applies per-group middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/handler"
	"github.com/iliyamo/travel-booking-platform/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login and refresh
// are open; logout and me require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	p := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret))
	p.POST("/logout", a.Logout)
	p.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated search endpoints. The
// optional cache middleware fronts them; search responses are identical
// for every caller so route+query keys are safe.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/flights", p.SearchFlights)
	g.GET("/flights/:id", p.GetFlight)
	g.GET("/hotels", p.SearchHotels)
	g.GET("/hotels/:id/rooms", p.ListHotelRooms)
	g.GET("/cars", p.SearchCars)
}

// RegisterCustomer registers checkout and booking endpoints. All routes
// require a valid JWT; checkout additionally sits behind the rate limiter
// because it takes row locks.
func RegisterCustomer(e *echo.Echo, co *handler.CheckoutHandler, bk *handler.BookingHandler, jwtSecret string, ratelimit echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	checkout := g.Group("/checkout")
	if ratelimit != nil {
		checkout.Use(ratelimit)
	}
	checkout.POST("/flights", co.CheckoutFlight)
	checkout.POST("/hotels", co.CheckoutHotel)
	checkout.POST("/cars", co.CheckoutCar)

	g.GET("/my-bookings", bk.ListMyBookings)
	g.GET("/bookings/:id", bk.GetBooking)
	g.GET("/bookings/:id/receipt", bk.Receipt)
}

// RegisterAdmin registers the inventory management endpoints, restricted
// to the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/flights", a.CreateFlight)
	g.PATCH("/flights/:id/pricing", a.UpdateFlightPricing)
	g.PATCH("/flights/:id/active", a.SetFlightActive)
	g.POST("/hotels", a.CreateHotel)
	g.POST("/hotels/:id/rooms", a.CreateRoomBlock)
	g.PATCH("/rooms/:id/active", a.SetRoomActive)
	g.POST("/cars", a.CreateCar)
	g.PATCH("/cars/:id/active", a.SetCarActive)
}
