package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
	"github.com/iliyamo/travel-booking-platform/internal/config"
	"github.com/iliyamo/travel-booking-platform/internal/database"
	"github.com/iliyamo/travel-booking-platform/internal/handler"
	"github.com/iliyamo/travel-booking-platform/internal/middleware"
	"github.com/iliyamo/travel-booking-platform/internal/payment"
	"github.com/iliyamo/travel-booking-platform/internal/queue"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
	"github.com/iliyamo/travel-booking-platform/internal/router"
	"github.com/iliyamo/travel-booking-platform/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when unreachable the cache and rate limiter
	// middlewares degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	flightRepo := repository.NewFlightRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	carRepo := repository.NewCarRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	billingRepo := repository.NewBillingRepo(db)

	publisher := service.NewPublisher(cfg.RabbitURL, cfg.ServiceName)
	orchestrator := booking.NewOrchestrator(
		db, bookingRepo, billingRepo, flightRepo, hotelRepo, carRepo,
		payment.NewSimulator(), publisher, cfg.ServiceName, cfg.DefaultCurrency,
	)
	receipts := service.NewReceiptService(bookingRepo, billingRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := handler.NewPublicHandler(flightRepo, hotelRepo, carRepo)
	checkoutHandler := handler.NewCheckoutHandler(orchestrator)
	bookingHandler := handler.NewBookingHandler(bookingRepo, receipts)
	adminHandler := handler.NewAdminHandler(flightRepo, hotelRepo, carRepo)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	ratelimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, cache)
	router.RegisterCustomer(e, checkoutHandler, bookingHandler, cfg.JWTSecret, ratelimit)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The consumer keeps its own connection and reconnect loop; it logs
	// checkout events to logs/booking.log for audits and demos.
	go func() {
		if err := queue.StartBookingConsumer(cfg.RabbitURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
