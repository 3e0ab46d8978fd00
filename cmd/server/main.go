package main // API server entry point

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aerovia/airline-reservation/internal/booking"
	"github.com/aerovia/airline-reservation/internal/config"
	"github.com/aerovia/airline-reservation/internal/database"
	"github.com/aerovia/airline-reservation/internal/handler"
	"github.com/aerovia/airline-reservation/internal/model"
	"github.com/aerovia/airline-reservation/internal/queue"
	"github.com/aerovia/airline-reservation/internal/repository"
	"github.com/aerovia/airline-reservation/internal/router"
	"github.com/aerovia/airline-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	flights := repository.NewFlightRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	store := repository.NewBookingStore(db, flights, bookings)
	coordinator := booking.NewCoordinator(store, cfg.BookingAttempts, cfg.BookingTimeout)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	flightH := handler.NewFlightHandler(flights)
	statsH := handler.NewStatsHandler(flights, bookings)
	userH := handler.NewUserHandler(cfg, users)

	bookingH := handler.NewBookingHandler(coordinator, bookings, flights)
	bookingH.Publish = func(rows []model.Booking, flight *model.Flight) {
		ev := service.NewBookingEvent(rows, flight)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := service.PublishBookingConfirmed(ctx, ev); err != nil {
				log.Printf("publish booking event: %v", err)
			}
		}()
	}

	// Background consumer writes confirmations to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterFlights(e, flightH, statsH, cfg.JWTSecret, rdb)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret, rdb)
	router.RegisterUsers(e, userH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
