package main // seeds the database with an admin account and sample flights

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/aerovia/airline-reservation/internal/config"
	"github.com/aerovia/airline-reservation/internal/database"
	"github.com/aerovia/airline-reservation/internal/model"
	"github.com/aerovia/airline-reservation/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	flights := repository.NewFlightRepo(db)

	seedAdmin(ctx, cfg, users)
	seedFlights(ctx, flights)
	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, cfg config.Config, users *repository.UserRepo) {
	uid, err := users.Create(ctx, "admin@aerovia.test", "admin", "Aerovia Admin", "admin123", model.RoleAdmin, cfg.BcryptCost)
	switch err {
	case nil:
		log.Printf("created admin user id=%d", uid)
	case repository.ErrUserExists:
		log.Println("admin user already present, skipping")
	default:
		log.Fatalf("seed admin: %v", err)
	}
}

func seedFlights(ctx context.Context, flights *repository.FlightRepo) {
	base := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	samples := []model.Flight{
		{FlightNumber: "AV101", DepartureCity: "Lisbon", ArrivalCity: "Madrid", DepartureTime: base, ArrivalTime: base.Add(80 * time.Minute), Price: 89.99, AvailableSeats: 120},
		{FlightNumber: "AV204", DepartureCity: "Madrid", ArrivalCity: "Paris", DepartureTime: base.Add(3 * time.Hour), ArrivalTime: base.Add(5 * time.Hour), Price: 129.50, AvailableSeats: 150},
		{FlightNumber: "LH330", DepartureCity: "Paris", ArrivalCity: "Berlin", DepartureTime: base.Add(26 * time.Hour), ArrivalTime: base.Add(28 * time.Hour), Price: 99.00, AvailableSeats: 90},
		{FlightNumber: "LH412", DepartureCity: "Berlin", ArrivalCity: "Lisbon", DepartureTime: base.Add(50 * time.Hour), ArrivalTime: base.Add(53 * time.Hour), Price: 149.90, AvailableSeats: 110},
		{FlightNumber: "TP077", DepartureCity: "Lisbon", ArrivalCity: "Paris", DepartureTime: base.Add(74 * time.Hour), ArrivalTime: base.Add(76*time.Hour + 30*time.Minute), Price: 119.00, AvailableSeats: 80},
	}
	for i := range samples {
		f := samples[i]
		err := flights.Create(ctx, &f)
		switch err {
		case nil:
			log.Printf("created flight %s id=%d", f.FlightNumber, f.ID)
		case repository.ErrFlightNumberExists:
			log.Printf("flight %s already present, skipping", f.FlightNumber)
		default:
			log.Fatalf("seed flight %s: %v", f.FlightNumber, err)
		}
	}
}
