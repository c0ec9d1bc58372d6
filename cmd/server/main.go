package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/config"
	"github.com/cinepass/ticket-booking/internal/database"
	"github.com/cinepass/ticket-booking/internal/handler"
	"github.com/cinepass/ticket-booking/internal/ledger"
	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/pricing"
	"github.com/cinepass/ticket-booking/internal/queue"
	"github.com/cinepass/ticket-booking/internal/repository"
	"github.com/cinepass/ticket-booking/internal/router"
	queue_publisher "github.com/cinepass/ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // load .env when present; real env vars win

	cfg := config.Load() // load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared connection pool.
	movies := repository.NewMovieRepo(db)
	locations := repository.NewLocationRepo(db)
	screens := repository.NewScreenRepo(db)
	seats := repository.NewSeatRepo(db)
	seatTypes := repository.NewSeatTypeRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	bookings := repository.NewBookingRepo(db)

	cat := catalog.NewSQL(screens, seats, seatTypes, showtimes) // catalog facade for the reservation core
	pricer := pricing.NewResolver(cat)                          // seat price resolver

	ldgr := ledger.New(cat, pricer, bookings)
	restored, err := ldgr.Restore(context.Background()) // mark persisted bookings before serving traffic
	if err != nil {
		log.Fatalf("ledger restore: %v", err)
	}
	log.Printf("ledger: restored %d booked seats", restored)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go ledger.NewSweeper(ldgr, cfg.SweepInterval).Start(ctx) // background expiry sweeper
	go queue.StartBookingConsumer()                          // booking.confirmed log consumer

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter and cache degrade to pass-through

	public := handler.NewPublicHandler(movies, locations, screens, seats, seatTypes, showtimes)
	avail := handler.NewAvailabilityHandler(cat, ldgr, pricer)
	reserve := handler.NewReservationHandler(cfg, ldgr, cat, bookings)
	reserve.Publish = queue_publisher.PublishBookingConfirmed
	reserve.Describe = func(ctx context.Context, show *model.Showtime) (string, string, string) {
		var movie, location, screen string
		if m, err := movies.GetByID(ctx, show.MovieID); err == nil {
			movie = m.Name
		}
		if l, err := locations.GetByID(ctx, show.LocationID); err == nil {
			location = l.Name
		}
		if s, err := screens.GetByID(ctx, show.ScreenID); err == nil {
			screen = s.Name
		}
		return movie, location, screen
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, public, avail, config.LoadCacheConfig(), rdb)
	router.RegisterReservation(e, reserve, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
