package main // Entry point package

import (
	"context"   // context carries the shutdown signal
	"errors"    // errors detects a normal server close
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os/signal" // signal turns SIGINT/SIGTERM into a cancelled context
	"syscall"   // signal numbers
	"time"      // shutdown timeout

	"github.com/google/uuid"                        // request ids
	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // request id, logging and recovery
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-room-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/cinema-room-reservation/internal/database"   // MySQL connection and schema
	"github.com/iliyamo/cinema-room-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/cinema-room-reservation/internal/metrics"    // Prometheus middleware
	"github.com/iliyamo/cinema-room-reservation/internal/middleware" // cache purge
	"github.com/iliyamo/cinema-room-reservation/internal/queue"      // reservation event consumer
	"github.com/iliyamo/cinema-room-reservation/internal/repository" // MySQL stores
	"github.com/iliyamo/cinema-room-reservation/internal/router"     // Internal router setup
	"github.com/iliyamo/cinema-room-reservation/internal/service"    // business rules
	"github.com/iliyamo/cinema-room-reservation/internal/utils"      // ticket signing
	"github.com/iliyamo/cinema-room-reservation/internal/validator"  // request validation
)

func main() {
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbOpts := database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, dbOpts); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("database schema is up to date")
	}

	db, err := database.Open(dbOpts)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil disables cache and rate limiting
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	rooms := repository.NewCinemaRoomRepo(db)
	movies := repository.NewMovieRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	sessions := repository.NewSessionRepo(db)
	seats := repository.NewOccupiedSeatRepo(db)

	signer := utils.NewTicketSigner(cfg.TicketSecret, cfg.TicketTTL)

	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		events = service.NewAMQPPublisher(cfg.RabbitURL)
		if cfg.RunConsumer {
			consumer := queue.NewConsumer(cfg.RabbitURL, cfg.ReservationLog)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("reservation consumer stopped: %v", err)
				}
			}()
		}
	} else {
		log.Println("RABBITMQ_URL not set, reservation events are disabled")
	}

	catalog := service.NewRoomService(rooms, movies, showtimes, sessions)
	reservations := service.NewReservationService(rooms, movies, sessions, seats, events, signer, cfg.MediaURL)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = &validator.EchoValidator{V: validator.NewValidator()}
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())

	deps := router.Deps{
		Redis:     rdb,
		Cache:     cacheCfg,
		RateLimit: config.LoadRateLimitConfig(),
		Tickets:   signer,
	}
	router.RegisterRoutes(e, handler.Ready(db), cfg.MediaDir)
	router.RegisterPublic(e, &handler.BrowseHandler{Catalog: catalog, Reserver: reservations, MediaURL: cfg.MediaURL}, deps)
	router.RegisterReservations(e, &handler.ReservationHandler{Reserver: reservations}, deps)
	router.RegisterAdmin(e, &handler.AdminHandler{
		Catalog:  catalog,
		MediaURL: cfg.MediaURL,
		Purge:    purger(cacheCfg, rdb),
	})

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := reservations.Drain(shutdownCtx); err != nil {
		log.Printf("pending reservation events not published: %v", err)
	}
}

// purger binds the cache settings for admin handlers.
func purger(cfg config.CacheConfig, rdb *redis.Client) func(ctx context.Context, routes ...string) error {
	return func(ctx context.Context, routes ...string) error {
		return middleware.PurgeRoutes(ctx, cfg, rdb, routes...)
	}
}
