package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/config"
	"github.com/iliyamo/tour-reservation/internal/database"
	"github.com/iliyamo/tour-reservation/internal/handler"
	"github.com/iliyamo/tour-reservation/internal/middleware"
	"github.com/iliyamo/tour-reservation/internal/queue"
	"github.com/iliyamo/tour-reservation/internal/repository"
	"github.com/iliyamo/tour-reservation/internal/router"
	queuepub "github.com/iliyamo/tour-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	// Event consumer runs for the lifetime of the process and reconnects
	// on its own; a broker outage must not block startup.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	scheduleRepo := repository.NewScheduleRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	tourRepo := repository.NewTourRepo(db)
	guideRepo := repository.NewGuideRepo(db)
	promoRepo := repository.NewPromotionRepo(db)
	addonRepo := repository.NewAddonRepo(db)
	checkoutRepo := repository.NewCheckoutRepo(db)

	svc := booking.NewService(
		repository.NewTxManager(db),
		scheduleRepo,
		reservationRepo,
		tourRepo,
		guideRepo,
		promoRepo,
		addonRepo,
		checkoutRepo,
		queuepub.New(),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(tourRepo, scheduleRepo, svc), config.LoadCacheConfig(), rdb)
	router.RegisterCustomer(e, handler.NewReservationHandler(svc, reservationRepo), handler.NewPaymentHandler(svc), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewGuideHandler(svc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
