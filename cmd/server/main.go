package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sanbong/field-booking/internal/config"
	"github.com/sanbong/field-booking/internal/database"
	"github.com/sanbong/field-booking/internal/handler"
	"github.com/sanbong/field-booking/internal/middleware"
	"github.com/sanbong/field-booking/internal/queue"
	"github.com/sanbong/field-booking/internal/repository"
	"github.com/sanbong/field-booking/internal/router"
	"github.com/sanbong/field-booking/internal/service"
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

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	fields := repository.NewFieldRepo(db)
	statuses := repository.NewFieldStatusRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	applications := repository.NewClubApplicationRepo(db)

	publisher := queue.NewPublisher()
	bookingSvc := service.NewBookingService(bookings, statuses, fields, publisher)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Users:        handler.NewUserHandler(users),
		Fields:       handler.NewFieldHandler(fields),
		Bookings:     handler.NewBookingHandler(bookingSvc, bookings),
		FieldStatus:  handler.NewFieldStatusHandler(bookingSvc, statuses),
		Payments:     handler.NewPaymentHandler(payments, bookings),
		Applications: handler.NewClubApplicationHandler(applications, users),
	}, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
