package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avialine/travel-booking/internal/config"
	"github.com/avialine/travel-booking/internal/database"
	"github.com/avialine/travel-booking/internal/fallback"
	"github.com/avialine/travel-booking/internal/handler"
	"github.com/avialine/travel-booking/internal/metrics"
	"github.com/avialine/travel-booking/internal/middleware"
	"github.com/avialine/travel-booking/internal/queue"
	"github.com/avialine/travel-booking/internal/repository"
	"github.com/avialine/travel-booking/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.Env == "prod" {
		logger = log.Logger // JSON output in production
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	guard := fallback.NewGuard(cfg.DemoFallback, &logger)
	if err != nil {
		if !cfg.DemoFallback {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		guard.Trip(err)
		logger.Warn().Err(err).Msg("database unreachable, starting in degraded mode")
	}

	metrics.Register()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	flights := repository.NewFlightRepo(db)
	flightBookings := repository.NewFlightBookingRepo(db)
	catalog := repository.NewCatalogRepo(db)
	hotels := repository.NewHotelRepo(db)
	hotelBookings := repository.NewHotelBookingRepo(db)
	cars := repository.NewCarRepo(db)
	carBookings := repository.NewCarBookingRepo(db)
	admin := repository.NewAdminRepo(db)
	settings := repository.NewSettingRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	flightH := handler.NewFlightHandler(flights, flightBookings, catalog, guard)
	hotelH := handler.NewHotelHandler(hotels, hotelBookings, guard)
	carH := handler.NewCarHandler(cars, carBookings, guard)
	adminH := handler.NewAdminHandler(admin, users, settings, guard)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(&logger))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterCore(e, db, authH, cfg.JWTSecret)
	router.RegisterPublic(e, flightH, hotelH, carH,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterTraveler(e, authH, flightH, hotelH, carH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			logger.Warn().Err(err).Msg("booking consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Bool("demo_fallback", cfg.DemoFallback).Msg("server starting")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
