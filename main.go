package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"obras-backend/config"
	"obras-backend/controllers"
	"obras-backend/database"
	"obras-backend/middlewares"
	"obras-backend/routes"
	"obras-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel)

	// ---- Database (public)
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("public schema migration failed")
	}

	// ---- Payable locks: Redis when configured, row locks only otherwise
	var locker services.Locker = services.NoopLocker{}
	if cfg.RedisAddress != "" {
		rdb, err := connectRedis(cfg.RedisAddress, log)
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer rdb.Close()
		locker = services.NewRedisLocker(rdb, cfg.LockTTL)
	}

	h := &controllers.Handler{
		DB:        db,
		Services:  services.New(services.Options{Logger: log, Locker: locker}),
		Validator: middlewares.NewValidator(cfg.PhoneRegion),
		Config:    cfg,
		Log:       log,
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler(log),
		BodyLimit:    cfg.BodyLimitBytes,
	})
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// Default KeyGenerator = client IP; default 429 handler is fine.
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	routes.Register(app, h, db)

	// ---- Start
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()
	log.WithField("port", cfg.Port).Info("API server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// connectRedis pings with a short backoff so the API can start alongside Redis.
func connectRedis(addr string, log *logrus.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			log.WithField("address", addr).Info("connected to redis")
			return rdb, nil
		}
		log.WithError(err).WithField("attempt", attempt).Warn("redis not ready")
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	_ = rdb.Close()
	return nil, err
}
