package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/weekly-menu/config"
	"github.com/yeremiapane/weekly-menu/database"
	"github.com/yeremiapane/weekly-menu/kds"
	"github.com/yeremiapane/weekly-menu/middlewares"
	"github.com/yeremiapane/weekly-menu/router"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	r, cleanup := buildApp(db, cfg)
	defer cleanup()

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// buildApp wires stores, services and the hub into the HTTP router.
func buildApp(db *gorm.DB, cfg *config.Config) (*gin.Engine, func()) {
	hub := kds.NewHub()
	menu := database.NewMenuStore(db)
	carts := database.NewCartStore(db)
	orders := database.NewOrderStore(db)

	validator := services.NewOrderValidator(cfg.LeadTime, cfg.Location)
	orderSvc := services.NewOrderService(orders, carts, menu, validator)
	orderSvc.Policy = services.PolicyFor(cfg.StrictTransitions)
	orderSvc.Notifier = hub

	cleanup := func() {}
	if cfg.RedisAddr != "" {
		guard := database.NewRedisIdempotency(cfg.RedisAddr, cfg.IdempotencyTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := guard.Ping(ctx); err != nil {
			utils.ErrorLogger.WithError(err).Warn("redis unavailable, idempotency falls back to the database")
			guard.Close()
		} else {
			orderSvc.Guard = guard
			cleanup = func() { guard.Close() }
			utils.InfoLogger.WithField("addr", cfg.RedisAddr).Info("redis idempotency guard enabled")
		}
	}

	r := router.SetupRouter(router.Options{
		DB:          db,
		Menu:        menu,
		Carts:       services.NewCartService(carts, menu),
		Orders:      orderSvc,
		Hub:         hub,
		Location:    cfg.Location,
		CORSOrigin:  cfg.CORSOrigin,
		RateLimiter: middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})
	return r, cleanup
}
