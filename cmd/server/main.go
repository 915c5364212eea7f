package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/godsaeng/godsaeng-backend/internal/config"
	"github.com/godsaeng/godsaeng-backend/internal/database"
	"github.com/godsaeng/godsaeng-backend/internal/handler"
	"github.com/godsaeng/godsaeng-backend/internal/metrics"
	"github.com/godsaeng/godsaeng-backend/internal/repository"
	"github.com/godsaeng/godsaeng-backend/internal/router"
	"github.com/godsaeng/godsaeng-backend/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	if err := database.RunMigrations(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		// Sessions cannot degrade gracefully the way caching can.
		log.Fatal("redis: connection failed, sessions unavailable")
	}
	sessions := session.NewRedisStore(rdb, time.Duration(cfg.SessionTTLMin)*time.Minute)

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)

	e := echo.New()
	collector := metrics.NewCollector()
	router.RegisterRoutes(e, collector)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, events, sessions), sessions)
	router.RegisterEvents(e, handler.NewEventHandler(events), sessions)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
