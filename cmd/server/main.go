package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emotion-detection-service/internal/auth"
	"github.com/iliyamo/emotion-detection-service/internal/classifier"
	"github.com/iliyamo/emotion-detection-service/internal/config"
	"github.com/iliyamo/emotion-detection-service/internal/database"
	"github.com/iliyamo/emotion-detection-service/internal/handler"
	"github.com/iliyamo/emotion-detection-service/internal/queue"
	"github.com/iliyamo/emotion-detection-service/internal/repository"
	"github.com/iliyamo/emotion-detection-service/internal/router"
	queue_publisher "github.com/iliyamo/emotion-detection-service/internal/service"
)

func main() {
	// .env is a development convenience; in deployment the variables come
	// from the environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil disables rate limiting and the stats cache
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and statistics cache disabled")
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute)
	users := repository.NewUserRepo(db)
	predictions := repository.NewPredictionRepo(db)
	model := classifier.New(cfg.ModelServiceURL, cfg.ModelTimeout)

	var publisher handler.FineTunePublisher
	if cfg.AMQPURL != "" {
		publisher = queue_publisher.New(cfg.AMQPURL)
		go queue.StartFineTuneConsumer(cfg.AMQPURL)
	} else {
		log.Printf("RABBITMQ_URL not set; fine-tune trigger disabled")
	}

	authHandler := handler.NewAuthHandler(cfg, users, issuer)
	predictionHandler := handler.NewPredictionHandler(cfg, predictions, model, publisher)

	e := echo.New()
	router.Register(e, authHandler, predictionHandler, issuer, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
