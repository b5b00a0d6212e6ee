package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"freightdesk/internal/configs"
	httpdelivery "freightdesk/internal/delivery/http"
	"freightdesk/internal/delivery/kafka"
	"freightdesk/internal/models"
	"freightdesk/internal/repository"
	"freightdesk/internal/repository/cache"
	"freightdesk/internal/repository/postgres"
	"freightdesk/internal/service"
)

// @title freightdesk API
// @version 1.0
// @description Freight-order management service: customers place multi-stop freight orders; the service stores orders, stops and derived route geometry and exposes search, listing and detail views.

// @host localhost:8080
// @basePath /

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	db, err := postgres.ConnectURL(cfg.PgDSN())
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if derr := db.Close(); derr != nil {
			logrus.Errorf("db close: %v", derr)
		}
	}()
	logrus.Print("connected to postgres")

	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.Stop{}).Error; err != nil {
		logrus.Fatalf("auto-migrate: %s", err)
	}

	var store cache.Store = cache.Noop{}
	if cfg.CacheEnabled {
		store = cache.NewMemory()
	}
	orderCache := cache.NewOrderCache(store)
	defer orderCache.Close()

	var events service.EventPublisher
	if cfg.KafkaBrokers != "" {
		pub := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaTopic)
		defer func() {
			if cerr := pub.Close(); cerr != nil {
				logrus.Errorf("kafka close: %v", cerr)
			}
		}()
		events = pub
		logrus.Printf("order events enabled on topic %s", cfg.KafkaTopic)
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, orderCache, events)

	h := httpdelivery.NewHandler(svc, svc)
	srv := new(httpdelivery.Server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}
	logrus.Print("service stopped")
}
