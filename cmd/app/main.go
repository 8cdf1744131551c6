package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlevasseur/stationnement/config"
	"github.com/mlevasseur/stationnement/internal/bootstrap"
	"github.com/mlevasseur/stationnement/internal/cache"
	"github.com/mlevasseur/stationnement/internal/kafka"
	"github.com/mlevasseur/stationnement/internal/repository"
	"github.com/mlevasseur/stationnement/internal/service/facilities"
	"github.com/mlevasseur/stationnement/internal/service/session"
	"github.com/mlevasseur/stationnement/internal/tariff"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Parking.FacilitiesCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalog := tariff.NewCatalog()
	sessionRepo := repository.NewSessionRepository(pool)
	vehicleRepo := repository.NewVehicleRepository(pool)
	facilityService := facilities.NewFacilityService(sessionRepo, catalog, redisCache)
	sessionService := session.NewSessionService(
		sessionRepo,
		vehicleRepo,
		catalog,
		redisCache,
		producer,
		cfg.Kafka.SessionsTopic,
		time.Duration(cfg.Parking.StartLockSeconds)*time.Second,
		session.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		session.WithHalfDayBoundaryHour(cfg.Parking.HalfDayBoundaryHour),
	)

	if err := bootstrap.Run(ctx, cfg, catalog, sessionService, facilityService, vehicleRepo); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
