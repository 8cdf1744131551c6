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
	"github.com/mlevasseur/stationnement/internal/cache"
	"github.com/mlevasseur/stationnement/internal/email"
	"github.com/mlevasseur/stationnement/internal/kafka"
	"github.com/mlevasseur/stationnement/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Parking.FacilitiesCacheTTL)*time.Second)

	catalog := tariff.NewCatalog()
	sessionRepo := repository.NewSessionRepository(pool)
	vehicleRepo := repository.NewVehicleRepository(pool)
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, sender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirySweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			notified, err := sessionService.NotifyExpiredSessions(ctx)
			if err != nil {
				log.Printf("expiry sweep error: %v", err)
				continue
			}
			if len(notified) > 0 {
				log.Printf("notified %d expired sessions", len(notified))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
