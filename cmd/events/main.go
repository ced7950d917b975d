package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/asquebay/shop-orders/internal/config"
	"github.com/asquebay/shop-orders/internal/lib/logger"
	"github.com/asquebay/shop-orders/internal/service"
	"github.com/asquebay/shop-orders/internal/transport/kafka"
)

// events печатает журнал изменений заказов из топика Kafka
func main() {
	cfg := config.MustLoad(config.Path)

	// stdout занят журналом, логи идут в stderr
	log := logger.New(cfg.Logger.Level, os.Stderr)

	if len(cfg.Kafka.Brokers) == 0 {
		log.Error("kafka brokers are not configured")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal := service.NewEventJournal(os.Stdout, log)
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, journal, log)

	log.Info("reading order events",
		slog.String("topic", cfg.Kafka.Topic),
		slog.String("group_id", cfg.Kafka.GroupID),
	)
	consumer.Run(ctx)

	if err := consumer.Close(); err != nil {
		log.Error("error closing kafka consumer", slog.String("error", err.Error()))
	}
	log.Info("journal stopped")
}
