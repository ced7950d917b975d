package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/asquebay/shop-orders/internal/config"
	"github.com/asquebay/shop-orders/internal/lib/logger"
	"github.com/asquebay/shop-orders/internal/model"
	"github.com/asquebay/shop-orders/internal/repository/cache"
	"github.com/asquebay/shop-orders/internal/repository/postgres"
	"github.com/asquebay/shop-orders/internal/service"
	"github.com/asquebay/shop-orders/internal/transport/console"
	"github.com/asquebay/shop-orders/internal/transport/kafka"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Инициализация конфигурации
	cfg := config.MustLoad(config.Path)

	// 2. Инициализация логгера; stdout занят меню, поэтому логи в файл или stderr
	logOut, closeLog, err := logger.Output(cfg.Logger.File)
	if err != nil {
		slog.Error("failed to open log file", slog.String("error", err.Error()))
		return 1
	}
	defer closeLog()

	log := logger.New(cfg.Logger.Level, logOut)
	log.Info("starting shop-orders", slog.String("log_level", cfg.Logger.Level))

	// SIGINT/SIGTERM прерывают ожидание ввода и текущий запрос, меню завершается штатно
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Инициализация репозитория (БД); без базы на запись работать нельзя
	dbpool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Stderr.WriteString("Error opening database: " + err.Error() + "\n")
		return 1
	}
	defer dbpool.Close()
	log.Info("successfully connected to postgres")

	clientRepo := postgres.NewClientRepository(dbpool)
	productRepo := postgres.NewProductRepository(dbpool)
	orderRepo := postgres.NewOrderRepository(dbpool)
	reportRepo := postgres.NewReportRepository(dbpool)

	// 4. Публикация событий по заказам (если заданы брокеры)
	var events service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error("error closing kafka producer", slog.String("error", err.Error()))
			}
		}()
		events = producer
		log.Info("order events enabled", slog.String("topic", cfg.Kafka.Topic))
	}

	// 5. Инициализация сервисного слоя
	con := console.New(os.Stdin, os.Stdout)

	productCache := cache.NewEntityCache[model.Product]()
	clientCache := cache.NewEntityCache[model.Client]()

	products := service.NewProductResolver(service.WithCache[model.Product](productRepo, productCache), con, log)
	clients := service.NewClientResolver(service.WithCache[model.Client](clientRepo, clientCache), con, log)
	orderSvc := service.NewOrderService(products, clients, orderRepo, events, con, log)
	reportSvc := service.NewReportService(reportRepo, cfg.Reports.Currency, log)

	// 6. Меню
	con.Printf("Database opened successfully in read/write mode.\n")
	handler := console.NewHandler(con, orderSvc, reportSvc, log)
	if err := handler.Run(ctx); err != nil {
		log.Error("console stopped with error", slog.String("error", err.Error()))
		return 1
	}

	log.Info("application stopped",
		slog.Int("cached_products", productCache.Len()),
		slog.Int("cached_clients", clientCache.Len()),
	)
	return 0
}
