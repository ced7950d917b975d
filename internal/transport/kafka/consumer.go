package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/segmentio/kafka-go"
)

// EventHandler — это интерфейс, который отделяет консьюмер
// от того, что делается с событием дальше
type EventHandler interface {
	HandleOrderEvent(ctx context.Context, event model.OrderEvent) error
}

// messageReader описывает часть kafka.Reader, которая нужна консьюмеру
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer читает события по заказам из Kafka
type Consumer struct {
	reader  messageReader
	handler EventHandler
	log     *slog.Logger
}

// NewConsumer создает новый экземпляр консьюмера
func NewConsumer(brokers []string, topic, groupID string, handler EventHandler, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		log:     log,
	}
}

// Run запускает цикл чтения сообщений, блокирует до отмены контекста или закрытия ридера
func (c *Consumer) Run(ctx context.Context) {
	log := c.log.With(slog.String("component", "kafka_consumer"))
	log.Info("kafka consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("context cancelled, stopping consumer")
				return
			}
			if errors.Is(err, io.EOF) {
				log.Info("kafka reader closed")
				return
			}
			log.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		log.Debug("received message",
			slog.String("topic", msg.Topic),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
		)

		if err := c.handleMessage(ctx, msg); err != nil {
			// не подтверждаем, Kafka отдаст сообщение снова
			log.Error("failed to handle message", slog.String("error", err.Error()))
			continue
		}

		// offset фиксируем только после успешной обработки
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// handleMessage разбирает одно сообщение; битые сообщения пропускаются без ошибки
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var event model.OrderEvent

	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Warn("failed to unmarshal message, skipping", slog.String("error", err.Error()))
		return nil
	}

	if err := event.Validate(); err != nil {
		c.log.Warn("event validation failed, skipping",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
		)
		return nil
	}

	if err := c.handler.HandleOrderEvent(ctx, event); err != nil {
		return err
	}

	c.log.Debug("event processed", slog.String("event_id", event.ID.String()))
	return nil
}

// Close закрывает ридер
func (c *Consumer) Close() error {
	c.log.Info("closing kafka consumer")
	return c.reader.Close()
}
