package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/segmentio/kafka-go"
)

// messageWriter описывает часть kafka.Writer, которая нужна продюсеру
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события по заказам в топик Kafka
type Producer struct {
	writer messageWriter
	log    *slog.Logger
}

// NewProducer создает продюсер для указанных брокеров и топика
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}

	return &Producer{
		writer: writer,
		log:    log.With(slog.String("component", "kafka_producer")),
	}
}

// Publish отправляет одно событие; ключом служит id заказа, чтобы события
// одного заказа попадали в одну партицию и сохраняли порядок
func (p *Producer) Publish(ctx context.Context, event model.OrderEvent) error {
	const op = "transport.kafka.Producer.Publish"

	msg, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%s: failed to write message: %w", op, err)
	}

	p.log.Debug("order event published",
		slog.String("event_id", event.ID.String()),
		slog.String("type", string(event.Type)),
		slog.Int64("order_id", event.Order.ID),
	)
	return nil
}

// Close закрывает writer и дожидается отправки буфера
func (p *Producer) Close() error {
	p.log.Info("closing kafka producer")
	return p.writer.Close()
}

func encodeEvent(event model.OrderEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.Order.ID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}
