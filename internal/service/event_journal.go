package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/asquebay/shop-orders/internal/model"
)

// EventJournal печатает события по заказам построчно
type EventJournal struct {
	w   io.Writer
	log *slog.Logger
}

// NewEventJournal создает журнал, пишущий в w
func NewEventJournal(w io.Writer, log *slog.Logger) *EventJournal {
	return &EventJournal{w: w, log: log}
}

// HandleOrderEvent выводит одну строку журнала
func (j *EventJournal) HandleOrderEvent(ctx context.Context, event model.OrderEvent) error {
	const op = "service.EventJournal.HandleOrderEvent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := fmt.Fprintf(j.w, "%s %s %s\n",
		event.OccurredAt.UTC().Format(time.RFC3339), event.Type, event.Order)
	if err != nil {
		return fmt.Errorf("%s: failed to write: %w", op, err)
	}

	j.log.Debug("event journaled", slog.String("op", op), slog.String("event_id", event.ID.String()))
	return nil
}
