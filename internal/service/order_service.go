package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/asquebay/shop-orders/internal/model"
)

// ErrNoChanges — пользователь ничего не поменял в заказе, запись в БД не выполнялась
var ErrNoChanges = errors.New("nothing changed")

// OrderService собирает заказ из выбранных пользователем товара и клиента
// и выполняет изменение и удаление заказов по id
type OrderService struct {
	products EntityResolver[model.Product]
	clients  EntityResolver[model.Client]
	repo     OrderRepository
	events   EventPublisher
	con      Console
	log      *slog.Logger
}

// NewOrderService создаёт новый экземпляр сервиса заказов
// если events равен nil, события никуда не публикуются
func NewOrderService(
	products EntityResolver[model.Product],
	clients EntityResolver[model.Client],
	repo OrderRepository,
	events EventPublisher,
	con Console,
	log *slog.Logger,
) *OrderService {
	if events == nil {
		events = nopPublisher{}
	}
	return &OrderService{
		products: products,
		clients:  clients,
		repo:     repo,
		events:   events,
		con:      con,
		log:      log,
	}
}

// CreateOrder: выбор товара -> выбор клиента -> запись заказа с amount = 1
// при отмене или ошибке на любом шаге в БД ничего не пишется
func (s *OrderService) CreateOrder(ctx context.Context) (model.Order, error) {
	const op = "service.OrderService.CreateOrder"
	log := s.log.With(slog.String("op", op))

	product, err := s.products.Resolve(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	client, err := s.clients.Resolve(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order := model.Order{
		ClientID:  client.ID,
		ProductID: product.ID,
		Amount:    1,
	}

	log.Info("attempting to create order", slog.Int64("client_id", order.ClientID), slog.Int64("product_id", order.ProductID))

	id, err := s.repo.InsertOrder(ctx, order)
	if err != nil {
		log.Error("failed to save order to repository", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	order.ID = id

	log.Info("order created", slog.Int64("order_id", id))
	s.publish(ctx, model.OrderCreated, order)

	return order, nil
}

// ModifyOrder даёт заново выбрать товар и клиента и поменять количество
func (s *OrderService) ModifyOrder(ctx context.Context) (model.Order, error) {
	const op = "service.OrderService.ModifyOrder"
	log := s.log.With(slog.String("op", op))

	current, err := s.pickOrder(ctx, "modify")
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	order := current.Order

	change, err := s.con.Confirm(ctx, "Change product? (y/n): ")
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if change {
		product, err := s.products.Resolve(ctx)
		if err != nil {
			return model.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		order.ProductID = product.ID
	}

	change, err = s.con.Confirm(ctx, "Change client? (y/n): ")
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if change {
		client, err := s.clients.Resolve(ctx)
		if err != nil {
			return model.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		order.ClientID = client.ID
	}

	order.Amount, err = s.readAmount(ctx, order)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if order == current.Order {
		log.Debug("order left unchanged", slog.Int64("order_id", order.ID))
		return order, fmt.Errorf("%s: %w", op, ErrNoChanges)
	}

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		log.Error("failed to update order", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	// возвращаем то, что реально лежит в БД
	stored, err := s.repo.GetOrderByID(ctx, order.ID)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order updated", slog.Int64("order_id", stored.ID))
	s.publish(ctx, model.OrderUpdated, stored)

	return stored, nil
}

// DeleteOrder удаляет заказ по id после подтверждения
func (s *OrderService) DeleteOrder(ctx context.Context) (model.Order, error) {
	const op = "service.OrderService.DeleteOrder"
	log := s.log.With(slog.String("op", op))

	current, err := s.pickOrder(ctx, "delete")
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.con.Confirm(ctx, "Delete this order? (y/n): ")
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return model.Order{}, fmt.Errorf("%s: %w", op, ErrCancelled)
	}

	if err := s.repo.DeleteOrder(ctx, current.ID); err != nil {
		log.Error("failed to delete order", slog.Int64("order_id", current.ID), slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order deleted", slog.Int64("order_id", current.ID))
	s.publish(ctx, model.OrderDeleted, current.Order)

	return current.Order, nil
}

// pickOrder читает id заказа (0 отменяет) и показывает найденный заказ
func (s *OrderService) pickOrder(ctx context.Context, action string) (model.OrderDetails, error) {
	id, err := s.con.ReadInt(ctx, fmt.Sprintf("Type ID of the order to %s or 0 to cancel: ", action))
	if err != nil {
		return model.OrderDetails{}, err
	}
	if id == 0 {
		return model.OrderDetails{}, ErrCancelled
	}

	details, err := s.repo.GetOrderDetails(ctx, id)
	if err != nil {
		return model.OrderDetails{}, err
	}

	s.con.Printf("%s\n", details)
	return details, nil
}

// readAmount спрашивает новое количество; пустой ввод оставляет текущее
func (s *OrderService) readAmount(ctx context.Context, order model.Order) (int64, error) {
	for {
		line, err := s.con.ReadLine(ctx, fmt.Sprintf("New amount (empty keeps %d): ", order.Amount))
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return order.Amount, nil
		}

		candidate := order
		candidate.Amount, err = strconv.ParseInt(line, 10, 64)
		if err == nil {
			err = candidate.Validate()
		}
		if err == nil {
			return candidate.Amount, nil
		}
		s.con.Printf("Amount must be a positive whole number.\n")
	}
}

// publish не прерывает сценарий: запись в БД уже выполнена
func (s *OrderService) publish(ctx context.Context, t model.OrderEventType, order model.Order) {
	event := model.NewOrderEvent(t, order)
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish order event",
			slog.String("type", string(t)),
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

// IsCancelled сообщает, что сценарий прерван пользователем, а не ошибкой
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }
