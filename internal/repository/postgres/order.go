package postgres

import (
	"context"
	"fmt"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// OrderRepository инкапсулирует логику работы с заказами в БД
type OrderRepository struct {
	db DB
	sq squirrel.StatementBuilderType
}

// NewOrderRepository создает новый экземпляр репозитория
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InsertOrder сохраняет заказ и возвращает его id
// невалидный заказ (amount <= 0) до базы не доходит
func (r *OrderRepository) InsertOrder(ctx context.Context, order model.Order) (int64, error) {
	const op = "repository.postgres.order.InsertOrder"

	if err := order.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	sql, args, err := r.insertQuery(order)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, queryError(op, err)
	}
	return id, nil
}

// GetOrderByID извлекает заказ строго по id
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	const op = "repository.postgres.order.GetOrderByID"

	sql, args, err := r.sq.Select("id", "client_id", "product_id", "amount").
		From("orders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var o model.Order
	err = r.db.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.ClientID, &o.ProductID, &o.Amount)
	if err != nil {
		return model.Order{}, queryError(op, err)
	}
	return o, nil
}

// GetOrderDetails извлекает заказ вместе с именами клиента и товара
func (r *OrderRepository) GetOrderDetails(ctx context.Context, id int64) (model.OrderDetails, error) {
	const op = "repository.postgres.order.GetOrderDetails"

	sql, args, err := r.sq.Select(
		"o.id", "o.client_id", "o.product_id", "o.amount",
		"COALESCE(c.first_name, '')", "COALESCE(c.last_name, '')", "COALESCE(p.name, '')",
	).
		From("orders o").
		Join("clients c ON c.id = o.client_id").
		Join("products p ON p.id = o.product_id").
		Where(squirrel.Eq{"o.id": id}).
		ToSql()
	if err != nil {
		return model.OrderDetails{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	d, err := scanOrderDetails(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return model.OrderDetails{}, queryError(op, err)
	}
	return d, nil
}

// UpdateOrder перезаписывает клиента, товар и количество заказа
func (r *OrderRepository) UpdateOrder(ctx context.Context, order model.Order) error {
	const op = "repository.postgres.order.UpdateOrder"

	if err := order.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sql, args, err := r.sq.Update("orders").
		Set("client_id", order.ClientID).
		Set("product_id", order.ProductID).
		Set("amount", order.Amount).
		Where(squirrel.Eq{"id": order.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return queryError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteOrder удаляет заказ по id
func (r *OrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	const op = "repository.postgres.order.DeleteOrder"

	sql, args, err := r.sq.Delete("orders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return queryError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (r *OrderRepository) insertQuery(order model.Order) (string, []any, error) {
	return r.sq.Insert("orders").
		Columns("client_id", "product_id", "amount").
		Values(order.ClientID, order.ProductID, order.Amount).
		Suffix("RETURNING id").
		ToSql()
}

func scanOrderDetails(row pgx.Row) (model.OrderDetails, error) {
	var d model.OrderDetails
	err := row.Scan(
		&d.ID, &d.ClientID, &d.ProductID, &d.Amount,
		&d.Client.FirstName, &d.Client.LastName, &d.Product.Name,
	)
	d.Client.ID = d.ClientID
	d.Product.ID = d.ProductID
	return d, err
}
