package postgres

import (
	"context"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/jackc/pgx/v5"
)

// ORDER BY в каждом запросе отчёта обязателен:
// строки одного клиента (и одного заказа) должны идти подряд

const ordersByClientQuery = `
	SELECT
		c.id, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''),
		o.id, p.id, COALESCE(p.name, ''), o.amount
	FROM orders o
	JOIN clients c ON c.id = o.client_id
	JOIN products p ON p.id = o.product_id
	ORDER BY c.id, o.id
`

const ordersByOrderCountQuery = `
	SELECT
		c.id, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''),
		o.id, p.id, COALESCE(p.name, ''), o.amount,
		(SELECT COUNT(*) FROM orders oc WHERE oc.client_id = c.id) AS order_count
	FROM orders o
	JOIN clients c ON c.id = o.client_id
	JOIN products p ON p.id = o.product_id
	ORDER BY order_count DESC, c.id, o.id
`

const cheapestOffersQuery = `
	SELECT
		c.id, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''),
		o.id, p.id, COALESCE(p.name, ''), o.amount,
		s.id, COALESCE(s.name, ''), f.price
	FROM orders o
	JOIN clients c ON c.id = o.client_id
	JOIN products p ON p.id = o.product_id
	JOIN offers f ON f.product_id = o.product_id
	JOIN shops s ON s.id = f.shop_id
	WHERE f.price = (SELECT MIN(fm.price) FROM offers fm WHERE fm.product_id = o.product_id)
	ORDER BY c.id, o.id, s.id
`

// магазин учитывается, только если в нём есть все товары, которые заказывал клиент
const shopTotalsQuery = `
	SELECT
		c.id, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''),
		s.id, COALESCE(s.name, ''), SUM(f.price * o.amount) AS total
	FROM orders o
	JOIN clients c ON c.id = o.client_id
	JOIN offers f ON f.product_id = o.product_id
	JOIN shops s ON s.id = f.shop_id
	GROUP BY c.id, c.first_name, c.last_name, s.id, s.name
	HAVING COUNT(DISTINCT o.product_id) =
		(SELECT COUNT(DISTINCT oc.product_id) FROM orders oc WHERE oc.client_id = c.id)
	ORDER BY c.id, s.id
`

// ReportRepository выполняет запросы отчётов
type ReportRepository struct {
	db DB
}

// NewReportRepository создает новый экземпляр репозитория
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// OrdersByClient возвращает все заказы, упорядоченные по клиенту
func (r *ReportRepository) OrdersByClient(ctx context.Context) ([]model.ClientOrderLine, error) {
	const op = "repository.postgres.report.OrdersByClient"

	rows, err := r.db.Query(ctx, ordersByClientQuery)
	if err != nil {
		return nil, queryError(op, err)
	}

	lines, err := collect(rows, func(row pgx.Row) (model.ClientOrderLine, error) {
		var l model.ClientOrderLine
		err := row.Scan(
			&l.Client.ID, &l.Client.FirstName, &l.Client.LastName,
			&l.OrderID, &l.Product.ID, &l.Product.Name, &l.Amount,
		)
		return l, err
	})
	if err != nil {
		return nil, queryError(op, err)
	}
	return lines, nil
}

// OrdersByOrderCount возвращает заказы с количеством заказов клиента;
// клиенты с большим числом заказов идут первыми
func (r *ReportRepository) OrdersByOrderCount(ctx context.Context) ([]model.ClientOrderLine, error) {
	const op = "repository.postgres.report.OrdersByOrderCount"

	rows, err := r.db.Query(ctx, ordersByOrderCountQuery)
	if err != nil {
		return nil, queryError(op, err)
	}

	lines, err := collect(rows, func(row pgx.Row) (model.ClientOrderLine, error) {
		var l model.ClientOrderLine
		err := row.Scan(
			&l.Client.ID, &l.Client.FirstName, &l.Client.LastName,
			&l.OrderID, &l.Product.ID, &l.Product.Name, &l.Amount, &l.OrderCount,
		)
		return l, err
	})
	if err != nil {
		return nil, queryError(op, err)
	}
	return lines, nil
}

// CheapestOffers возвращает для каждого заказа предложения с минимальной ценой его товара
// при равных ценах у заказа будет несколько строк
func (r *ReportRepository) CheapestOffers(ctx context.Context) ([]model.CheapestOfferLine, error) {
	const op = "repository.postgres.report.CheapestOffers"

	rows, err := r.db.Query(ctx, cheapestOffersQuery)
	if err != nil {
		return nil, queryError(op, err)
	}

	lines, err := collect(rows, func(row pgx.Row) (model.CheapestOfferLine, error) {
		var l model.CheapestOfferLine
		err := row.Scan(
			&l.Client.ID, &l.Client.FirstName, &l.Client.LastName,
			&l.OrderID, &l.Product.ID, &l.Product.Name, &l.Amount,
			&l.ShopID, &l.ShopName, &l.Price,
		)
		return l, err
	})
	if err != nil {
		return nil, queryError(op, err)
	}
	return lines, nil
}

// ShopTotals возвращает сумму SUM(price*amount) по каждой паре (клиент, магазин)
func (r *ReportRepository) ShopTotals(ctx context.Context) ([]model.ShopTotalLine, error) {
	const op = "repository.postgres.report.ShopTotals"

	rows, err := r.db.Query(ctx, shopTotalsQuery)
	if err != nil {
		return nil, queryError(op, err)
	}

	lines, err := collect(rows, func(row pgx.Row) (model.ShopTotalLine, error) {
		var l model.ShopTotalLine
		err := row.Scan(
			&l.Client.ID, &l.Client.FirstName, &l.Client.LastName,
			&l.ShopID, &l.ShopName, &l.Total,
		)
		return l, err
	})
	if err != nil {
		return nil, queryError(op, err)
	}
	return lines, nil
}
