package postgres

import (
	"context"
	"fmt"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// ProductRepository инкапсулирует чтение товаров из БД
type ProductRepository struct {
	db DB
	sq squirrel.StatementBuilderType
}

// NewProductRepository создает новый экземпляр репозитория
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Search ищет товары по точному id или подстроке в названии
func (r *ProductRepository) Search(ctx context.Context, c model.SearchCriteria) ([]model.Product, error) {
	const op = "repository.postgres.product.Search"

	sql, args, err := r.searchQuery(c)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build search query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryError(op, err)
	}

	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, queryError(op, err)
	}
	return products, nil
}

// FindByID извлекает товар строго по id
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	const op = "repository.postgres.product.FindByID"

	sql, args, err := r.sq.Select("id", "COALESCE(name, '')").
		From("products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Product{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	product, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return model.Product{}, queryError(op, err)
	}
	return product, nil
}

func (r *ProductRepository) searchQuery(c model.SearchCriteria) (string, []any, error) {
	return r.sq.Select("id", "COALESCE(name, '')").
		From("products").
		Where(squirrel.Or{
			squirrel.Eq{"id": c.ID},
			squirrel.Like{"name": contains(c.Primary)},
		}).
		OrderBy("id").
		ToSql()
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name)
	return p, err
}
