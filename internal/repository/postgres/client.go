package postgres

import (
	"context"
	"fmt"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var clientColumns = []string{"id", "COALESCE(first_name, '')", "COALESCE(last_name, '')"}

// ClientRepository инкапсулирует чтение клиентов из БД
type ClientRepository struct {
	db DB
	sq squirrel.StatementBuilderType
}

// NewClientRepository создает новый экземпляр репозитория
func NewClientRepository(db DB) *ClientRepository {
	return &ClientRepository{
		db: db,
		// использую плейсхолдеры в стиле PostgreSQL ($1, $2, $3,...)
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Search ищет клиентов: id совпадает точно ИЛИ имя/фамилия содержат подстроку
// пустой результат не считается ошибкой
func (r *ClientRepository) Search(ctx context.Context, c model.SearchCriteria) ([]model.Client, error) {
	const op = "repository.postgres.client.Search"

	sql, args, err := r.searchQuery(c)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build search query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryError(op, err)
	}

	clients, err := collect(rows, scanClient)
	if err != nil {
		return nil, queryError(op, err)
	}
	return clients, nil
}

// FindByID извлекает клиента строго по id
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (model.Client, error) {
	const op = "repository.postgres.client.FindByID"

	sql, args, err := r.sq.Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Client{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	client, err := scanClient(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return model.Client{}, queryError(op, err)
	}
	return client, nil
}

func (r *ClientRepository) searchQuery(c model.SearchCriteria) (string, []any, error) {
	return r.sq.Select(clientColumns...).
		From("clients").
		Where(squirrel.Or{
			squirrel.Eq{"id": c.ID},
			squirrel.Like{"first_name": contains(c.Primary)},
			squirrel.Like{"last_name": contains(c.Secondary)},
		}).
		OrderBy("id").
		ToSql()
}

func scanClient(row pgx.Row) (model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName)
	return c, err
}

// contains строит шаблон LIKE; сам текст уходит параметром, а не в текст запроса
func contains(term string) string {
	return "%" + term + "%"
}
