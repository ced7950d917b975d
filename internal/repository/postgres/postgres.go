package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/asquebay/shop-orders/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB описывает то, что репозиториям нужно от соединения; *pgxpool.Pool подходит
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New создает пул соединений с PostgreSQL и проверяет, что база доступна на запись
// любая ошибка здесь оборачивает ErrConnection, приложение после неё завершается
func New(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	const op = "repository.postgres.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: failed to parse pgx config: %w", op, ErrConnection, err)
	}

	// однопользовательский инструмент: по умолчанию ровно одно соединение
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: failed to create connection pool: %w", op, ErrConnection, err)
	}

	if err := Check(ctx, dbpool); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dbpool, nil
}

// Check выполняет тестовый запрос и убеждается, что сессия не read-only
// (hot standby или роль с default_transaction_read_only)
func Check(ctx context.Context, db DB) error {
	const op = "repository.postgres.postgres.Check"

	var one int
	if err := db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("%s: %w: test query failed: %w", op, ErrConnection, err)
	}

	var readOnly string
	if err := db.QueryRow(ctx, "SHOW transaction_read_only").Scan(&readOnly); err != nil {
		return fmt.Errorf("%s: %w: failed to check read-only mode: %w", op, ErrConnection, err)
	}
	if readOnly != "off" {
		return fmt.Errorf("%s: %w: %w", op, ErrConnection, ErrReadOnly)
	}

	return nil
}

// collect читает все строки и закрывает rows на любом пути выхода
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
}
