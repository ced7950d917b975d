package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound — точечный запрос не вернул ни одной строки
	// это не сбой запроса: поиск по подстроке в таком случае возвращает пустой срез
	ErrNotFound = errors.New("not found")
	// ErrConstraint: нарушено ограничение (FK, NOT NULL, CHECK, UNIQUE)
	ErrConstraint = errors.New("constraint violation")
	// ErrConnection: база недоступна при старте
	ErrConnection = errors.New("connection failed")
	// ErrReadOnly: база открыта только на чтение
	ErrReadOnly = errors.New("database is read-only")
)

// codeDriver используется для ошибок, которые пришли не от сервера
const codeDriver = "driver"

// QueryError — сбой подготовки или выполнения запроса
// Code содержит SQLSTATE, Message текст сервера; в консоль выводятся без изменений
type QueryError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Op, e.Code, e.Message)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is позволяет проверять errors.Is(err, ErrConstraint) по классу SQLSTATE 23
func (e *QueryError) Is(target error) bool {
	return target == ErrConstraint && strings.HasPrefix(e.Code, "23")
}

// queryError оборачивает ошибку драйвера; pgx.ErrNoRows становится ErrNotFound
func queryError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg += " (" + pgErr.Detail + ")"
		}
		return &QueryError{Op: op, Code: pgErr.Code, Message: msg, Err: err}
	}

	return &QueryError{Op: op, Code: codeDriver, Message: err.Error(), Err: err}
}
