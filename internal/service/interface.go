package service

import (
	"context"

	"github.com/asquebay/shop-orders/internal/model"
)

// Source определяет контракт поиска и точечного чтения для Client и Product
type Source[T model.Entity] interface {
	Search(ctx context.Context, c model.SearchCriteria) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
}

// EntityCache определяет контракт кэша неизменяемых строк
type EntityCache[T model.Entity] interface {
	Get(id int64) (T, bool)
	Set(entity T)
	LoadAll(entities []T)
}

// EntityResolver превращает пользовательский ввод в конкретную строку
type EntityResolver[T model.Entity] interface {
	Resolve(ctx context.Context) (T, error)
}

// OrderRepository определяет контракт для хранилища заказов в БД
type OrderRepository interface {
	InsertOrder(ctx context.Context, order model.Order) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (model.Order, error)
	GetOrderDetails(ctx context.Context, id int64) (model.OrderDetails, error)
	UpdateOrder(ctx context.Context, order model.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// ReportRepository определяет контракт запросов для отчётов
// строки возвращаются в порядке, где каждая группа идёт подряд
type ReportRepository interface {
	OrdersByClient(ctx context.Context) ([]model.ClientOrderLine, error)
	OrdersByOrderCount(ctx context.Context) ([]model.ClientOrderLine, error)
	CheapestOffers(ctx context.Context) ([]model.CheapestOfferLine, error)
	ShopTotals(ctx context.Context) ([]model.ShopTotalLine, error)
}

// Console — построчный канал ввода-вывода
// ReadInt и Confirm сами переспрашивают при некорректном вводе,
// ошибку возвращают только при закрытом вводе или отмене контекста
type Console interface {
	Printf(format string, args ...any)
	ReadLine(ctx context.Context, prompt string) (string, error)
	ReadInt(ctx context.Context, prompt string) (int64, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// EventPublisher публикует события по заказам
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}
