package cache

import (
	"sync"

	"github.com/asquebay/shop-orders/internal/model"
)

// EntityCache хранит в памяти строки, которые в этом инструменте не меняются
// (клиенты и товары), ключом служит id строки
type EntityCache[T model.Entity] struct {
	storage sync.Map
}

// NewEntityCache создаёт новый экземпляр кэша
func NewEntityCache[T model.Entity]() *EntityCache[T] {
	return &EntityCache[T]{}
}

// Set добавляет или обновляет строку в кэше
func (c *EntityCache[T]) Set(entity T) {
	c.storage.Store(entity.Key(), entity)
}

// Get извлекает строку из кэша по id
// возвращает строку и true, если она найдена, иначе пустое значение и false
func (c *EntityCache[T]) Get(id int64) (T, bool) {
	value, ok := c.storage.Load(id)
	if !ok {
		var zero T
		return zero, false
	}

	entity, ok := value.(T)
	return entity, ok
}

// LoadAll загружает в кэш срез строк
func (c *EntityCache[T]) LoadAll(entities []T) {
	for _, e := range entities {
		c.Set(e)
	}
}

// Len возвращает количество строк в кэше
func (c *EntityCache[T]) Len() int {
	n := 0
	c.storage.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
