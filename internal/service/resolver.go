package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asquebay/shop-orders/internal/model"
	"github.com/asquebay/shop-orders/internal/repository/postgres"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCancelled — пользователь отменил выбор; это не сбой
var ErrCancelled = errors.New("cancelled by user")

// Resolver превращает частичное имя или id в одну строку из БД:
// поиск -> список -> выбор id -> (при промахе) поиск в БД по точному id
type Resolver[T model.Entity] struct {
	name   string
	title  string
	prompt string
	parse  func(string) model.SearchCriteria
	source Source[T]
	con    Console
	log    *slog.Logger
}

// NewProductResolver ищет товар по подстроке названия
func NewProductResolver(source Source[model.Product], con Console, log *slog.Logger) *Resolver[model.Product] {
	return &Resolver[model.Product]{
		name:   "product",
		title:  capitalize("product"),
		prompt: "Search for products by name: ",
		parse:  model.ParseProductQuery,
		source: source,
		con:    con,
		log:    log,
	}
}

// NewClientResolver ищет клиента по имени и/или фамилии
func NewClientResolver(source Source[model.Client], con Console, log *slog.Logger) *Resolver[model.Client] {
	return &Resolver[model.Client]{
		name:   "client",
		title:  capitalize("client"),
		prompt: "Enter name of client to search for (separate by space if searching for both first and last name):\n>> ",
		parse:  model.ParseClientQuery,
		source: source,
		con:    con,
		log:    log,
	}
}

// Resolve проводит пользователя через поиск и выбор
// возвращает копию выбранной строки, ErrCancelled при отмене или ошибку хранилища
func (r *Resolver[T]) Resolve(ctx context.Context) (T, error) {
	op := "service.Resolver.Resolve." + r.name
	log := r.log.With(slog.String("op", op))

	var zero T

	input, err := r.con.ReadLine(ctx, r.prompt)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	criteria := r.parse(input)
	matches, err := r.source.Search(ctx, criteria)
	if err != nil {
		log.Error("search failed", slog.String("query", input), slog.String("error", err.Error()))
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	log.Debug("search finished", slog.String("query", input), slog.Int("matches", len(matches)))

	var id int64
	if len(matches) == 0 {
		r.con.Printf("No %ss found matching '%s'.\n", r.name, input)
		id, err = r.con.ReadInt(ctx, fmt.Sprintf("Type ID of the %s to look up or 0 to cancel: ", r.name))
		if err != nil {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
		if id == 0 {
			return zero, r.cancel()
		}
	} else {
		r.con.Printf("Found %d %ss matching '%s':\n", len(matches), r.name, input)
		for _, m := range matches {
			r.con.Printf("%s\n", m)
		}

		id, err = r.con.ReadInt(ctx, fmt.Sprintf("Type ID of the %s you want to select or 0 to cancel: ", r.name))
		if err != nil {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
		if id == 0 {
			return zero, r.cancel()
		}

		// id сверяется только точно: в результатах могут быть строки,
		// найденные по тексту, и их id не имеют отношения к запросу
		for _, m := range matches {
			if m.Key() == id {
				r.con.Printf("Selected %s: %s\n", r.name, m)
				return m, nil
			}
		}
		r.con.Printf("%s with ID %d not found in the fetched %ss.\n", r.title, id, r.name)
	}

	return r.fallback(ctx, op, id)
}

// fallback ищет строку в БД строго по id после подтверждения пользователя
func (r *Resolver[T]) fallback(ctx context.Context, op string, id int64) (T, error) {
	var zero T

	ok, err := r.con.Confirm(ctx, fmt.Sprintf("Do you want to search the database for this %s? (y/n): ", r.name))
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return zero, r.cancel()
	}

	r.con.Printf("Searching for %s with ID %d in the database...\n", r.name, id)
	entity, err := r.source.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.con.Printf("No %s found with ID %d.\n", r.name, id)
			return zero, fmt.Errorf("%s: %w", op, ErrCancelled)
		}
		r.log.Error("lookup by id failed", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	r.con.Printf("Found %s: %s\n", r.name, entity)
	return entity, nil
}

func (r *Resolver[T]) cancel() error {
	r.con.Printf("%s selection cancelled.\n", r.title)
	return ErrCancelled
}

// capitalize переводит название сущности в заголовочный регистр для начала фразы
func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

// cachedSource запоминает строки для точечных запросов по id
// поиск всегда идёт в БД, но найденные строки прогревают кэш
type cachedSource[T model.Entity] struct {
	Source[T]
	cache EntityCache[T]
}

// WithCache оборачивает источник кэшем для FindByID
func WithCache[T model.Entity](source Source[T], cache EntityCache[T]) Source[T] {
	return &cachedSource[T]{Source: source, cache: cache}
}

func (s *cachedSource[T]) Search(ctx context.Context, c model.SearchCriteria) ([]T, error) {
	matches, err := s.Source.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	s.cache.LoadAll(matches)
	return matches, nil
}

func (s *cachedSource[T]) FindByID(ctx context.Context, id int64) (T, error) {
	if entity, ok := s.cache.Get(id); ok {
		return entity, nil
	}

	entity, err := s.Source.FindByID(ctx, id)
	if err != nil {
		return entity, err
	}
	s.cache.Set(entity)
	return entity, nil
}
