package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/asquebay/shop-orders/internal/model"
	"github.com/asquebay/shop-orders/internal/repository/postgres"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedConsole отдаёт заранее заданные строки ввода и копит вывод
type scriptedConsole struct {
	input []string
	out   bytes.Buffer
}

func newConsole(lines ...string) *scriptedConsole {
	return &scriptedConsole{input: lines}
}

func (c *scriptedConsole) Printf(format string, args ...any) {
	fmt.Fprintf(&c.out, format, args...)
}

func (c *scriptedConsole) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.out.WriteString(prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.input) == 0 {
		return "", io.EOF
	}
	line := c.input[0]
	c.input = c.input[1:]
	return line, nil
}

func (c *scriptedConsole) ReadInt(ctx context.Context, prompt string) (int64, error) {
	for {
		line, err := c.ReadLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			return n, nil
		}
	}
}

func (c *scriptedConsole) Confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		line, err := c.ReadLine(ctx, prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (c *scriptedConsole) Output() string { return c.out.String() }

// fakeSource возвращает заданные результаты поиска и ищет по id в all
type fakeSource[T model.Entity] struct {
	results   []T
	all       map[int64]T
	searchErr error
	findErr   error

	criteria []model.SearchCriteria
	finds    []int64
}

func (f *fakeSource[T]) Search(_ context.Context, c model.SearchCriteria) ([]T, error) {
	f.criteria = append(f.criteria, c)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeSource[T]) FindByID(_ context.Context, id int64) (T, error) {
	f.finds = append(f.finds, id)
	var zero T
	if f.findErr != nil {
		return zero, f.findErr
	}
	e, ok := f.all[id]
	if !ok {
		return zero, fmt.Errorf("fake.FindByID: %w", postgres.ErrNotFound)
	}
	return e, nil
}

// stubResolver возвращает заданную строку или ошибку
type stubResolver[T model.Entity] struct {
	value T
	err   error
	calls int
}

func (s *stubResolver[T]) Resolve(context.Context) (T, error) {
	s.calls++
	return s.value, s.err
}

// fakeOrders: in-memory хранилище заказов, считает записи
type fakeOrders struct {
	rows    map[int64]model.Order
	clients map[int64]model.Client
	nextID  int64
	writes  int

	insertErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{rows: map[int64]model.Order{}, clients: map[int64]model.Client{}}
}

func (f *fakeOrders) InsertOrder(_ context.Context, o model.Order) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if err := o.Validate(); err != nil {
		return 0, err
	}
	f.writes++
	f.nextID++
	o.ID = f.nextID
	f.rows[o.ID] = o
	return o.ID, nil
}

func (f *fakeOrders) GetOrderByID(_ context.Context, id int64) (model.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return model.Order{}, postgres.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) GetOrderDetails(ctx context.Context, id int64) (model.OrderDetails, error) {
	o, err := f.GetOrderByID(ctx, id)
	if err != nil {
		return model.OrderDetails{}, err
	}
	return model.OrderDetails{
		Order:   o,
		Client:  f.clients[o.ClientID],
		Product: model.Product{ID: o.ProductID, Name: "product"},
	}, nil
}

func (f *fakeOrders) UpdateOrder(_ context.Context, o model.Order) error {
	if _, ok := f.rows[o.ID]; !ok {
		return postgres.ErrNotFound
	}
	f.writes++
	f.rows[o.ID] = o
	return nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return postgres.ErrNotFound
	}
	f.writes++
	delete(f.rows, id)
	return nil
}

type recordingPublisher struct {
	events []model.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e model.OrderEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type fakeReports struct {
	byClient []model.ClientOrderLine
	byCount  []model.ClientOrderLine
	offers   []model.CheapestOfferLine
	totals   []model.ShopTotalLine
	err      error
}

func (f *fakeReports) OrdersByClient(context.Context) ([]model.ClientOrderLine, error) {
	return f.byClient, f.err
}

func (f *fakeReports) OrdersByOrderCount(context.Context) ([]model.ClientOrderLine, error) {
	return f.byCount, f.err
}

func (f *fakeReports) CheapestOffers(context.Context) ([]model.CheapestOfferLine, error) {
	return f.offers, f.err
}

func (f *fakeReports) ShopTotals(context.Context) ([]model.ShopTotalLine, error) {
	return f.totals, f.err
}
