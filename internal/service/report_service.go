package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/shopspring/decimal"
)

// ReportService строит отчёты одним проходом по упорядоченным строкам
//
// каждый отчёт полагается на ORDER BY запроса: строки одного клиента идут подряд,
// поэтому граница группы проходит по строке, ключ которой отличается от предыдущей.
// итог группы выводится ровно один раз: на смене ключа и после цикла для последней группы
type ReportService struct {
	repo     ReportRepository
	currency string
	log      *slog.Logger
}

// NewReportService создаёт новый экземпляр сервиса отчётов
func NewReportService(repo ReportRepository, currency string, log *slog.Logger) *ReportService {
	return &ReportService{
		repo:     repo,
		currency: currency,
		log:      log,
	}
}

// GroupedByClient печатает все заказы, сгруппированные по клиентам
func (s *ReportService) GroupedByClient(ctx context.Context, w io.Writer) error {
	const op = "service.ReportService.GroupedByClient"

	lines, err := s.repo.OrdersByClient(ctx)
	if err != nil {
		s.log.Error("failed to load report", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(w, "No orders found.")
		return nil
	}

	var prevClientID int64
	var count int
	for i, l := range lines {
		if i == 0 || l.Client.ID != prevClientID {
			if i > 0 {
				fmt.Fprintf(w, "  Orders: %d\n", count)
			}
			fmt.Fprintf(w, "\n%s\n", l.Client)
			prevClientID = l.Client.ID
			count = 0
		}
		fmt.Fprintf(w, "  Order ID: %d, Product: %s (ID %d), Amount: %d\n", l.OrderID, l.Product.Name, l.Product.ID, l.Amount)
		count++
	}
	fmt.Fprintf(w, "  Orders: %d\n", count)

	return nil
}

// ByOrderCount печатает клиентов по убыванию количества заказов и общий итог
func (s *ReportService) ByOrderCount(ctx context.Context, w io.Writer) error {
	const op = "service.ReportService.ByOrderCount"

	lines, err := s.repo.OrdersByOrderCount(ctx)
	if err != nil {
		s.log.Error("failed to load report", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(w, "No orders found.")
		return nil
	}

	var prevClientID, total int64
	for i, l := range lines {
		if i == 0 || l.Client.ID != prevClientID {
			// количество уже посчитано подзапросом, берём его один раз на клиента
			fmt.Fprintf(w, "\n%s, Orders: %d\n", l.Client, l.OrderCount)
			total += l.OrderCount
			prevClientID = l.Client.ID
		}
		fmt.Fprintf(w, "  Order ID: %d, Product: %s (ID %d), Amount: %d\n", l.OrderID, l.Product.Name, l.Product.ID, l.Amount)
	}
	fmt.Fprintf(w, "\nTotal orders: %d\n", total)

	return nil
}

// CheapestOfferPerOrder печатает для каждого заказа магазины с минимальной ценой товара
func (s *ReportService) CheapestOfferPerOrder(ctx context.Context, w io.Writer) error {
	const op = "service.ReportService.CheapestOfferPerOrder"

	lines, err := s.repo.CheapestOffers(ctx)
	if err != nil {
		s.log.Error("failed to load report", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(w, "No offers found for any order.")
		return nil
	}

	var (
		prevClientID, prevOrderID int64
		orderTotal, clientTotal   decimal.Decimal
	)
	closeOrder := func() {
		fmt.Fprintf(w, "    Cheapest total: %s\n", s.money(orderTotal))
		clientTotal = clientTotal.Add(orderTotal)
	}
	closeClient := func() {
		fmt.Fprintf(w, "  Client cheapest total: %s\n", s.money(clientTotal))
	}

	for i, l := range lines {
		clientChanged := i == 0 || l.Client.ID != prevClientID
		if clientChanged {
			if i > 0 {
				closeOrder()
				closeClient()
			}
			fmt.Fprintf(w, "\n%s\n", l.Client)
			prevClientID = l.Client.ID
			clientTotal = decimal.Zero
		}

		if clientChanged || l.OrderID != prevOrderID {
			if !clientChanged {
				closeOrder()
			}
			fmt.Fprintf(w, "  Order ID: %d, Product: %s (ID %d), Amount: %d\n", l.OrderID, l.Product.Name, l.Product.ID, l.Amount)
			prevOrderID = l.OrderID
			// у всех строк заказа одна и та же минимальная цена
			orderTotal = l.Price.Mul(decimal.NewFromInt(l.Amount))
		}

		fmt.Fprintf(w, "    Shop: %s (ID %d), Price: %s\n", l.ShopName, l.ShopID, s.money(l.Price))
	}
	closeOrder()
	closeClient()

	return nil
}

// CheapestShopPerClient печатает для каждого клиента магазин, где все его заказы стоили бы меньше всего
func (s *ReportService) CheapestShopPerClient(ctx context.Context, w io.Writer) error {
	const op = "service.ReportService.CheapestShopPerClient"

	lines, err := s.repo.ShopTotals(ctx)
	if err != nil {
		s.log.Error("failed to load report", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(w, "No shop offers cover any client's orders.")
		return nil
	}

	summarizeShops(lines, func(sum model.ShopSummary) {
		fmt.Fprintf(w, "%s\n  Cheapest shop: %s (ID %d), Total: %s\n",
			sum.Client, sum.Best.ShopName, sum.Best.ShopID, s.money(sum.Best.Total))
	})

	return nil
}

// PotentialSavings печатает разницу между самым дорогим и самым дешёвым магазином для клиента
func (s *ReportService) PotentialSavings(ctx context.Context, w io.Writer) error {
	const op = "service.ReportService.PotentialSavings"

	lines, err := s.repo.ShopTotals(ctx)
	if err != nil {
		s.log.Error("failed to load report", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(w, "No shop offers cover any client's orders.")
		return nil
	}

	total := decimal.Zero
	summarizeShops(lines, func(sum model.ShopSummary) {
		fmt.Fprintf(w, "%s\n", sum.Client)
		fmt.Fprintf(w, "  Best shop: %s (ID %d), Total: %s\n", sum.Best.ShopName, sum.Best.ShopID, s.money(sum.Best.Total))
		fmt.Fprintf(w, "  Worst shop: %s (ID %d), Total: %s\n", sum.Worst.ShopName, sum.Worst.ShopID, s.money(sum.Worst.Total))
		fmt.Fprintf(w, "  Potential savings: %s\n", s.money(sum.Savings))
		total = total.Add(sum.Savings)
	})
	fmt.Fprintf(w, "\nTotal potential savings: %s\n", s.money(total))

	return nil
}

// summarizeShops проходит по строкам (клиент, магазин) один раз и
// отдаёт итог по клиенту при закрытии группы
// сравнения строгие: при равенстве остаётся строка, встреченная первой
func summarizeShops(lines []model.ShopTotalLine, emit func(model.ShopSummary)) {
	var cur model.ShopSummary
	flush := func() {
		cur.Savings = cur.Worst.Total.Sub(cur.Best.Total)
		emit(cur)
	}

	for i, l := range lines {
		choice := model.ShopChoice{ShopID: l.ShopID, ShopName: l.ShopName, Total: l.Total}

		if i == 0 || l.Client.ID != cur.Client.ID {
			if i > 0 {
				flush()
			}
			cur = model.ShopSummary{Client: l.Client, Best: choice, Worst: choice}
			continue
		}

		if l.Total.LessThan(cur.Best.Total) {
			cur.Best = choice
		}
		if l.Total.GreaterThan(cur.Worst.Total) {
			cur.Worst = choice
		}
	}

	if len(lines) > 0 {
		flush()
	}
}

func (s *ReportService) money(d decimal.Decimal) string {
	if s.currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + s.currency
}
