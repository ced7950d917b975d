package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/asquebay/shop-orders/internal/model"
	"github.com/asquebay/shop-orders/internal/repository/postgres"
	"github.com/asquebay/shop-orders/internal/service"
)

// OrderWorkflow определяет сценарии изменения заказов
type OrderWorkflow interface {
	CreateOrder(ctx context.Context) (model.Order, error)
	ModifyOrder(ctx context.Context) (model.Order, error)
	DeleteOrder(ctx context.Context) (model.Order, error)
}

// Reporter определяет отчёты, которые печатаются в переданный writer
type Reporter interface {
	GroupedByClient(ctx context.Context, w io.Writer) error
	ByOrderCount(ctx context.Context, w io.Writer) error
	CheapestOfferPerOrder(ctx context.Context, w io.Writer) error
	CheapestShopPerClient(ctx context.Context, w io.Writer) error
	PotentialSavings(ctx context.Context, w io.Writer) error
}

type menuItem struct {
	title  string
	action func(ctx context.Context) error
}

// Handler обрабатывает пункты меню
type Handler struct {
	con     *Console
	orders  OrderWorkflow
	reports Reporter
	log     *slog.Logger
	items   []menuItem
}

// NewHandler создает новый экземпляр Handler
func NewHandler(con *Console, orders OrderWorkflow, reports Reporter, log *slog.Logger) *Handler {
	h := &Handler{
		con:     con,
		orders:  orders,
		reports: reports,
		log:     log,
	}
	h.registerItems()
	return h
}

// registerItems регистрирует пункты меню; номер пункта равен индексу + 1
func (h *Handler) registerItems() {
	h.items = []menuItem{
		{"Create order", h.createOrder},
		{"Modify order", h.modifyOrder},
		{"Delete order", h.deleteOrder},
		{"Print orders grouped by clients", h.report(h.reports.GroupedByClient)},
		{"Print clients by order count", h.report(h.reports.ByOrderCount)},
		{"Print clients' orders with cheapest offer", h.report(h.reports.CheapestOfferPerOrder)},
		{"Find cheapest shop per client", h.cheapestShops},
	}
}

// Run крутит цикл меню, пока пользователь не выберет 0, не закроется ввод
// или не отменится контекст (SIGINT/SIGTERM); ошибки отдельных пунктов
// печатаются и не прерывают цикл
func (h *Handler) Run(ctx context.Context) error {
	log := h.log.With(slog.String("component", "console"))
	log.Info("console started")

	for {
		option, err := h.selectOption(ctx)
		if err != nil {
			if stopped(ctx, err) {
				h.con.Printf("\n")
				log.Info("console interrupted", slog.String("reason", err.Error()))
				return nil
			}
			return err
		}

		if option == 0 {
			h.con.Printf("\n==========================================================\n")
			h.con.Printf("                        E X I T I N G                     \n")
			h.con.Printf("==========================================================\n\n")
			log.Info("console stopped")
			return nil
		}

		item := h.items[option-1]
		log.Debug("menu option selected", slog.Int("option", option), slog.String("title", item.title))

		err = item.action(ctx)
		if err != nil && stopped(ctx, err) {
			h.con.Printf("\n")
			log.Info("console interrupted", slog.String("action", item.title), slog.String("reason", err.Error()))
			return nil
		}
		if err != nil {
			h.printError(item.title, err)
		}
	}
}

// stopped сообщает, что цикл нужно закончить без ошибки: ввод закрыт или контекст отменён
func stopped(ctx context.Context, err error) bool {
	return errors.Is(err, io.EOF) || ctx.Err() != nil
}

func (h *Handler) displayMenu() {
	h.con.Printf("\n\nMenu:\n")
	for i, item := range h.items {
		h.con.Printf("%d. %s\n", i+1, item.title)
	}
	h.con.Printf("0. Exit\n")
}

// selectOption печатает меню и переспрашивает, пока номер не окажется в диапазоне
func (h *Handler) selectOption(ctx context.Context) (int, error) {
	h.displayMenu()

	maxOption := int64(len(h.items))
	for {
		option, err := h.con.ReadInt(ctx, fmt.Sprintf("  Select an option (0-%d): ", maxOption))
		if err != nil {
			return 0, err
		}
		if option >= 0 && option <= maxOption {
			return int(option), nil
		}
		h.con.Printf("  Invalid option. Please select a number between 0 and %d.\n", maxOption)
	}
}

func (h *Handler) createOrder(ctx context.Context) error {
	order, err := h.orders.CreateOrder(ctx)
	if err != nil {
		return err
	}
	h.con.Printf("Order created with ID %d.\n", order.ID)
	return nil
}

func (h *Handler) modifyOrder(ctx context.Context) error {
	order, err := h.orders.ModifyOrder(ctx)
	if errors.Is(err, service.ErrNoChanges) {
		h.con.Printf("Nothing changed.\n")
		return nil
	}
	if err != nil {
		return err
	}
	h.con.Printf("Order saved: %s\n", order)
	return nil
}

func (h *Handler) deleteOrder(ctx context.Context) error {
	order, err := h.orders.DeleteOrder(ctx)
	if err != nil {
		return err
	}
	h.con.Printf("Order %d deleted.\n", order.ID)
	return nil
}

func (h *Handler) report(run func(context.Context, io.Writer) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return run(ctx, h.con)
	}
}

// cheapestShops печатает лучший магазин и сразу возможную экономию
func (h *Handler) cheapestShops(ctx context.Context) error {
	if err := h.reports.CheapestShopPerClient(ctx, h.con); err != nil {
		return err
	}
	h.con.Printf("\n")
	return h.reports.PotentialSavings(ctx, h.con)
}

// printError выводит ошибку пункта меню; отмена пользователем ошибкой не считается
func (h *Handler) printError(title string, err error) {
	var qe *postgres.QueryError

	switch {
	case service.IsCancelled(err):
		h.con.Printf("%s: cancelled.\n", title)
	case errors.Is(err, model.ErrValidation):
		h.con.Printf("%s: invalid input: %s\n", title, err)
	case errors.Is(err, postgres.ErrNotFound):
		h.con.Printf("%s: not found.\n", title)
	case errors.As(err, &qe):
		h.con.Printf("%s failed: error %s - %s\n", title, qe.Code, qe.Message)
	default:
		h.con.Printf("%s failed: %s\n", title, err)
	}

	if !service.IsCancelled(err) {
		h.log.Error("menu action failed", slog.String("action", title), slog.String("error", err.Error()))
	}
}
