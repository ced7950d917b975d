package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/asquebay/shop-orders/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func orderLine(c model.Client, orderID int64, p model.Product, amount, count int64) model.ClientOrderLine {
	return model.ClientOrderLine{Client: c, OrderID: orderID, Product: p, Amount: amount, OrderCount: count}
}

func TestGroupedByClientEmpty(t *testing.T) {
	svc := NewReportService(&fakeReports{}, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.GroupedByClient(context.Background(), &buf))
	require.Equal(t, "No orders found.\n", buf.String())
}

func TestGroupedByClient(t *testing.T) {
	repo := &fakeReports{byClient: []model.ClientOrderLine{
		orderLine(anna, 1, milk, 2, 0),
		orderLine(anna, 4, tea, 1, 0),
		orderLine(bo, 2, oatMilk, 3, 0),
	}}
	svc := NewReportService(repo, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.GroupedByClient(context.Background(), &buf))

	want := `
Client ID: 7, Name: Anna Berg
  Order ID: 1, Product: Milk (ID 3), Amount: 2
  Order ID: 4, Product: Green tea (ID 12), Amount: 1
  Orders: 2

Client ID: 9, Name: Bo Annasdotter
  Order ID: 2, Product: Oat milk (ID 8), Amount: 3
  Orders: 1
`
	require.Equal(t, want, buf.String())
}

func TestGroupedByClientOneBlockPerGroupKey(t *testing.T) {
	// клиент встречается в двух несмежных блоках, значит и заголовков будет два:
	// группировка опирается только на порядок строк
	repo := &fakeReports{byClient: []model.ClientOrderLine{
		orderLine(anna, 1, milk, 1, 0),
		orderLine(bo, 2, milk, 1, 0),
		orderLine(bo, 3, milk, 1, 0),
		orderLine(anna, 5, milk, 1, 0),
	}}
	svc := NewReportService(repo, "", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.GroupedByClient(context.Background(), &buf))
	require.Equal(t, 3, strings.Count(buf.String(), "  Orders: "))
	require.Equal(t, 2, strings.Count(buf.String(), "Client ID: 7"))
}

func TestByOrderCount(t *testing.T) {
	repo := &fakeReports{byCount: []model.ClientOrderLine{
		orderLine(bo, 2, milk, 1, 2),
		orderLine(bo, 3, tea, 5, 2),
		orderLine(anna, 1, milk, 2, 1),
	}}
	svc := NewReportService(repo, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.ByOrderCount(context.Background(), &buf))

	out := buf.String()
	require.Contains(t, out, "Client ID: 9, Name: Bo Annasdotter, Orders: 2\n")
	require.Contains(t, out, "Client ID: 7, Name: Anna Berg, Orders: 1\n")
	require.Equal(t, 1, strings.Count(out, "Client ID: 9"))
	require.True(t, strings.HasSuffix(out, "\nTotal orders: 3\n"))
}

func TestCheapestOfferPerOrder(t *testing.T) {
	repo := &fakeReports{offers: []model.CheapestOfferLine{
		{Client: anna, OrderID: 1, Product: milk, Amount: 2, ShopID: 1, ShopName: "Corner", Price: dec("1.20")},
		{Client: anna, OrderID: 1, Product: milk, Amount: 2, ShopID: 3, ShopName: "Market", Price: dec("1.20")},
		{Client: anna, OrderID: 4, Product: tea, Amount: 1, ShopID: 2, ShopName: "Deli", Price: dec("3.05")},
		{Client: bo, OrderID: 2, Product: oatMilk, Amount: 3, ShopID: 1, ShopName: "Corner", Price: dec("2.00")},
	}}
	svc := NewReportService(repo, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.CheapestOfferPerOrder(context.Background(), &buf))

	want := `
Client ID: 7, Name: Anna Berg
  Order ID: 1, Product: Milk (ID 3), Amount: 2
    Shop: Corner (ID 1), Price: 1.20 EUR
    Shop: Market (ID 3), Price: 1.20 EUR
    Cheapest total: 2.40 EUR
  Order ID: 4, Product: Green tea (ID 12), Amount: 1
    Shop: Deli (ID 2), Price: 3.05 EUR
    Cheapest total: 3.05 EUR
  Client cheapest total: 5.45 EUR

Client ID: 9, Name: Bo Annasdotter
  Order ID: 2, Product: Oat milk (ID 8), Amount: 3
    Shop: Corner (ID 1), Price: 2.00 EUR
    Cheapest total: 6.00 EUR
  Client cheapest total: 6.00 EUR
`
	require.Equal(t, want, buf.String())
}

func TestCheapestOfferSameOrderIDAcrossClients(t *testing.T) {
	// смена клиента закрывает заказ, даже если id заказа совпал
	repo := &fakeReports{offers: []model.CheapestOfferLine{
		{Client: anna, OrderID: 1, Product: milk, Amount: 1, ShopID: 1, ShopName: "Corner", Price: dec("1")},
		{Client: bo, OrderID: 1, Product: milk, Amount: 1, ShopID: 1, ShopName: "Corner", Price: dec("1")},
	}}
	svc := NewReportService(repo, "", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.CheapestOfferPerOrder(context.Background(), &buf))
	require.Equal(t, 2, strings.Count(buf.String(), "  Order ID: 1"))
	require.Equal(t, 2, strings.Count(buf.String(), "Cheapest total: 1.00\n"))
}

func shopLine(c model.Client, shopID int64, name, total string) model.ShopTotalLine {
	return model.ShopTotalLine{Client: c, ShopID: shopID, ShopName: name, Total: dec(total)}
}

func TestSummarizeShops(t *testing.T) {
	lines := []model.ShopTotalLine{
		shopLine(anna, 1, "Corner", "10.00"),
		shopLine(anna, 2, "Deli", "7.50"),
		shopLine(anna, 3, "Market", "12.25"),
		shopLine(anna, 4, "Outlet", "7.50"),
		shopLine(bo, 1, "Corner", "4.00"),
	}

	var got []model.ShopSummary
	summarizeShops(lines, func(s model.ShopSummary) { got = append(got, s) })

	require.Len(t, got, 2)

	require.Equal(t, anna, got[0].Client)
	require.Equal(t, int64(2), got[0].Best.ShopID)
	require.Equal(t, int64(3), got[0].Worst.ShopID)
	require.True(t, dec("4.75").Equal(got[0].Savings))

	// один магазин: лучший и худший совпадают, экономии нет
	require.Equal(t, int64(1), got[1].Best.ShopID)
	require.Equal(t, int64(1), got[1].Worst.ShopID)
	require.True(t, got[1].Savings.IsZero())
}

func TestSummarizeShopsTiesKeepFirstSeen(t *testing.T) {
	lines := []model.ShopTotalLine{
		shopLine(anna, 5, "First", "3.00"),
		shopLine(anna, 2, "Second", "3.00"),
		shopLine(anna, 9, "Third", "3.00"),
	}

	var got []model.ShopSummary
	summarizeShops(lines, func(s model.ShopSummary) { got = append(got, s) })

	require.Len(t, got, 1)
	require.Equal(t, int64(5), got[0].Best.ShopID)
	require.Equal(t, int64(5), got[0].Worst.ShopID)
}

func TestSummarizeShopsEmpty(t *testing.T) {
	called := false
	summarizeShops(nil, func(model.ShopSummary) { called = true })
	require.False(t, called)
}

func TestSummarizeShopsSavingsIsMaxMinusMin(t *testing.T) {
	totals := []string{"9.10", "3.30", "17.00", "3.30", "11.45", "17.00"}
	lines := make([]model.ShopTotalLine, 0, len(totals))
	for i, total := range totals {
		lines = append(lines, shopLine(bo, int64(i+1), "shop", total))
	}

	var got model.ShopSummary
	summarizeShops(lines, func(s model.ShopSummary) { got = s })

	require.True(t, dec("13.70").Equal(got.Savings))
	require.Equal(t, int64(2), got.Best.ShopID)
	require.Equal(t, int64(3), got.Worst.ShopID)
}

func TestCheapestShopPerClient(t *testing.T) {
	repo := &fakeReports{totals: []model.ShopTotalLine{
		shopLine(anna, 1, "Corner", "10.00"),
		shopLine(anna, 2, "Deli", "7.50"),
	}}
	svc := NewReportService(repo, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.CheapestShopPerClient(context.Background(), &buf))
	require.Equal(t, "Client ID: 7, Name: Anna Berg\n  Cheapest shop: Deli (ID 2), Total: 7.50 EUR\n", buf.String())
}

func TestPotentialSavings(t *testing.T) {
	repo := &fakeReports{totals: []model.ShopTotalLine{
		shopLine(anna, 1, "Corner", "10.00"),
		shopLine(anna, 2, "Deli", "7.50"),
		shopLine(bo, 1, "Corner", "4.00"),
		shopLine(bo, 3, "Market", "5.00"),
	}}
	svc := NewReportService(repo, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.PotentialSavings(context.Background(), &buf))

	out := buf.String()
	require.Contains(t, out, "  Best shop: Deli (ID 2), Total: 7.50 EUR\n  Worst shop: Corner (ID 1), Total: 10.00 EUR\n  Potential savings: 2.50 EUR\n")
	require.Contains(t, out, "  Potential savings: 1.00 EUR\n")
	require.True(t, strings.HasSuffix(out, "\nTotal potential savings: 3.50 EUR\n"))
}

func TestShopReportsEmpty(t *testing.T) {
	svc := NewReportService(&fakeReports{}, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.PotentialSavings(context.Background(), &buf))
	require.NoError(t, svc.CheapestShopPerClient(context.Background(), &buf))
	require.Equal(t, strings.Repeat("No shop offers cover any client's orders.\n", 2), buf.String())
}

func TestReportStoreErrorPrintsNothing(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewReportService(&fakeReports{err: storeErr}, "EUR", discardLogger())
	ctx := context.Background()

	var buf bytes.Buffer
	require.ErrorIs(t, svc.GroupedByClient(ctx, &buf), storeErr)
	require.ErrorIs(t, svc.ByOrderCount(ctx, &buf), storeErr)
	require.ErrorIs(t, svc.CheapestOfferPerOrder(ctx, &buf), storeErr)
	require.ErrorIs(t, svc.CheapestShopPerClient(ctx, &buf), storeErr)
	require.ErrorIs(t, svc.PotentialSavings(ctx, &buf), storeErr)
	require.Empty(t, buf.String())
}

func TestShopReportsOmitClientsWithoutCoveringShop(t *testing.T) {
	// для bo ни один магазин не покрывает все заказы, хранилище не вернуло по нему строк
	repo := &fakeReports{totals: []model.ShopTotalLine{
		shopLine(anna, 1, "Corner", "10.00"),
		shopLine(anna, 2, "Deli", "7.50"),
	}}
	svc := NewReportService(repo, "EUR", discardLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.CheapestShopPerClient(context.Background(), &buf))
	require.NoError(t, svc.PotentialSavings(context.Background(), &buf))

	out := buf.String()
	require.Equal(t, 2, strings.Count(out, "Client ID: 7"))
	require.NotContains(t, out, "Client ID: 9")
	require.True(t, strings.HasSuffix(out, "\nTotal potential savings: 2.50 EUR\n"))
}
