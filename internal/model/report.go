package model

import "github.com/shopspring/decimal"

// строки отчётов; порядок строк задаёт ORDER BY запроса,
// строки одного клиента (и одного заказа) идут подряд

// ClientOrderLine: один заказ клиента
// OrderCount заполняется только в отчёте по количеству заказов
type ClientOrderLine struct {
	Client     Client
	OrderID    int64
	Product    Product
	Amount     int64
	OrderCount int64
}

// CheapestOfferLine: заказ и одно из самых дешёвых предложений по его товару
type CheapestOfferLine struct {
	Client   Client
	OrderID  int64
	Product  Product
	Amount   int64
	ShopID   int64
	ShopName string
	Price    decimal.Decimal
}

// ShopTotalLine — сколько клиент заплатил бы за все свои заказы в одном магазине
type ShopTotalLine struct {
	Client   Client
	ShopID   int64
	ShopName string
	Total    decimal.Decimal
}

// ShopChoice: магазин и сумма по нему
type ShopChoice struct {
	ShopID   int64
	ShopName string
	Total    decimal.Decimal
}

// ShopSummary — итог по одному клиенту: лучший и худший магазин
type ShopSummary struct {
	Client  Client
	Best    ShopChoice
	Worst   ShopChoice
	Savings decimal.Decimal
}
