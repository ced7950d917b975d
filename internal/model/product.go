package model

import "fmt"

// Product — строка таблицы products
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (p Product) Key() int64 { return p.ID }

func (p Product) String() string {
	return fmt.Sprintf("Product ID: %d, Name: %s", p.ID, p.Name)
}
