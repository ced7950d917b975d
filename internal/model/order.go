package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation: заказ не прошёл проверку (например, amount <= 0)
var ErrValidation = errors.New("validation failed")

// Order — строка таблицы orders, центральная таблица фактов
// client_id и product_id проверяются на существование самим хранилищем (FK)
type Order struct {
	ID        int64 `json:"id"`
	ClientID  int64 `json:"client_id" validate:"gt=0"`
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Amount    int64 `json:"amount" validate:"gt=0"`
}

// OrderDetails содержит заказ вместе с именами клиента и товара, для показа в консоли
type OrderDetails struct {
	Order
	Client  Client
	Product Product
}

var validate = validator.New()

// Validate проверяет корректность структуры Order на основе тегов validate
func (o *Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

func (o Order) String() string {
	return fmt.Sprintf("Order ID: %d, Client ID: %d, Product ID: %d, Amount: %d", o.ID, o.ClientID, o.ProductID, o.Amount)
}

func (d OrderDetails) String() string {
	return fmt.Sprintf("Order ID: %d, Client: %s (ID %d), Product: %s (ID %d), Amount: %d",
		d.ID, d.Client.FullName(), d.ClientID, d.Product.Name, d.ProductID, d.Amount)
}
