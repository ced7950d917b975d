package model

import (
	"fmt"
	"strings"
)

// Client — строка таблицы clients
// в рамках этого инструмента клиенты не изменяются
type Client struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c Client) Key() int64 { return c.ID }

// FullName склеивает имя и фамилию, пропуская пустые части
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c Client) String() string {
	return fmt.Sprintf("Client ID: %d, Name: %s", c.ID, c.FullName())
}
