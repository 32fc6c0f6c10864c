package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// backend serializes LocalDateTime without a zone
const orderDateLayout = "2006-01-02T15:04:05.999999999"

// OrderItem is a frozen copy of a cart line at order time
type OrderItem struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// Order represents a placed order. Orders never change once created.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderDate   string          `json:"orderDate"`
	Items       []OrderItem     `json:"items"`
}

// PlacedAt parses OrderDate. ok is false when the backend sent nothing usable.
func (o Order) PlacedAt() (t time.Time, ok bool) {
	if o.OrderDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(orderDateLayout, o.OrderDate)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, o.OrderDate); err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}

// ItemCount sums quantities across lines
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
