package models

import "github.com/shopspring/decimal"

// CartItem is one line of the server-side cart
type CartItem struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// LineTotal is the display value of the line. Missing fields count as zero.
// The server's TotalPrice stays the authoritative figure.
func (ci CartItem) LineTotal() decimal.Decimal {
	if ci.Quantity <= 0 {
		return decimal.Zero
	}
	return ci.ProductPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart represents a user's shopping cart as reported by the backend
type Cart struct {
	UserID      int64           `json:"userId"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// IsEmpty reports whether there is nothing to show
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
