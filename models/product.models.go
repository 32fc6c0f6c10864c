package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. OrderCount is only filled on the seller's own listing.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	SellerID    int64           `json:"sellerId"`
	OrderCount  int64           `json:"orderCount"`
}

// ProductInput is the body of create and update calls
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// MarshalJSON sends price as a JSON number, the way the backend expects it
func (p ProductInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string      `json:"name"`
		Price       json.Number `json:"price"`
		Description string      `json:"description"`
		ImageURL    string      `json:"imageUrl"`
	}{
		Name:        p.Name,
		Price:       json.Number(p.Price.String()),
		Description: p.Description,
		ImageURL:    p.ImageURL,
	})
}
