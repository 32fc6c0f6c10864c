package api

import (
	"context"
	"net/http"
	"strconv"

	"go-storefront/models"
)

// OrderAPI wraps /orders
type OrderAPI struct {
	c *Client
}

func NewOrderAPI(c *Client) *OrderAPI {
	return &OrderAPI{c: c}
}

// Place converts the current cart into an order
func (o *OrderAPI) Place(ctx context.Context) (*models.Order, error) {
	var order models.Order
	if err := o.c.Do(ctx, http.MethodPost, "/orders/place", nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *OrderAPI) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := o.c.Do(ctx, http.MethodGet, "/orders", nil, nil, &orders)
	return orders, err
}

func (o *OrderAPI) Get(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := o.c.Do(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(id, 10), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
