package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go-storefront/models"
)

// CartAPI wraps /cart. Quantities and product ids travel as query parameters.
type CartAPI struct {
	c *Client
}

func NewCartAPI(c *Client) *CartAPI {
	return &CartAPI{c: c}
}

func (a *CartAPI) Get(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := a.c.Do(ctx, http.MethodGet, "/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *CartAPI) Add(ctx context.Context, productID int64, quantity int) (*models.CartItem, error) {
	q := url.Values{
		"productId": {strconv.FormatInt(productID, 10)},
		"quantity":  {strconv.Itoa(quantity)},
	}
	var item models.CartItem
	if err := a.c.Do(ctx, http.MethodPost, "/cart/add", q, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (a *CartAPI) UpdateItem(ctx context.Context, cartItemID int64, quantity int) (*models.CartItem, error) {
	q := url.Values{"quantity": {strconv.Itoa(quantity)}}
	var item models.CartItem
	if err := a.c.Do(ctx, http.MethodPut, "/cart/update/"+strconv.FormatInt(cartItemID, 10), q, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (a *CartAPI) RemoveItem(ctx context.Context, cartItemID int64) error {
	var msg string
	return a.c.Do(ctx, http.MethodDelete, "/cart/remove/"+strconv.FormatInt(cartItemID, 10), nil, nil, &msg)
}

func (a *CartAPI) Clear(ctx context.Context) error {
	var msg string
	return a.c.Do(ctx, http.MethodDelete, "/cart/clear", nil, nil, &msg)
}
