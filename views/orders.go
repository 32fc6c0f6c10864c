package views

import (
	"context"

	"github.com/sirupsen/logrus"

	"go-storefront/models"
)

// OrdersView lists the user's orders and places new ones
type OrdersView struct {
	lifecycle
	orders OrderService
	cart   CartService
	log    logrus.FieldLogger

	Orders  []models.Order
	Order   *models.Order
	LoadErr error
	Notice  string
}

func NewOrdersView(orders OrderService, cart CartService, log logrus.FieldLogger) *OrdersView {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrdersView{orders: orders, cart: cart, log: log}
}

func (v *OrdersView) Load(ctx context.Context) error {
	orders, err := v.orders.List(ctx)
	v.update(func() {
		if err != nil {
			v.LoadErr = err
			return
		}
		v.LoadErr = nil
		v.Orders = orders
	})
	return err
}

// LoadOrder fetches a single order for the detail page
func (v *OrdersView) LoadOrder(ctx context.Context, id int64) error {
	order, err := v.orders.Get(ctx, id)
	v.update(func() {
		if err != nil {
			v.LoadErr = err
			return
		}
		v.LoadErr = nil
		v.Order = order
	})
	return err
}

// PlaceOrder turns the cart into an order, re-fetches the list and then
// empties the cart. A failure to empty the cart is only logged.
func (v *OrdersView) PlaceOrder(ctx context.Context) (*models.Order, error) {
	order, err := v.orders.Place(ctx)
	if err != nil {
		v.update(func() { v.Notice = "Failed to place order. Make sure you have items in your cart." })
		return nil, err
	}
	v.update(func() { v.Notice = "Order placed successfully!" })

	if err := v.Load(ctx); err != nil {
		v.log.WithError(err).Warn("could not refresh orders after placing one")
	}
	if err := v.cart.Clear(ctx); err != nil {
		v.log.WithError(err).Warn("could not clear cart after order")
	}
	return order, nil
}
