package controllers

import (
	"net/http"

	"go-storefront/utils"
	"go-storefront/views"
)

// OrderController serves the buyer's order history and checkout
type OrderController struct {
	Pages    *Pages
	Receipts *utils.ReceiptService
}

// NewOrderController creates a new OrderController. receipts may be nil.
func NewOrderController(pages *Pages, receipts *utils.ReceiptService) *OrderController {
	return &OrderController{Pages: pages, Receipts: receipts}
}

// GetOrders lists the user's orders
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	sh := shopper(r)
	v := views.NewOrdersView(sh.Orders, sh.Cart, logger(r))
	defer v.Unmount()

	if err := v.Load(r.Context()); err != nil {
		if isAuth(err) {
			oc.Pages.handleAPIError(w, r, err)
			return
		}
		logger(r).WithError(err).Warn("could not load orders")
	}
	oc.render(w, r, v)
}

// PlaceOrder checks out the current cart
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sh := shopper(r)
	v := views.NewOrdersView(sh.Orders, sh.Cart, logger(r))
	defer v.Unmount()

	order, err := v.PlaceOrder(r.Context())
	if err != nil {
		if isAuth(err) {
			oc.Pages.handleAPIError(w, r, err)
			return
		}
		logger(r).WithError(err).Warn("place order failed")
		if lerr := v.Load(r.Context()); lerr != nil {
			logger(r).WithError(lerr).Warn("could not load orders")
		}
		oc.render(w, r, v)
		return
	}

	if u, ok := sh.Session.CurrentUser(); ok && order != nil {
		if err := oc.Receipts.SendOrderReceipt(u.Email, *order); err != nil {
			logger(r).WithError(err).WithField("order", order.ID).Warn("could not send receipt")
		}
	}
	oc.render(w, r, v)
}

// GetOrderByID renders one order
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		oc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	sh := shopper(r)
	v := views.NewOrdersView(sh.Orders, sh.Cart, logger(r))
	defer v.Unmount()

	if err := v.LoadOrder(r.Context(), id); err != nil {
		oc.Pages.handleAPIError(w, r, err)
		return
	}
	oc.Pages.Render(w, r, "order", map[string]interface{}{"order": *v.Order})
}

func (oc *OrderController) render(w http.ResponseWriter, r *http.Request, v *views.OrdersView) {
	oc.Pages.Render(w, r, "orders", map[string]interface{}{
		"orders": v.Orders,
		"notice": v.Notice,
		"error":  v.LoadErr != nil,
	})
}
