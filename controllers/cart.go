package controllers

import (
	"net/http"
	"strconv"

	"go-storefront/api"
	"go-storefront/views"
)

// CartController serves the cart page and its mutations
type CartController struct {
	Pages *Pages
}

// NewCartController creates a new CartController
func NewCartController(pages *Pages) *CartController {
	return &CartController{Pages: pages}
}

// GetCart renders the user's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	v := views.NewCartView(shopper(r).Cart)
	defer v.Unmount()

	if err := v.Load(r.Context()); err != nil {
		if isAuth(err) {
			cc.Pages.handleAPIError(w, r, err)
			return
		}
		logger(r).WithError(err).Warn("could not load cart")
	}
	cc.render(w, r, v)
}

// UpdateQuantity sets a cart line's quantity; zero or less removes it
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemId")
	if err != nil {
		cc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		cc.Pages.renderHTTPError(w, r, &api.ValidationError{Field: "quantity", Message: "Invalid quantity"}, http.StatusBadRequest)
		return
	}
	cc.mutate(w, r, func(v *views.CartView) error {
		return v.UpdateQuantity(r.Context(), id, quantity)
	})
}

// RemoveItem removes one line from the cart
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemId")
	if err != nil {
		cc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	cc.mutate(w, r, func(v *views.CartView) error {
		return v.Remove(r.Context(), id)
	})
}

// ClearCart empties the cart when the form carries confirm=yes
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	confirmed := r.FormValue("confirm") == "yes"
	cc.mutate(w, r, func(v *views.CartView) error {
		return v.Clear(r.Context(), confirmed)
	})
}

// mutate loads the cart, applies the change and renders what the server reports afterwards
func (cc *CartController) mutate(w http.ResponseWriter, r *http.Request, change func(v *views.CartView) error) {
	v := views.NewCartView(shopper(r).Cart)
	defer v.Unmount()

	if err := v.Load(r.Context()); err != nil && isAuth(err) {
		cc.Pages.handleAPIError(w, r, err)
		return
	}
	if err := change(v); err != nil {
		if isAuth(err) {
			cc.Pages.handleAPIError(w, r, err)
			return
		}
		logger(r).WithError(err).Warn("cart change failed")
	}
	cc.render(w, r, v)
}

func (cc *CartController) render(w http.ResponseWriter, r *http.Request, v *views.CartView) {
	cc.Pages.Render(w, r, "cart", map[string]interface{}{
		"cart":       v.Cart,
		"lines":      v.Lines(),
		"total":      v.Total(),
		"notice":     v.Notice,
		"load_error": v.ErrorMessage(),
	})
}

func isAuth(err error) bool {
	return api.IsAuthError(err)
}
