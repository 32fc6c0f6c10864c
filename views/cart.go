package views

import (
	"context"

	"go-storefront/api"
	"go-storefront/models"
	"go-storefront/utils"
)

// CartLine is one row as the cart page shows it
type CartLine struct {
	Item      models.CartItem
	UnitPrice string
	LineTotal string
}

// CartView keeps the displayed cart in step with the server: every successful
// mutation is followed by exactly one fetch, and nothing is applied locally.
type CartView struct {
	lifecycle
	cart CartService

	Cart    *models.Cart
	Loading bool
	LoadErr error
	Notice  string
}

func NewCartView(cart CartService) *CartView {
	return &CartView{cart: cart, Loading: true}
}

// Load fetches the cart. A failure keeps whatever was shown before.
func (v *CartView) Load(ctx context.Context) error {
	cart, err := v.cart.Get(ctx)
	v.update(func() {
		v.Loading = false
		if err != nil {
			v.LoadErr = err
			return
		}
		v.LoadErr = nil
		v.Cart = cart
	})
	return err
}

// Add puts quantity units of a product in the cart
func (v *CartView) Add(ctx context.Context, productID int64, quantity int) error {
	return v.mutate(ctx, "Failed to add product to cart", func() error {
		_, err := v.cart.Add(ctx, productID, quantity)
		return err
	})
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line; the
// backend never sees a non-positive update.
func (v *CartView) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	if quantity <= 0 {
		return v.Remove(ctx, cartItemID)
	}
	return v.mutate(ctx, "Failed to update item quantity", func() error {
		_, err := v.cart.UpdateItem(ctx, cartItemID, quantity)
		return err
	})
}

func (v *CartView) Remove(ctx context.Context, cartItemID int64) error {
	return v.mutate(ctx, "Failed to remove item from cart", func() error {
		return v.cart.RemoveItem(ctx, cartItemID)
	})
}

// Clear empties the cart once the user has confirmed
func (v *CartView) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return v.mutate(ctx, "Failed to clear cart", func() error {
		return v.cart.Clear(ctx)
	})
}

func (v *CartView) mutate(ctx context.Context, notice string, call func() error) error {
	if err := call(); err != nil {
		v.update(func() { v.Notice = notice })
		return err
	}
	v.update(func() { v.Notice = "" })
	return v.Load(ctx)
}

// Lines returns the rows to display. Line totals are recomputed for display
// with missing values counted as zero.
func (v *CartView) Lines() []CartLine {
	if v.Cart.IsEmpty() {
		return nil
	}
	lines := make([]CartLine, 0, len(v.Cart.Items))
	for _, it := range v.Cart.Items {
		lines = append(lines, CartLine{
			Item:      it,
			UnitPrice: utils.FormatMoney(it.ProductPrice),
			LineTotal: utils.FormatMoney(it.LineTotal()),
		})
	}
	return lines
}

// Total is the server's total, never a local sum
func (v *CartView) Total() string {
	if v.Cart == nil {
		return "0.00"
	}
	return utils.FormatMoney(v.Cart.TotalAmount)
}

// ErrorMessage is the text for the error state, if any
func (v *CartView) ErrorMessage() string {
	if v.LoadErr == nil {
		return ""
	}
	return "Failed to load cart"
}

// Detail is the backend's explanation of the last load failure
func (v *CartView) Detail() string {
	return api.Message(v.LoadErr)
}
