package views

import (
	"context"

	"github.com/pkg/errors"

	"go-storefront/api"
	"go-storefront/models"
)

// CatalogView lists every product
type CatalogView struct {
	lifecycle
	products ProductService

	Products []models.Product
	LoadErr  error
}

func NewCatalogView(products ProductService) *CatalogView {
	return &CatalogView{products: products}
}

func (v *CatalogView) Load(ctx context.Context) error {
	products, err := v.products.List(ctx)
	v.update(func() {
		if err != nil {
			v.LoadErr = err
			return
		}
		v.LoadErr = nil
		v.Products = products
	})
	return err
}

// ProductDetailView shows one product and lets a buyer add it to the cart
type ProductDetailView struct {
	lifecycle
	products ProductService
	cart     CartService
	session  Identity

	Product *models.Product
	LoadErr error
	Notice  string
}

func NewProductDetailView(products ProductService, cart CartService, session Identity) *ProductDetailView {
	return &ProductDetailView{products: products, cart: cart, session: session}
}

func (v *ProductDetailView) Load(ctx context.Context, id int64) error {
	p, err := v.products.Get(ctx, id)
	v.update(func() {
		if err != nil {
			v.LoadErr = err
			return
		}
		v.LoadErr = nil
		v.Product = p
	})
	return err
}

// AddToCart adds quantity of the loaded product. Without a signed-in user it
// returns ErrLoginRequired and the cart endpoint is not called.
func (v *ProductDetailView) AddToCart(ctx context.Context, quantity int) error {
	if _, ok := v.session.CurrentUser(); !ok {
		return ErrLoginRequired
	}
	if v.Product == nil {
		return errors.New("no product loaded")
	}
	if quantity < 1 {
		err := &api.ValidationError{Field: "quantity", Message: "Quantity must be at least 1"}
		v.update(func() { v.Notice = err.Message })
		return err
	}
	if _, err := v.cart.Add(ctx, v.Product.ID, quantity); err != nil {
		v.update(func() { v.Notice = "Failed to add product to cart" })
		return err
	}
	v.update(func() { v.Notice = "Product added to cart successfully!" })
	return nil
}
