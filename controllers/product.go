package controllers

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"go-storefront/api"
	"go-storefront/middleware"
	"go-storefront/views"
)

// ProductController serves the public catalog
type ProductController struct {
	Pages *Pages
}

// NewProductController creates a new ProductController
func NewProductController(pages *Pages) *ProductController {
	return &ProductController{Pages: pages}
}

// GetProducts lists the catalog
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	v := views.NewCatalogView(shopper(r).Products)
	defer v.Unmount()

	if err := v.Load(r.Context()); err != nil {
		if isAuth(err) {
			pc.Pages.handleAPIError(w, r, err)
			return
		}
		logger(r).WithError(err).Warn("could not load products")
	}
	pc.Pages.Render(w, r, "products", map[string]interface{}{
		"products": v.Products,
		"error":    v.LoadErr != nil,
	})
}

// GetProductByID renders a product page
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	sh := shopper(r)
	v := views.NewProductDetailView(sh.Products, sh.Cart, sh.Session)
	defer v.Unmount()

	if err := v.Load(r.Context(), id); err != nil {
		pc.Pages.handleAPIError(w, r, err)
		return
	}
	pc.Pages.Render(w, r, "product", map[string]interface{}{"product": v.Product})
}

// AddToCart adds the product to the cart; anonymous visitors go to login first
func (pc *ProductController) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		pc.Pages.renderHTTPError(w, r, &api.ValidationError{Field: "quantity", Message: "Invalid quantity"}, http.StatusBadRequest)
		return
	}

	sh := shopper(r)
	if _, ok := sh.Session.CurrentUser(); !ok {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}

	v := views.NewProductDetailView(sh.Products, sh.Cart, sh.Session)
	defer v.Unmount()
	if err := v.Load(r.Context(), id); err != nil {
		pc.Pages.handleAPIError(w, r, err)
		return
	}

	err = v.AddToCart(r.Context(), quantity)
	switch {
	case errors.Is(err, views.ErrLoginRequired):
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	case err != nil:
		logger(r).WithError(err).WithField("product", id).Warn("add to cart failed")
		if isAuth(err) {
			http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
			return
		}
	}
	pc.Pages.Render(w, r, "product", map[string]interface{}{
		"product": v.Product,
		"notice":  v.Notice,
	})
}
