package views

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"go-storefront/api"
	"go-storefront/models"
)

// MinPrice is the smallest price the product form accepts
var MinPrice = decimal.New(1, -2)

// FormMode says what the product form is doing
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

// ProductForm is the raw form input, kept as typed by the seller
type ProductForm struct {
	Name        string
	Price       string
	Description string
	ImageURL    string
}

// ValidateProductForm checks the form before anything is sent. The backend
// still has the last word.
func ValidateProductForm(f ProductForm) (models.ProductInput, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return models.ProductInput{}, &api.ValidationError{Field: "name", Message: "Product name is required"}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.LessThan(MinPrice) {
		return models.ProductInput{}, &api.ValidationError{Field: "price", Message: "Price must be a valid number greater than 0.01"}
	}
	return models.ProductInput{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(f.Description),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}, nil
}

// SellerDashboard manages the signed-in seller's own products. Create and
// edit share one form; switching mode always starts from a clean form.
type SellerDashboard struct {
	lifecycle
	products ProductService

	Products  []models.Product
	LoadErr   error
	Notice    string
	Mode      FormMode
	EditingID int64
	Form      ProductForm
}

func NewSellerDashboard(products ProductService) *SellerDashboard {
	return &SellerDashboard{products: products}
}

func (v *SellerDashboard) Load(ctx context.Context) error {
	products, err := v.products.MyProducts(ctx)
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

// Find returns a product from the loaded listing
func (v *SellerDashboard) Find(id int64) (models.Product, bool) {
	for _, p := range v.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// StartCreate opens an empty form
func (v *SellerDashboard) StartCreate() {
	v.update(func() {
		v.Mode = FormCreate
		v.EditingID = 0
		v.Form = ProductForm{}
	})
}

// StartEdit opens the form filled from p
func (v *SellerDashboard) StartEdit(p models.Product) {
	v.update(func() {
		v.Mode = FormEdit
		v.EditingID = p.ID
		v.Form = ProductForm{
			Name:        p.Name,
			Price:       p.Price.String(),
			Description: p.Description,
			ImageURL:    p.ImageURL,
		}
	})
}

// Cancel closes the form and drops its contents
func (v *SellerDashboard) Cancel() {
	v.update(func() {
		v.Mode = FormClosed
		v.EditingID = 0
		v.Form = ProductForm{}
	})
}

// SetForm replaces the form input while keeping the mode
func (v *SellerDashboard) SetForm(f ProductForm) {
	v.update(func() { v.Form = f })
}

// Submit validates and sends the form, then re-fetches the listing.
// Server rejections end up verbatim in Notice.
func (v *SellerDashboard) Submit(ctx context.Context) error {
	if v.Mode == FormClosed {
		return &api.ValidationError{Message: "No product form is open"}
	}
	in, err := ValidateProductForm(v.Form)
	if err != nil {
		v.update(func() { v.Notice = api.Message(err) })
		return err
	}

	if v.Mode == FormEdit {
		_, err = v.products.Update(ctx, v.EditingID, in)
	} else {
		_, err = v.products.Create(ctx, in)
	}
	if err != nil {
		v.update(func() { v.Notice = api.Message(err) })
		return err
	}

	v.Cancel()
	v.update(func() { v.Notice = "" })
	return v.Load(ctx)
}

// Delete removes a product. Nothing is sent unless confirmed is true.
func (v *SellerDashboard) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := v.products.Delete(ctx, id); err != nil {
		v.update(func() { v.Notice = api.Message(err) })
		return err
	}
	v.update(func() { v.Notice = "Product deleted successfully!" })
	return v.Load(ctx)
}
