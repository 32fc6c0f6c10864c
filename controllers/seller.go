package controllers

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"go-storefront/middleware"
	"go-storefront/views"
)

// SellerController serves the seller dashboard
type SellerController struct {
	Pages *Pages
}

// NewSellerController creates a new SellerController
func NewSellerController(pages *Pages) *SellerController {
	return &SellerController{Pages: pages}
}

// Dashboard lists the seller's products. ?new=1 opens an empty form, ?edit=<id> fills it from a product.
func (sc *SellerController) Dashboard(w http.ResponseWriter, r *http.Request) {
	v := views.NewSellerDashboard(shopper(r).Products)
	defer v.Unmount()

	if !sc.load(w, r, v) {
		return
	}
	q := r.URL.Query()
	if q.Get("new") != "" {
		v.StartCreate()
	} else if raw := q.Get("edit"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if p, ok := v.Find(id); ok {
				v.StartEdit(p)
			}
		}
	}
	sc.render(w, r, v, http.StatusOK)
}

// CreateProduct submits the create form
func (sc *SellerController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	v := views.NewSellerDashboard(shopper(r).Products)
	defer v.Unmount()

	v.StartCreate()
	sc.submit(w, r, v)
}

// UpdateProduct submits the edit form for one product
func (sc *SellerController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	v := views.NewSellerDashboard(shopper(r).Products)
	defer v.Unmount()

	if !sc.load(w, r, v) {
		return
	}
	p, ok := v.Find(id)
	if !ok {
		sc.Pages.renderHTTPError(w, r, errors.New("product not found"), http.StatusNotFound)
		return
	}
	v.StartEdit(p)
	sc.submit(w, r, v)
}

// DeleteProduct removes a product when the form carries confirm=yes
func (sc *SellerController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sc.Pages.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	v := views.NewSellerDashboard(shopper(r).Products)
	defer v.Unmount()

	err = v.Delete(r.Context(), id, r.FormValue("confirm") == "yes")
	switch {
	case errors.Is(err, views.ErrNotConfirmed):
		http.Redirect(w, r, middleware.SellerPath, http.StatusSeeOther)
		return
	case isAuth(err):
		sc.Pages.handleAPIError(w, r, err)
		return
	case err != nil:
		logger(r).WithError(err).WithField("product", id).Warn("delete product failed")
		if !sc.load(w, r, v) {
			return
		}
	}
	sc.render(w, r, v, http.StatusOK)
}

func (sc *SellerController) submit(w http.ResponseWriter, r *http.Request, v *views.SellerDashboard) {
	v.SetForm(views.ProductForm{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("imageUrl"),
	})
	if err := v.Submit(r.Context()); err != nil {
		if isAuth(err) {
			sc.Pages.handleAPIError(w, r, err)
			return
		}
		logger(r).WithError(err).Warn("product form rejected")
		if v.Products == nil {
			if lerr := v.Load(r.Context()); lerr != nil {
				logger(r).WithError(lerr).Warn("could not load seller products")
			}
		}
		sc.render(w, r, v, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, middleware.SellerPath, http.StatusSeeOther)
}

// load fetches the listing; it reports false once it has written a response
func (sc *SellerController) load(w http.ResponseWriter, r *http.Request, v *views.SellerDashboard) bool {
	if err := v.Load(r.Context()); err != nil {
		if isAuth(err) {
			sc.Pages.handleAPIError(w, r, err)
			return false
		}
		logger(r).WithError(err).Warn("could not load seller products")
	}
	return true
}

func (sc *SellerController) render(w http.ResponseWriter, r *http.Request, v *views.SellerDashboard, status int) {
	sc.Pages.RenderStatus(w, r, status, "seller", map[string]interface{}{
		"products":   v.Products,
		"notice":     v.Notice,
		"error":      v.LoadErr != nil,
		"form_open":  v.Mode != views.FormClosed,
		"editing":    v.Mode == views.FormEdit,
		"editing_id": v.EditingID,
		"form":       v.Form,
	})
}
