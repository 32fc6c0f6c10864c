package controllers

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go-storefront/api"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/session"
	"go-storefront/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages renders the storefront templates
type Pages struct {
	templates *template.Template
}

// NewPages parses the embedded templates
func NewPages() (*Pages, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"money": utils.FormatMoney,
		"date":  formatOrderDate,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Pages{templates: t}, nil
}

// Render executes the named page with the common header data added
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	p.RenderStatus(w, r, http.StatusOK, name, data)
}

func (p *Pages) RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.templates.ExecuteTemplate(w, name, injectCommonTemplateData(r, data)); err != nil {
		middleware.Logger(r.Context()).WithError(err).Error("template failed")
	}
}

// renderHTTPError shows the error page
func (p *Pages) renderHTTPError(w http.ResponseWriter, r *http.Request, err error, code int) {
	log := middleware.Logger(r.Context())
	log.WithField("error", err).WithField("status", code).Error("request error")
	p.RenderStatus(w, r, code, "error", map[string]interface{}{
		"error":       api.Message(err),
		"status_code": code,
		"status":      http.StatusText(code),
	})
}

// handleAPIError sends an expired session to the login page and renders the rest
func (p *Pages) handleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	if api.IsAuthError(err) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}
	code := http.StatusBadGateway
	if api.IsNotFound(err) {
		code = http.StatusNotFound
	}
	p.renderHTTPError(w, r, err, code)
}

func injectCommonTemplateData(r *http.Request, payload map[string]interface{}) map[string]interface{} {
	data := map[string]interface{}{
		"user":      nil,
		"is_seller": false,
	}
	if sh := middleware.ShopperFromContext(r.Context()); sh != nil {
		if u, ok := sh.Session.CurrentUser(); ok {
			data["user"] = u
			data["is_seller"] = u.Role.IsSeller()
		}
	}
	for k, v := range payload {
		data[k] = v
	}
	return data
}

// shopper returns the request's shopper; the router always installs one
func shopper(r *http.Request) *session.Shopper {
	return middleware.ShopperFromContext(r.Context())
}

func logger(r *http.Request) logrus.FieldLogger {
	return middleware.Logger(r.Context())
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, &api.ValidationError{Field: name, Message: "Invalid " + name}
	}
	return id, nil
}

func formatOrderDate(o models.Order) string {
	t, ok := o.PlacedAt()
	if !ok {
		return o.OrderDate
	}
	return t.Format(time.DateTime)
}
