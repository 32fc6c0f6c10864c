package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/api"
	"go-storefront/models"
	"go-storefront/views"
)

func TestLandingPage(t *testing.T) {
	assert.Equal(t, "/products", landingPage(models.RoleBuyer, ""))
	assert.Equal(t, "/seller", landingPage(models.RoleSeller, ""))
	assert.Equal(t, "/orders/2", landingPage(models.RoleBuyer, "/orders/2"))
	assert.Equal(t, "/products", landingPage(models.RoleBuyer, "https://evil.example"))
	assert.Equal(t, "/products", landingPage(models.RoleBuyer, "//evil.example"))
	assert.Equal(t, "/seller", landingPage(models.RoleSeller, "/login"))

	for _, next := range []string{"/\\evil.example", "/\\/evil.example", "\\\\evil.example", "/\tevil", "javascript:alert(1)", "products"} {
		assert.Equal(t, "/products", landingPage(models.RoleBuyer, next), next)
	}
	assert.Equal(t, "/cart?x=1", landingPage(models.RoleBuyer, "/cart?x=1"))
}

func TestFormatOrderDate(t *testing.T) {
	assert.Equal(t, "2024-05-01 10:30:00", formatOrderDate(models.Order{OrderDate: "2024-05-01T10:30:00.123456"}))
	assert.Equal(t, "yesterday", formatOrderDate(models.Order{OrderDate: "yesterday"}))
	assert.Equal(t, "", formatOrderDate(models.Order{}))
}

func TestRenderCartPage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	v := &views.CartView{Cart: &models.Cart{
		Items: []models.CartItem{
			{ID: 1, ProductName: "Mug", ProductPrice: decimal.NewFromInt(10), Quantity: 2},
			{ID: 2, ProductName: "Spoon", ProductPrice: decimal.NewFromInt(5), Quantity: 1},
		},
		TotalAmount: decimal.NewFromInt(25),
	}}
	rec := httptest.NewRecorder()
	(&CartController{Pages: pages}).render(rec, httptest.NewRequest(http.MethodGet, "/cart", nil), v)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "$20.00")
	assert.Contains(t, body, "$5.00")
	assert.Contains(t, body, "Total: $25.00")
	assert.Contains(t, body, `action="/cart/items/2/remove"`)
}

func TestRenderHTTPError(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	pages.handleAPIError(rec, httptest.NewRequest(http.MethodGet, "/products/9", nil), &api.ServerError{Status: 404, Message: "Product not found"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")

	rec = httptest.NewRecorder()
	pages.handleAPIError(rec, httptest.NewRequest(http.MethodGet, "/cart", nil), &api.AuthError{Message: "expired"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
