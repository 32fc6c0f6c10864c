package views

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/api"
	"go-storefront/models"
)

var lamp = models.Product{ID: 3, Name: "Lamp", Price: decimal.RequireFromString("19.99")}

func TestCatalogViewLoad(t *testing.T) {
	v := NewCatalogView(newFakeProducts(lamp))
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, []models.Product{lamp}, v.Products)
	assert.NoError(t, v.LoadErr)
}

func TestCatalogViewLoadFailureIsState(t *testing.T) {
	fp := newFakeProducts(lamp)
	fp.fail["list"] = &api.ServerError{Status: 500, Message: "db down"}
	v := NewCatalogView(fp)

	assert.Error(t, v.Load(context.Background()))
	assert.Error(t, v.LoadErr)
	assert.Empty(t, v.Products)
}

func TestAddToCartWhileSignedOutNeverCallsCart(t *testing.T) {
	fc := newFakeCart()
	v := NewProductDetailView(newFakeProducts(lamp), fc, identity{})
	require.NoError(t, v.Load(context.Background(), lamp.ID))

	err := v.AddToCart(context.Background(), 1)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Empty(t, fc.calls)
}

func TestAddToCartSignedIn(t *testing.T) {
	fc := newFakeCart()
	v := NewProductDetailView(newFakeProducts(lamp), fc, identity{user: &models.User{Email: "b@x.y", Role: models.RoleBuyer}})
	require.NoError(t, v.Load(context.Background(), lamp.ID))

	require.NoError(t, v.AddToCart(context.Background(), 2))
	assert.Equal(t, 1, fc.count("add"))
	assert.Equal(t, "Product added to cart successfully!", v.Notice)
	require.Len(t, fc.cart.Items, 1)
	assert.Equal(t, lamp.ID, fc.cart.Items[0].ProductID)
	assert.Equal(t, 2, fc.cart.Items[0].Quantity)
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	fc := newFakeCart()
	v := NewProductDetailView(newFakeProducts(lamp), fc, identity{user: &models.User{Role: models.RoleBuyer}})
	require.NoError(t, v.Load(context.Background(), lamp.ID))

	var ve *api.ValidationError
	assert.ErrorAs(t, v.AddToCart(context.Background(), 0), &ve)
	assert.Empty(t, fc.calls)
}

func TestAddToCartFailureSetsNotice(t *testing.T) {
	fc := newFakeCart()
	fc.fail["add"] = &api.ServerError{Status: 400, Message: "Out of stock"}
	v := NewProductDetailView(newFakeProducts(lamp), fc, identity{user: &models.User{Role: models.RoleBuyer}})
	require.NoError(t, v.Load(context.Background(), lamp.ID))

	assert.Error(t, v.AddToCart(context.Background(), 1))
	assert.Equal(t, "Failed to add product to cart", v.Notice)
}
