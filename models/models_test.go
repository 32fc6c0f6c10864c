package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleSeller, ParseRole("SELLER"))
	assert.Equal(t, RoleSeller, ParseRole(" seller "))
	assert.Equal(t, RoleBuyer, ParseRole("USER"))
	assert.Equal(t, RoleBuyer, ParseRole(""))
	assert.True(t, RoleSeller.IsSeller())
	assert.False(t, RoleBuyer.IsSeller())
}

func TestCartDecodesMissingFieldsAsZero(t *testing.T) {
	var cart Cart
	require.NoError(t, json.Unmarshal([]byte(`{"userId":1,"items":[{"id":4,"productName":"Mug","quantity":2}]}`), &cart))
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.TotalAmount.IsZero())
	assert.True(t, cart.Items[0].LineTotal().IsZero())
}

func TestCartItemLineTotal(t *testing.T) {
	it := CartItem{ProductPrice: decimal.RequireFromString("10.10"), Quantity: 3}
	assert.Equal(t, "30.3", it.LineTotal().String())
	it.Quantity = -1
	assert.True(t, it.LineTotal().IsZero())
}

func TestCartIsEmpty(t *testing.T) {
	var nilCart *Cart
	assert.True(t, nilCart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
	assert.False(t, (&Cart{Items: []CartItem{{ID: 1}}}).IsEmpty())
}

func TestProductInputMarshal(t *testing.T) {
	b, err := json.Marshal(ProductInput{Name: "Lamp", Price: decimal.RequireFromString("19.99"), ImageURL: "http://img"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Lamp","price":19.99,"description":"","imageUrl":"http://img"}`, string(b))
}

func TestOrderPlacedAt(t *testing.T) {
	_, ok := Order{}.PlacedAt()
	assert.False(t, ok)

	ts, ok := Order{OrderDate: "2024-05-01T10:30:00.5"}.PlacedAt()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = Order{OrderDate: "2024-05-01T10:30:00Z"}.PlacedAt()
	assert.True(t, ok)

	assert.Equal(t, 3, Order{Items: []OrderItem{{Quantity: 1}, {Quantity: 2}}}.ItemCount())
}
