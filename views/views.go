// Package views holds the state behind each storefront page. A view is
// mounted per page visit, fetches what it shows, and re-fetches after every
// mutation instead of patching its copy locally. Once unmounted, late
// responses are dropped.
package views

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go-storefront/models"
)

// ErrLoginRequired is returned by actions that need a signed-in user
var ErrLoginRequired = errors.New("login required")

// ErrNotConfirmed is returned when a destructive action was not confirmed
var ErrNotConfirmed = errors.New("action not confirmed")

// Identity is the read side of the session a view needs
type Identity interface {
	CurrentUser() (models.User, bool)
}

// CartService is the cart resource client
type CartService interface {
	Get(ctx context.Context) (*models.Cart, error)
	Add(ctx context.Context, productID int64, quantity int) (*models.CartItem, error)
	UpdateItem(ctx context.Context, cartItemID int64, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, cartItemID int64) error
	Clear(ctx context.Context) error
}

// ProductService is the product resource client
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	MyProducts(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// OrderService is the order resource client
type OrderService interface {
	Place(ctx context.Context) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
}

// lifecycle guards view state against updates after unmount
type lifecycle struct {
	mu   sync.Mutex
	gone bool
}

// Unmount detaches the view; responses still in flight are ignored
func (l *lifecycle) Unmount() {
	l.mu.Lock()
	l.gone = true
	l.mu.Unlock()
}

// update runs fn under the view lock unless the view is gone
func (l *lifecycle) update(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gone {
		return false
	}
	fn()
	return true
}
