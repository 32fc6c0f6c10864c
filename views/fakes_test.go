package views

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"go-storefront/models"
)

// fakeCart is an in-memory cart backend that records every call
type fakeCart struct {
	mu    sync.Mutex
	calls []string
	cart  models.Cart
	fail  map[string]error
	// total is what the server reports, independent of the items
	total func(models.Cart) decimal.Decimal
	// beforeGet runs before Get answers
	beforeGet func()
}

func newFakeCart(items ...models.CartItem) *fakeCart {
	return &fakeCart{cart: models.Cart{UserID: 1, Items: items}, fail: map[string]error{}}
}

func (f *fakeCart) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeCart) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeCart) Get(context.Context) (*models.Cart, error) {
	if f.beforeGet != nil {
		f.beforeGet()
	}
	if err := f.record("get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cart
	c.Items = append([]models.CartItem(nil), f.cart.Items...)
	if f.total != nil {
		c.TotalAmount = f.total(c)
	}
	return &c, nil
}

func (f *fakeCart) Add(_ context.Context, productID int64, quantity int) (*models.CartItem, error) {
	if err := f.record("add"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	item := models.CartItem{ID: int64(len(f.cart.Items) + 100), ProductID: productID, Quantity: quantity}
	f.cart.Items = append(f.cart.Items, item)
	return &item, nil
}

func (f *fakeCart) UpdateItem(_ context.Context, id int64, quantity int) (*models.CartItem, error) {
	if err := f.record("update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart.Items {
		if f.cart.Items[i].ID == id {
			f.cart.Items[i].Quantity = quantity
			it := f.cart.Items[i]
			return &it, nil
		}
	}
	return nil, nil
}

func (f *fakeCart) RemoveItem(_ context.Context, id int64) error {
	if err := f.record("remove"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.cart.Items[:0]
	for _, it := range f.cart.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	f.cart.Items = kept
	return nil
}

func (f *fakeCart) Clear(context.Context) error {
	if err := f.record("clear"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart.Items = nil
	return nil
}

// fakeProducts serves a fixed catalog and a seller listing
type fakeProducts struct {
	mu       sync.Mutex
	products []models.Product
	calls    []string
	inputs   []models.ProductInput
	fail     map[string]error
	nextID   int64
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	return &fakeProducts{products: products, fail: map[string]error{}, nextID: 100}
}

func (f *fakeProducts) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	if err := f.record("get"); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, f.fail["missing"]
}

func (f *fakeProducts) MyProducts(context.Context) ([]models.Product, error) {
	if err := f.record("mine"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeProducts) Create(_ context.Context, in models.ProductInput) (*models.Product, error) {
	if err := f.record("create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	f.nextID++
	p := models.Product{ID: f.nextID, Name: in.Name, Price: in.Price, Description: in.Description, ImageURL: in.ImageURL}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeProducts) Update(_ context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	if err := f.record("update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name = in.Name
			f.products[i].Price = in.Price
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

// fakeOrders places orders from nothing and lists what was placed
type fakeOrders struct {
	mu     sync.Mutex
	orders []models.Order
	calls  []string
	fail   map[string]error
}

func (f *fakeOrders) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.fail == nil {
		return nil
	}
	return f.fail[call]
}

func (f *fakeOrders) Place(context.Context) (*models.Order, error) {
	if err := f.record("place"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o := models.Order{ID: int64(len(f.orders) + 1), TotalAmount: decimal.NewFromInt(25)}
	f.orders = append(f.orders, o)
	return &o, nil
}

func (f *fakeOrders) List(context.Context) ([]models.Order, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeOrders) Get(_ context.Context, id int64) (*models.Order, error) {
	if err := f.record("get"); err != nil {
		return nil, err
	}
	for _, o := range f.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

type identity struct {
	user *models.User
}

func (i identity) CurrentUser() (models.User, bool) {
	if i.user == nil {
		return models.User{}, false
	}
	return *i.user, true
}
