package api

import (
	"context"
	"net/http"
	"strconv"

	"go-storefront/models"
)

// ProductAPI wraps /products
type ProductAPI struct {
	c *Client
}

func NewProductAPI(c *Client) *ProductAPI {
	return &ProductAPI{c: c}
}

func (p *ProductAPI) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := p.c.Do(ctx, http.MethodGet, "/products", nil, nil, &products)
	return products, err
}

func (p *ProductAPI) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := p.c.Do(ctx, http.MethodGet, productPath(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// MyProducts lists the signed-in seller's products with order counts
func (p *ProductAPI) MyProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := p.c.Do(ctx, http.MethodGet, "/products/my-products", nil, nil, &products)
	return products, err
}

func (p *ProductAPI) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := p.c.Do(ctx, http.MethodPost, "/products/add", nil, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductAPI) Update(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := p.c.Do(ctx, http.MethodPut, productPath(id), nil, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductAPI) Delete(ctx context.Context, id int64) error {
	var msg string
	return p.c.Do(ctx, http.MethodDelete, productPath(id), nil, nil, &msg)
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}
