// internal/apiclient/brands.go
package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"mycars-storefront/internal/models"
)

func (c *Client) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/brands", path: "/brands"}, &brands); err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []models.Brand{}
	}
	return brands, nil
}

func (c *Client) CreateBrand(ctx context.Context, name string) (models.Brand, error) {
	r, err := jsonRequest(http.MethodPost, "/brands", "/brands", map[string]string{"name": name})
	if err != nil {
		return models.Brand{}, err
	}
	var brand models.Brand
	if err := c.do(ctx, r, &brand); err != nil {
		return models.Brand{}, err
	}
	return brand, nil
}

func (c *Client) DeleteBrand(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/brands/{id}",
		path:     fmt.Sprintf("/brands/%d", id),
	}, nil)
}
