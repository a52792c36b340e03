// internal/apiclient/model_endpoints.go
package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"mycars-storefront/internal/models"
)

type createModelPayload struct {
	Name  string `json:"name"`
	Brand struct {
		ID int64 `json:"id"`
	} `json:"brand"`
}

// ListModelsByBrand lấy các model của một hãng.
func (c *Client) ListModelsByBrand(ctx context.Context, brandID int64) ([]models.Model, error) {
	var list []models.Model
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/models/brand/{brandId}",
		path:     fmt.Sprintf("/models/brand/%d", brandID),
	}, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Model{}
	}
	return list, nil
}

// CreateModel tạo model mới thuộc brandID.
func (c *Client) CreateModel(ctx context.Context, name string, brandID int64) (models.Model, error) {
	payload := createModelPayload{Name: name}
	payload.Brand.ID = brandID

	r, err := jsonRequest(http.MethodPost, "/models", "/models", payload)
	if err != nil {
		return models.Model{}, err
	}
	var m models.Model
	if err := c.do(ctx, r, &m); err != nil {
		return models.Model{}, err
	}
	return m, nil
}

func (c *Client) DeleteModel(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/models/{id}",
		path:     fmt.Sprintf("/models/%d", id),
	}, nil)
}
