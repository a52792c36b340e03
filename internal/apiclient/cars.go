// internal/apiclient/cars.go
package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"mycars-storefront/internal/models"
)

func (c *Client) ListCars(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/cars", path: "/cars"}, &cars); err != nil {
		return nil, err
	}
	if cars == nil {
		cars = []models.Car{}
	}
	return cars, nil
}

func (c *Client) GetCar(ctx context.Context, id int64) (models.Car, error) {
	var car models.Car
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "/cars/{id}",
		path:     fmt.Sprintf("/cars/%d", id),
	}, &car)
	if err != nil {
		return models.Car{}, err
	}
	return car, nil
}

// CreateCar gửi xe mới lên API. ID và ảnh do server gán nên bị bỏ khỏi body.
func (c *Client) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	car.ID = 0
	car.Photos = nil

	r, err := jsonRequest(http.MethodPost, "/cars", "/cars", car)
	if err != nil {
		return models.Car{}, err
	}
	var created models.Car
	if err := c.do(ctx, r, &created); err != nil {
		return models.Car{}, err
	}
	return created, nil
}

func (c *Client) DeleteCar(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "/cars/{id}",
		path:     fmt.Sprintf("/cars/%d", id),
	}, nil)
}
