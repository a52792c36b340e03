// internal/apiclient/repository.go
package apiclient

import (
	"context"

	"mycars-storefront/internal/catalog"
	"mycars-storefront/internal/models"
)

// CarRepository cài đặt catalog.CarRepository trên catalog API.
type CarRepository struct {
	client *Client
}

var _ catalog.CarRepository = (*CarRepository)(nil)

func NewCarRepository(client *Client) *CarRepository {
	return &CarRepository{client: client}
}

func (r *CarRepository) GetAll(ctx context.Context) ([]models.Car, error) {
	return r.client.ListCars(ctx)
}

func (r *CarRepository) Create(ctx context.Context, car models.Car) (models.Car, error) {
	return r.client.CreateCar(ctx, car)
}
