// internal/catalog/repository.go
package catalog

import (
	"context"

	"mycars-storefront/internal/models"
)

// CarRepository tách các view khỏi transport cụ thể (HTTP, stub trong test...).
type CarRepository interface {
	GetAll(ctx context.Context) ([]models.Car, error)
	Create(ctx context.Context, car models.Car) (models.Car, error)
}

// GetAllCars trả về nguyên danh sách repository đưa ra, lỗi cũng giữ nguyên.
func GetAllCars(ctx context.Context, repo CarRepository) ([]models.Car, error) {
	return repo.GetAll(ctx)
}

// CreateCar chuyển thẳng xuống repository.
func CreateCar(ctx context.Context, repo CarRepository, car models.Car) (models.Car, error) {
	return repo.Create(ctx, car)
}
