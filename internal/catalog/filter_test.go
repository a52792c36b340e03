package catalog

import (
	"testing"

	"mycars-storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleCars() []models.Car {
	bmw := models.Brand{ID: 1, Name: "BMW"}
	audi := models.Brand{ID: 2, Name: "Audi"}
	return []models.Car{
		{ID: 1, LicensePlate: "1234BCD", Color: "Negro", Model: models.Model{ID: 10, Name: "Serie 3", Brand: bmw}, ExpeditionYear: 2019, Mileage: 60000, SellingPrice: 25000, Status: models.StatusAvailable},
		{ID: 2, LicensePlate: "5678FGH", Color: "Blanco", Model: models.Model{ID: 20, Name: "A4", Brand: audi}, ExpeditionYear: 2021, Mileage: 20000, SellingPrice: 32000, Status: models.StatusReserved},
		{ID: 3, LicensePlate: "M1234", Color: "Rojo", Model: models.Model{ID: 11, Name: "X5", Brand: bmw}, ExpeditionYear: 2015, Mileage: 140000, SellingPrice: 18000, Status: models.StatusSold},
	}
}

func ids(cars []models.Car) []int64 {
	out := make([]int64, 0, len(cars))
	for _, c := range cars {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"empty filter keeps order", Filter{}, []int64{1, 2, 3}},
		{"by brand", Filter{BrandID: 1}, []int64{1, 3}},
		{"by model", Filter{ModelID: 20}, []int64{2}},
		{"by status", Filter{Status: "SOLD"}, []int64{3}},
		{"price range", Filter{MinPrice: 20000, MaxPrice: 30000}, []int64{1}},
		{"max mileage", Filter{MaxMileage: 60000}, []int64{1, 2}},
		{"query is case insensitive", Filter{Query: "  blanco "}, []int64{2}},
		{"query matches plate", Filter{Query: "m1234"}, []int64{3}},
		{"sort price asc", Filter{Sort: SortPriceAsc}, []int64{3, 1, 2}},
		{"sort price desc", Filter{Sort: SortPriceDesc}, []int64{2, 1, 3}},
		{"sort year desc", Filter{Sort: SortYearDesc}, []int64{2, 1, 3}},
		{"brand and sort", Filter{BrandID: 1, Sort: SortMileageAsc}, []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(sampleCars())))
		})
	}
}

func TestFilter_ApplyDoesNotMutateInput(t *testing.T) {
	cars := sampleCars()
	Filter{Sort: SortPriceAsc}.Apply(cars)
	assert.Equal(t, []int64{1, 2, 3}, ids(cars))
}

func TestFilter_Active(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.False(t, Filter{Sort: SortPriceAsc}.Active())
	assert.True(t, Filter{Status: "SOLD"}.Active())
}
