// internal/catalog/filter.go
package catalog

import (
	"sort"
	"strings"

	"mycars-storefront/internal/models"
)

// Các kiểu sắp xếp hỗ trợ trên trang catalog.
const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortYearDesc   = "year_desc"
	SortMileageAsc = "mileage_asc"
)

// Filter là bộ lọc của trang catalog, bind từ query string.
type Filter struct {
	BrandID    int64   `form:"brand"`
	ModelID    int64   `form:"model"`
	Status     string  `form:"status"`
	Query      string  `form:"q"`
	MinPrice   float64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice   float64 `form:"maxPrice" binding:"omitempty,min=0"`
	MaxMileage int     `form:"maxMileage" binding:"omitempty,min=0"`
	Sort       string  `form:"sort" binding:"omitempty,oneof=price_asc price_desc year_desc mileage_asc"`
}

// Active báo có điều kiện lọc nào đang bật hay không.
func (f Filter) Active() bool {
	return f.BrandID != 0 || f.ModelID != 0 || f.Status != "" || strings.TrimSpace(f.Query) != "" ||
		f.MinPrice > 0 || f.MaxPrice > 0 || f.MaxMileage > 0
}

// Match kiểm tra một xe có thỏa bộ lọc không.
func (f Filter) Match(car models.Car) bool {
	if f.BrandID != 0 && car.Model.Brand.ID != f.BrandID {
		return false
	}
	if f.ModelID != 0 && car.Model.ID != f.ModelID {
		return false
	}
	if f.Status != "" && string(car.Status) != f.Status {
		return false
	}
	if f.MinPrice > 0 && car.SellingPrice < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && car.SellingPrice > f.MaxPrice {
		return false
	}
	if f.MaxMileage > 0 && car.Mileage > f.MaxMileage {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{
			car.Model.Brand.Name, car.Model.Name, car.Color, car.LicensePlate,
		}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// Apply trả về slice mới gồm các xe thỏa bộ lọc, đã sắp xếp. Slice đầu vào không bị sửa.
func (f Filter) Apply(cars []models.Car) []models.Car {
	out := make([]models.Car, 0, len(cars))
	for _, c := range cars {
		if f.Match(c) {
			out = append(out, c)
		}
	}

	var less func(a, b models.Car) bool
	switch f.Sort {
	case SortPriceAsc:
		less = func(a, b models.Car) bool { return a.SellingPrice < b.SellingPrice }
	case SortPriceDesc:
		less = func(a, b models.Car) bool { return a.SellingPrice > b.SellingPrice }
	case SortYearDesc:
		less = func(a, b models.Car) bool { return a.ExpeditionYear > b.ExpeditionYear }
	case SortMileageAsc:
		less = func(a, b models.Car) bool { return a.Mileage < b.Mileage }
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
