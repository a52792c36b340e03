// internal/catalog/carousel.go
package catalog

// Carousel là trạng thái của carousel ảnh trên trang chi tiết.
// Prev/Next quay vòng: từ ảnh cuối sang ảnh đầu và ngược lại.
type Carousel struct {
	Len     int
	Current int
	Prev    int
	Next    int
}

// NewCarousel chuẩn hóa chỉ số requested vào [0, n). n == 0 trả về carousel rỗng.
func NewCarousel(n, requested int) Carousel {
	if n <= 0 {
		return Carousel{}
	}
	cur := ((requested % n) + n) % n
	return Carousel{
		Len:     n,
		Current: cur,
		Prev:    (cur - 1 + n) % n,
		Next:    (cur + 1) % n,
	}
}

// Multiple báo có nhiều hơn một ảnh (cần nút điều hướng).
func (c Carousel) Multiple() bool {
	return c.Len > 1
}
