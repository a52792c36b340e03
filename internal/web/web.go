// internal/web/web.go
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"mycars-storefront/internal/catalog"
	"mycars-storefront/internal/models"
)

// Tên các template trang, dùng với c.HTML.
const (
	PageHome      = "home.tmpl"
	PageBrands    = "brands.tmpl"
	PageCars      = "cars.tmpl"
	PageCarDetail = "car_detail.tmpl"
	PageCarForm   = "car_form.tmpl"
	PageError     = "error.tmpl"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parse toàn bộ template đã embed. resolvePhoto biến URL ảnh tương đối
// của API thành URL tuyệt đối (thường là apiclient.Client.ResolveURL).
func Templates(resolvePhoto func(string) string) (*template.Template, error) {
	if resolvePhoto == nil {
		resolvePhoto = func(u string) string { return u }
	}
	funcs := template.FuncMap{
		"formatPrice":   catalog.FormatPrice,
		"formatMileage": catalog.FormatMileage,
		"translateStatus": func(s models.CarStatus) string {
			return catalog.TranslateStatus(string(s))
		},
		"statusColor": func(s models.CarStatus) string {
			return catalog.StatusColor(string(s))
		},
		"photoURL": resolvePhoto,
		"mainPhoto": func(c models.Car) *models.CarPhoto {
			if p, ok := c.MainPhoto(); ok {
				return &p
			}
			return nil
		},
		"statuses": func() []models.CarStatus { return models.CarStatuses },
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"stars": func(n int) string {
			if n < 0 {
				n = 0
			}
			if n > 5 {
				n = 5
			}
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"year": func() int { return time.Now().Year() },
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}
