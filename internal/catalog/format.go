// internal/catalog/format.go
package catalog

import (
	"math"
	"regexp"
	"strconv"

	"mycars-storefront/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// 0000XXX, chữ cái không gồm nguyên âm, Ñ và Q
	newPlateFormat = regexp.MustCompile(`^\d{4}[BCDFGHJKLMNPRSTVWXYZ]{3}$`)
	// định dạng cũ theo tỉnh: XX0000
	oldPlateFormat = regexp.MustCompile(`^[A-Z]{1,4}\d{4}$`)

	esPrinter = message.NewPrinter(language.Spanish)
)

// ValidateLicensePlate kiểm tra biển số theo định dạng Tây Ban Nha (mới hoặc cũ).
func ValidateLicensePlate(plate string) bool {
	return newPlateFormat.MatchString(plate) || oldPlateFormat.MatchString(plate)
}

// groupES nhóm hàng nghìn bằng dấu chấm như es-ES. Quy tắc tối thiểu hai nhóm của
// es-ES nên số có 4 chữ số không được nhóm: 5000 -> "5000", 15000 -> "15.000".
func groupES(n int64) string {
	if n > -10000 && n < 10000 {
		return strconv.FormatInt(n, 10)
	}
	return esPrinter.Sprintf("%d", n)
}

// FormatPrice định dạng giá theo es-ES, đơn vị euro, không có phần thập phân.
// Ví dụ 25000 -> "25.000 €" (khoảng trắng không ngắt dòng trước ký hiệu).
func FormatPrice(price float64) string {
	return groupES(int64(math.Round(price))) + "\u00a0€"
}

// FormatMileage định dạng số km theo es-ES, ví dụ 120000 -> "120.000 km".
func FormatMileage(km int) string {
	return groupES(int64(km)) + " km"
}

var statusLabels = map[string]string{
	string(models.StatusAvailable):   "Disponible",
	string(models.StatusSold):        "Vendido",
	string(models.StatusReserved):    "Reservado",
	string(models.StatusMaintenance): "En Mantenimiento",
}

var statusColors = map[string]string{
	string(models.StatusAvailable):   "bg-green-100 text-green-800",
	string(models.StatusSold):        "bg-red-100 text-red-800",
	string(models.StatusReserved):    "bg-yellow-100 text-yellow-800",
	string(models.StatusMaintenance): "bg-orange-100 text-orange-800",
}

// TranslateStatus trả về nhãn tiếng Tây Ban Nha; trạng thái lạ thì giữ nguyên.
func TranslateStatus(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// StatusColor trả về class CSS của badge trạng thái.
func StatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return "bg-gray-100 text-gray-800"
}
