// internal/workflow/form.go
package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/catalog"
	"mycars-storefront/internal/models"
)

const MinExpeditionYear = 1900

// VehicleForm là dữ liệu form "Añadir Nuevo Vehículo" sau khi parse.
// Với hãng/model có sẵn, caller điền Brand/Model (ít nhất ID, tên nếu biết).
type VehicleForm struct {
	IsNewBrand bool
	Brand      models.Brand
	NewBrand   string

	IsNewModel bool
	Model      models.Model
	NewModel   string

	LicensePlate   string
	Color          string
	ExpeditionYear int
	Mileage        int
	SellingPrice   float64
	Status         models.CarStatus
	Description    string

	Photos         []apiclient.PhotoUpload
	MainPhotoIndex int
}

// CreatesModel báo form có tạo model mới không. Hãng mới luôn kéo theo model mới.
func (f VehicleForm) CreatesModel() bool {
	return f.IsNewBrand || f.IsNewModel
}

// Normalize cắt khoảng trắng và viết hoa biển số.
func (f *VehicleForm) Normalize() {
	f.NewBrand = strings.TrimSpace(f.NewBrand)
	f.NewModel = strings.TrimSpace(f.NewModel)
	f.LicensePlate = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(f.LicensePlate), " ", ""))
	f.Color = strings.TrimSpace(f.Color)
	f.Description = strings.TrimSpace(f.Description)
	if f.Status == "" {
		f.Status = models.StatusAvailable
	}
	if len(f.Photos) == 0 {
		f.MainPhotoIndex = -1
	}
}

// ValidationErrors gom lỗi theo tên field của form.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for k := range v {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return "invalid vehicle form: " + strings.Join(fields, ", ")
}

// Validate chạy các kiểm tra phía client trước khi gửi bất kỳ request nào.
func (f VehicleForm) Validate(now time.Time) ValidationErrors {
	errs := ValidationErrors{}
	currentYear := now.Year()

	if f.IsNewBrand {
		if f.NewBrand == "" {
			errs["brand"] = "El nombre de la marca es requerido"
		}
	} else if f.Brand.ID <= 0 {
		errs["brand"] = "Selecciona una marca"
	}

	if f.CreatesModel() {
		if f.NewModel == "" {
			errs["model"] = "El nombre del modelo es requerido"
		}
	} else if f.Model.ID <= 0 {
		errs["model"] = "Selecciona un modelo"
	}

	if !catalog.ValidateLicensePlate(f.LicensePlate) {
		errs["licensePlate"] = "Matrícula inválida. Debe ser formato español (ej: 1234BCD o AB1234)"
	}
	if f.Color == "" {
		errs["color"] = "El color es requerido"
	}
	if f.ExpeditionYear < MinExpeditionYear || f.ExpeditionYear > currentYear {
		errs["expeditionYear"] = fmt.Sprintf("El año debe estar entre %d y %d", MinExpeditionYear, currentYear)
	}
	if f.Mileage < 0 {
		errs["mileage"] = "El kilometraje no puede ser negativo"
	}
	if f.SellingPrice <= 0 {
		errs["sellingPrice"] = "El precio debe ser mayor que 0"
	}
	if !f.Status.Valid() {
		errs["status"] = "Estado no válido"
	}

	// Có ảnh thì phải có đúng một ảnh chính.
	if len(f.Photos) > 0 {
		if f.MainPhotoIndex < 0 || f.MainPhotoIndex >= len(f.Photos) {
			errs["photos"] = "Marca exactamente una foto como principal"
		}
		for _, p := range f.Photos {
			if !strings.HasPrefix(p.ContentType, "image/") {
				errs["photos"] = fmt.Sprintf("El archivo %q no es una imagen", p.Filename)
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
