// internal/api/handlers/car_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mycars-storefront/internal/api/middleware"
	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/models"
	"mycars-storefront/internal/resource"
	"mycars-storefront/internal/web"
	"mycars-storefront/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	msgCreateCar     = "Error al crear el coche"
	msgInvalidNumber = "Introduce un número válido"
	msgInvalidUpload = "No se pudieron leer los archivos enviados"

	// Giới hạn bộ nhớ khi parse multipart; phần vượt quá được ghi ra file tạm.
	maxFormMemory = 32 << 20
)

// VehicleCreator là phần của workflow.Creator mà handler cần.
type VehicleCreator interface {
	Create(ctx context.Context, form workflow.VehicleForm) (workflow.Result, error)
}

var _ VehicleCreator = (*workflow.Creator)(nil)

var timeNow = time.Now

// CarHandler xử lý form "Añadir Nuevo Vehículo".
type CarHandler struct {
	Client  *apiclient.Client
	Creator VehicleCreator
	Log     *zap.Logger
}

// NewForm render form trống. ?brand=ID chọn sẵn hãng và tải model của hãng đó.
func (h *CarHandler) NewForm(c *gin.Context) {
	values := url.Values{}
	if brand := c.Query("brand"); brand != "" {
		values.Set("brandId", brand)
	}
	h.renderForm(c, http.StatusOK, values, nil, "")
}

// Create nhận form multipart, validate rồi chạy workflow tạo xe.
// Thành công thì redirect về catalog với ?created=1.
func (h *CarHandler) Create(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.Log.Warn("failed to parse vehicle form", zap.Error(err))
		h.renderForm(c, http.StatusBadRequest, c.Request.PostForm, nil, msgInvalidUpload)
		return
	}
	values := c.Request.PostForm

	form, parseErrs, err := parseVehicleForm(values, c.Request.MultipartForm)
	if err != nil {
		h.Log.Warn("failed to read uploaded photos", zap.Error(err))
		h.renderForm(c, http.StatusBadRequest, values, nil, msgInvalidUpload)
		return
	}
	if len(parseErrs) > 0 {
		form.Normalize()
		errs := form.Validate(timeNow())
		if errs == nil {
			errs = workflow.ValidationErrors{}
		}
		for k, v := range parseErrs {
			errs[k] = v
		}
		h.renderForm(c, http.StatusUnprocessableEntity, values, errs, "")
		return
	}

	// Model có sẵn được gắn nguyên giá trị (kể cả tên) vào xe.
	if !form.CreatesModel() && form.Brand.ID > 0 && form.Model.ID > 0 {
		model, found, err := h.lookupModel(c.Request.Context(), form.Brand.ID, form.Model.ID)
		switch {
		case err != nil:
			h.Log.Error("failed to resolve model", zap.Int64("modelID", form.Model.ID), zap.Error(err))
			h.renderForm(c, http.StatusBadGateway, values, nil, msgCreateCar)
			return
		case !found:
			h.renderForm(c, http.StatusUnprocessableEntity, values, workflow.ValidationErrors{"model": "Selecciona un modelo"}, "")
			return
		}
		form.Model = model
		form.Brand = model.Brand
	}

	res, err := h.Creator.Create(c.Request.Context(), form)
	if err != nil {
		var verrs workflow.ValidationErrors
		if errors.As(err, &verrs) {
			h.renderForm(c, http.StatusUnprocessableEntity, values, verrs, "")
			return
		}
		h.Log.Error("vehicle creation failed",
			zap.String("requestID", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		h.renderForm(c, http.StatusBadGateway, values, nil, msgCreateCar)
		return
	}

	h.Log.Info("vehicle form submitted",
		zap.Int64("carID", res.Car.ID),
		zap.String("requestID", middleware.GetRequestID(c)),
	)
	c.Redirect(http.StatusSeeOther, "/cars?created=1")
}

func (h *CarHandler) lookupModel(ctx context.Context, brandID, modelID int64) (models.Model, bool, error) {
	list, err := h.Client.ListModelsByBrand(ctx, brandID)
	if err != nil {
		return models.Model{}, false, err
	}
	for _, m := range list {
		if m.ID == modelID {
			if m.Brand.ID == 0 {
				m.Brand.ID = brandID
			}
			return m, true, nil
		}
	}
	return models.Model{}, false, nil
}

// renderForm tải hãng (và model của hãng đang chọn) rồi render form.
func (h *CarHandler) renderForm(c *gin.Context, status int, values url.Values, errs workflow.ValidationErrors, message string) {
	if values == nil {
		values = url.Values{}
	}
	ctx := c.Request.Context()

	brands, err := resource.Load(ctx, h.Client.ListBrands, resource.Generic(msgLoadBrands))
	if err != nil {
		discardView(c, h.Log, err)
		return
	}
	modelList := resource.Pending[[]models.Model]()
	if brandID, _ := toInt64(values.Get("brandId")); brandID > 0 && values.Get("brandMode") != "new" {
		modelList, err = resource.Load(ctx, func(ctx context.Context) ([]models.Model, error) {
			return h.Client.ListModelsByBrand(ctx, brandID)
		}, resource.Generic(msgLoadModels))
		if err != nil {
			discardView(c, h.Log, err)
			return
		}
	}

	c.HTML(status, web.PageCarForm, gin.H{
		"Title":  "Añadir Vehículo",
		"Values": values,
		"Errors": errs,
		"Error":  message,
		"Brands": brands,
		"Models": modelList,
	})
}

// parseVehicleForm chuyển giá trị form thành workflow.VehicleForm. Lỗi parse số được
// trả về theo tên field; lỗi đọc file được trả về như error.
func parseVehicleForm(values url.Values, mf *multipart.Form) (workflow.VehicleForm, workflow.ValidationErrors, error) {
	parseErrs := workflow.ValidationErrors{}
	num := func(field string) string {
		return strings.ReplaceAll(strings.TrimSpace(values.Get(field)), ",", ".")
	}

	form := workflow.VehicleForm{
		IsNewBrand:   values.Get("brandMode") == "new",
		NewBrand:     values.Get("newBrand"),
		IsNewModel:   values.Get("modelMode") == "new",
		NewModel:     values.Get("newModel"),
		LicensePlate: values.Get("licensePlate"),
		Color:        values.Get("color"),
		Status:       models.CarStatus(values.Get("status")),
		Description:  values.Get("description"),
	}
	if !form.IsNewBrand {
		form.Brand.ID, _ = toInt64(values.Get("brandId"))
	}
	if !form.CreatesModel() {
		form.Model.ID, _ = toInt64(values.Get("modelId"))
	}

	var err error
	if form.ExpeditionYear, err = toInt(num("expeditionYear")); err != nil {
		parseErrs["expeditionYear"] = msgInvalidNumber
	}
	if form.Mileage, err = toInt(num("mileage")); err != nil {
		parseErrs["mileage"] = msgInvalidNumber
	}
	if form.SellingPrice, err = cast.ToFloat64E(num("sellingPrice")); err != nil {
		parseErrs["sellingPrice"] = msgInvalidNumber
	}
	if raw := num("mainPhotoIndex"); raw != "" {
		if form.MainPhotoIndex, err = toInt(raw); err != nil {
			parseErrs["photos"] = msgInvalidNumber
		}
	}

	if mf != nil {
		for _, fh := range mf.File["photos"] {
			if fh.Filename == "" && fh.Size == 0 {
				continue
			}
			photo, err := readPhoto(fh)
			if err != nil {
				return form, nil, err
			}
			form.Photos = append(form.Photos, photo)
		}
	}

	if len(parseErrs) == 0 {
		parseErrs = nil
	}
	return form, parseErrs, nil
}

func readPhoto(fh *multipart.FileHeader) (apiclient.PhotoUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return apiclient.PhotoUpload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return apiclient.PhotoUpload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return apiclient.PhotoUpload{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}
