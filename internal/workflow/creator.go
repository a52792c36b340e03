// internal/workflow/creator.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/catalog"
	"mycars-storefront/internal/metrics"
	"mycars-storefront/internal/models"

	"go.uber.org/zap"
)

// StepName định danh từng bước của luồng tạo xe.
type StepName string

const (
	StepCreateBrand StepName = "create-brand"
	StepCreateModel StepName = "create-model"
	StepCreateCar   StepName = "create-car"
	StepUploadPhoto StepName = "upload-photo"
)

// Thời gian tối đa cho toàn bộ phần rollback, tách khỏi context của request.
const compensationTimeout = 15 * time.Second

// Gateway là các lời gọi API mà workflow cần ngoài CarRepository.
// *apiclient.Client thỏa interface này.
type Gateway interface {
	CreateBrand(ctx context.Context, name string) (models.Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
	CreateModel(ctx context.Context, name string, brandID int64) (models.Model, error)
	DeleteModel(ctx context.Context, id int64) error
	DeleteCar(ctx context.Context, id int64) error
	UploadPhoto(ctx context.Context, carID int64, photo apiclient.PhotoUpload, isMain bool) (models.CarPhoto, error)
	DeletePhoto(ctx context.Context, photoID int64) error
}

var _ Gateway = (*apiclient.Client)(nil)

// Notifier nhận sự kiện khi kho xe thay đổi (websocket hub ở production).
type Notifier interface {
	InventoryChanged(carID int64)
}

// Result là đồ thị brand/model/car/photos đã được tạo.
type Result struct {
	Brand  models.Brand
	Model  models.Model
	Car    models.Car
	Photos []models.CarPhoto
}

// StepError báo bước nào thất bại và kết quả rollback các bước trước đó.
type StepError struct {
	Step  StepName
	Photo int // chỉ số ảnh khi Step == StepUploadPhoto, ngược lại -1
	Err   error

	Compensated      []StepName
	CompensationErrs []error
}

func (e *StepError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "vehicle creation failed at %s", e.Step)
	if e.Step == StepUploadPhoto {
		fmt.Fprintf(&b, " (photo %d)", e.Photo)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if len(e.CompensationErrs) > 0 {
		fmt.Fprintf(&b, "; rollback incomplete: %v", errors.Join(e.CompensationErrs...))
	}
	return b.String()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RolledBack báo mọi bước đã hoàn thành đều được hoàn tác.
func (e *StepError) RolledBack() bool {
	return len(e.CompensationErrs) == 0
}

type compensation struct {
	step StepName
	undo func(ctx context.Context) error
}

// Creator chạy luồng tạo xe nhiều bước như một saga: mỗi bước xong sẽ đăng ký
// một hành động bù, và khi có bước lỗi thì các hành động bù chạy theo thứ tự ngược.
type Creator struct {
	gateway  Gateway
	cars     catalog.CarRepository
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewCreator(gateway Gateway, cars catalog.CarRepository, notifier Notifier, log *zap.Logger) *Creator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Creator{
		gateway:  gateway,
		cars:     cars,
		notifier: notifier,
		log:      log.Named("workflow"),
		now:      time.Now,
	}
}

// Create validate form rồi tạo lần lượt brand, model, car và ảnh.
// Lỗi validate trả về ValidationErrors và không có request nào được gửi.
// Lỗi ở một bước trả về *StepError sau khi đã rollback.
func (c *Creator) Create(ctx context.Context, form VehicleForm) (Result, error) {
	form.Normalize()
	if errs := form.Validate(c.now()); errs != nil {
		metrics.WorkflowRuns.WithLabelValues("invalid").Inc()
		return Result{}, errs
	}

	var (
		res  Result
		undo []compensation
	)
	fail := func(step StepName, photo int, err error) error {
		stepErr := &StepError{Step: step, Photo: photo, Err: err}
		c.rollback(ctx, undo, stepErr)
		metrics.WorkflowRuns.WithLabelValues("failed").Inc()
		c.log.Error("vehicle creation failed",
			zap.String("step", string(step)),
			zap.Int("photo", photo),
			zap.Bool("rolledBack", stepErr.RolledBack()),
			zap.Error(err),
		)
		return stepErr
	}

	// 1. Hãng
	if form.IsNewBrand {
		brand, err := c.gateway.CreateBrand(ctx, form.NewBrand)
		if err != nil {
			return Result{}, fail(StepCreateBrand, -1, err)
		}
		res.Brand = brand
		undo = append(undo, compensation{StepCreateBrand, func(ctx context.Context) error {
			return c.gateway.DeleteBrand(ctx, brand.ID)
		}})
	} else {
		res.Brand = form.Brand
	}

	// 2. Model, bắt buộc tạo mới nếu hãng là mới
	if form.CreatesModel() {
		model, err := c.gateway.CreateModel(ctx, form.NewModel, res.Brand.ID)
		if err != nil {
			return Result{}, fail(StepCreateModel, -1, err)
		}
		res.Model = model
		undo = append(undo, compensation{StepCreateModel, func(ctx context.Context) error {
			return c.gateway.DeleteModel(ctx, model.ID)
		}})
	} else {
		res.Model = form.Model
	}
	if res.Model.Brand.ID == 0 {
		res.Model.Brand = res.Brand
	}

	// 3. Xe, gắn nguyên Model đã resolve
	car, err := catalog.CreateCar(ctx, c.cars, models.Car{
		LicensePlate:   form.LicensePlate,
		Model:          res.Model,
		Color:          form.Color,
		ExpeditionYear: form.ExpeditionYear,
		Mileage:        form.Mileage,
		SellingPrice:   form.SellingPrice,
		Status:         form.Status,
		Description:    form.Description,
	})
	if err != nil {
		return Result{}, fail(StepCreateCar, -1, err)
	}
	res.Car = car
	undo = append(undo, compensation{StepCreateCar, func(ctx context.Context) error {
		return c.gateway.DeleteCar(ctx, car.ID)
	}})

	// 4. Ảnh, tuần tự, chỉ ảnh ở MainPhotoIndex là ảnh chính
	for i, photo := range form.Photos {
		uploaded, err := c.gateway.UploadPhoto(ctx, car.ID, photo, i == form.MainPhotoIndex)
		if err != nil {
			return Result{}, fail(StepUploadPhoto, i, err)
		}
		res.Photos = append(res.Photos, uploaded)
		undo = append(undo, compensation{StepUploadPhoto, func(ctx context.Context) error {
			return c.gateway.DeletePhoto(ctx, uploaded.ID)
		}})
	}

	metrics.WorkflowRuns.WithLabelValues("created").Inc()
	c.log.Info("vehicle created",
		zap.Int64("carID", car.ID),
		zap.Int64("modelID", res.Model.ID),
		zap.Int64("brandID", res.Brand.ID),
		zap.Int("photos", len(res.Photos)),
	)
	if c.notifier != nil {
		c.notifier.InventoryChanged(car.ID)
	}
	return res, nil
}

// rollback chạy các hành động bù theo thứ tự ngược lại. Nó không dừng lại khi một
// hành động lỗi, và vẫn chạy khi context của request đã bị hủy.
func (c *Creator) rollback(ctx context.Context, undo []compensation, stepErr *StepError) {
	if len(undo) == 0 {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for i := len(undo) - 1; i >= 0; i-- {
		u := undo[i]
		if err := u.undo(rctx); err != nil {
			metrics.WorkflowCompensations.WithLabelValues(string(u.step), "failed").Inc()
			c.log.Warn("compensation failed", zap.String("step", string(u.step)), zap.Error(err))
			stepErr.CompensationErrs = append(stepErr.CompensationErrs, fmt.Errorf("undo %s: %w", u.step, err))
			continue
		}
		metrics.WorkflowCompensations.WithLabelValues(string(u.step), "ok").Inc()
		stepErr.Compensated = append(stepErr.Compensated, u.step)
	}
}
