package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test doubles
// ==========================

type fakeAPI struct {
	calls []string

	failOn   string
	failErr  error
	undoFail map[string]error

	nextID    int64
	carsSeen  []models.Car
	cancelCtx context.CancelFunc
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn == call {
		if f.cancelCtx != nil {
			f.cancelCtx()
		}
		return f.failErr
	}
	if err, ok := f.undoFail[call]; ok {
		return err
	}
	return nil
}

func (f *fakeAPI) id() int64 {
	f.nextID++
	return f.nextID * 100
}

func (f *fakeAPI) CreateBrand(ctx context.Context, name string) (models.Brand, error) {
	if err := f.record("create-brand " + name); err != nil {
		return models.Brand{}, err
	}
	return models.Brand{ID: f.id(), Name: name}, nil
}

func (f *fakeAPI) DeleteBrand(ctx context.Context, id int64) error {
	return f.record(fmt.Sprintf("delete-brand %d", id))
}

func (f *fakeAPI) CreateModel(ctx context.Context, name string, brandID int64) (models.Model, error) {
	if err := f.record(fmt.Sprintf("create-model %s brand=%d", name, brandID)); err != nil {
		return models.Model{}, err
	}
	return models.Model{ID: f.id(), Name: name, Brand: models.Brand{ID: brandID}}, nil
}

func (f *fakeAPI) DeleteModel(ctx context.Context, id int64) error {
	return f.record(fmt.Sprintf("delete-model %d", id))
}

func (f *fakeAPI) GetAll(ctx context.Context) ([]models.Car, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) Create(ctx context.Context, car models.Car) (models.Car, error) {
	f.carsSeen = append(f.carsSeen, car)
	if err := f.record(fmt.Sprintf("create-car model=%d", car.Model.ID)); err != nil {
		return models.Car{}, err
	}
	car.ID = f.id()
	return car, nil
}

func (f *fakeAPI) DeleteCar(ctx context.Context, id int64) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return f.record(fmt.Sprintf("delete-car %d", id))
}

func (f *fakeAPI) UploadPhoto(ctx context.Context, carID int64, photo apiclient.PhotoUpload, isMain bool) (models.CarPhoto, error) {
	if err := f.record(fmt.Sprintf("upload-photo car=%d %s main=%t", carID, photo.Filename, isMain)); err != nil {
		return models.CarPhoto{}, err
	}
	return models.CarPhoto{ID: f.id(), URL: "/uploads/cars/" + photo.Filename, IsMain: isMain}, nil
}

func (f *fakeAPI) DeletePhoto(ctx context.Context, photoID int64) error {
	return f.record(fmt.Sprintf("delete-photo %d", photoID))
}

type recordingNotifier struct {
	carIDs []int64
}

func (n *recordingNotifier) InventoryChanged(carID int64) {
	n.carIDs = append(n.carIDs, carID)
}

// ==========================
// Helpers
// ==========================

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCreator(t *testing.T, api *fakeAPI, notifier Notifier) *Creator {
	c := NewCreator(api, api, notifier, zaptest.NewLogger(t))
	c.now = func() time.Time { return fixedNow }
	return c
}

func photo(name string) apiclient.PhotoUpload {
	return apiclient.PhotoUpload{Filename: name, ContentType: "image/jpeg", Data: []byte(name)}
}

func validForm() VehicleForm {
	return VehicleForm{
		IsNewBrand:     true,
		NewBrand:       "Cupra",
		IsNewModel:     true,
		NewModel:       "Formentor",
		LicensePlate:   "1234BCD",
		Color:          "Gris",
		ExpeditionYear: 2022,
		Mileage:        15000,
		SellingPrice:   31000,
		Status:         models.StatusAvailable,
		Photos:         []apiclient.PhotoUpload{photo("front.jpg")},
		MainPhotoIndex: 0,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCreator_NewBrandNewModelOnePhoto(t *testing.T) {
	api := &fakeAPI{}
	notifier := &recordingNotifier{}
	c := newTestCreator(t, api, notifier)

	res, err := c.Create(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"create-brand Cupra",
		"create-model Formentor brand=100",
		"create-car model=200",
		"upload-photo car=300 front.jpg main=true",
	}, api.calls)

	require.Len(t, api.carsSeen, 1)
	sent := api.carsSeen[0]
	assert.Equal(t, int64(200), sent.Model.ID)
	assert.Equal(t, "Formentor", sent.Model.Name)
	assert.Equal(t, int64(100), sent.Model.Brand.ID)
	assert.Zero(t, sent.ID)

	assert.Equal(t, int64(300), res.Car.ID)
	assert.Equal(t, "Cupra", res.Brand.Name)
	require.Len(t, res.Photos, 1)
	assert.True(t, res.Photos[0].IsMain)
	assert.Equal(t, []int64{300}, notifier.carIDs)
}

func TestCreator_ExistingBrandAndModel(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCreator(t, api, nil)

	form := validForm()
	form.IsNewBrand, form.IsNewModel = false, false
	form.Brand = models.Brand{ID: 7, Name: "BMW"}
	form.Model = models.Model{ID: 70, Name: "Serie 1"}
	form.Photos = nil

	res, err := c.Create(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, []string{"create-car model=70"}, api.calls)
	assert.Equal(t, models.Model{ID: 70, Name: "Serie 1", Brand: models.Brand{ID: 7, Name: "BMW"}}, api.carsSeen[0].Model)
	assert.Empty(t, res.Photos)
}

func TestCreator_ExistingBrandNewModel(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCreator(t, api, nil)

	form := validForm()
	form.IsNewBrand = false
	form.Brand = models.Brand{ID: 7, Name: "BMW"}
	form.Photos = nil

	_, err := c.Create(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, []string{"create-model Formentor brand=7", "create-car model=100"}, api.calls)
}

func TestCreator_NewBrandForcesNewModel(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCreator(t, api, nil)

	form := validForm()
	form.IsNewModel = false
	form.Model = models.Model{ID: 999}
	form.Photos = nil

	_, err := c.Create(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, "create-model Formentor brand=100", api.calls[1])
}

func TestCreator_PhotosUploadedSequentiallyWithOneMain(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCreator(t, api, nil)

	form := validForm()
	form.IsNewBrand, form.IsNewModel = false, false
	form.Brand = models.Brand{ID: 1}
	form.Model = models.Model{ID: 2}
	form.Photos = []apiclient.PhotoUpload{photo("a.jpg"), photo("b.jpg"), photo("c.jpg")}
	form.MainPhotoIndex = 1

	res, err := c.Create(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"create-car model=2",
		"upload-photo car=100 a.jpg main=false",
		"upload-photo car=100 b.jpg main=true",
		"upload-photo car=100 c.jpg main=false",
	}, api.calls)
	mains := 0
	for _, p := range res.Photos {
		if p.IsMain {
			mains++
		}
	}
	assert.Equal(t, 1, mains)
}

// ==========================
// Failure and Compensation Tests
// ==========================

func TestCreator_FailureRollsBackInReverseOrder(t *testing.T) {
	boom := errors.New("disk full")
	api := &fakeAPI{failOn: "upload-photo car=300 b.jpg main=false", failErr: boom}
	notifier := &recordingNotifier{}
	c := newTestCreator(t, api, notifier)

	form := validForm()
	form.Photos = []apiclient.PhotoUpload{photo("a.jpg"), photo("b.jpg"), photo("c.jpg")}

	_, err := c.Create(context.Background(), form)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepUploadPhoto, stepErr.Step)
	assert.Equal(t, 1, stepErr.Photo)
	assert.ErrorIs(t, err, boom)
	assert.True(t, stepErr.RolledBack())
	assert.Equal(t, []StepName{StepUploadPhoto, StepCreateCar, StepCreateModel, StepCreateBrand}, stepErr.Compensated)

	assert.Equal(t, []string{
		"create-brand Cupra",
		"create-model Formentor brand=100",
		"create-car model=200",
		"upload-photo car=300 a.jpg main=true",
		"upload-photo car=300 b.jpg main=false",
		"delete-photo 400",
		"delete-car 300",
		"delete-model 200",
		"delete-brand 100",
	}, api.calls)
	assert.Empty(t, notifier.carIDs)
}

func TestCreator_FailureOnFirstStepHasNothingToUndo(t *testing.T) {
	api := &fakeAPI{failOn: "create-brand Cupra", failErr: errors.New("409")}
	c := newTestCreator(t, api, nil)

	_, err := c.Create(context.Background(), validForm())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreateBrand, stepErr.Step)
	assert.Equal(t, -1, stepErr.Photo)
	assert.Empty(t, stepErr.Compensated)
	assert.Equal(t, []string{"create-brand Cupra"}, api.calls)
}

func TestCreator_CompensationFailureIsReported(t *testing.T) {
	api := &fakeAPI{
		failOn:   "create-car model=200",
		failErr:  errors.New("plate exists"),
		undoFail: map[string]error{"delete-model 200": errors.New("model in use")},
	}
	c := newTestCreator(t, api, nil)

	_, err := c.Create(context.Background(), validForm())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.False(t, stepErr.RolledBack())
	assert.Equal(t, []StepName{StepCreateBrand}, stepErr.Compensated)
	require.Len(t, stepErr.CompensationErrs, 1)
	assert.Contains(t, err.Error(), "rollback incomplete")
	assert.Contains(t, err.Error(), "model in use")
	assert.Equal(t, "delete-brand 100", api.calls[len(api.calls)-1], "rollback continues past a failed undo")
}

func TestCreator_RollbackRunsAfterRequestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &fakeAPI{
		failOn:    "upload-photo car=300 front.jpg main=true",
		failErr:   context.Canceled,
		cancelCtx: cancel,
	}
	c := newTestCreator(t, api, nil)

	_, err := c.Create(ctx, validForm())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.True(t, stepErr.RolledBack())
	assert.Contains(t, api.calls, "delete-car 300")
}

// ==========================
// Validation Tests
// ==========================

func TestCreator_ValidationBlocksAllRequests(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCreator(t, api, nil)

	form := validForm()
	form.LicensePlate = "12AB34"
	form.SellingPrice = 0

	_, err := c.Create(context.Background(), form)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "licensePlate")
	assert.Contains(t, verrs, "sellingPrice")
	assert.Empty(t, api.calls)
}
