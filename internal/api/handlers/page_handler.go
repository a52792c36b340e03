// internal/api/handlers/page_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"mycars-storefront/internal/api/middleware"
	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/catalog"
	"mycars-storefront/internal/models"
	"mycars-storefront/internal/resource"
	"mycars-storefront/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatusClientClosedRequest được ghi khi client đã rời đi trước khi dữ liệu về tới.
const StatusClientClosedRequest = 499

const (
	msgLoadCars     = "Error al cargar los coches"
	msgLoadBrands   = "Error al cargar las marcas"
	msgLoadModels   = "Error al cargar los modelos"
	msgCarNotFound  = "No se encontró el vehículo"
	msgLoadCar      = "No se pudo cargar la información del vehículo"
	msgInvalidQuery = "Filtro no válido, se muestran todos los vehículos"
)

type featuredBrand struct {
	Name        string
	Logo        string
	Description string
}

type testimonial struct {
	Name    string
	Role    string
	Comment string
	Rating  int
}

type stat struct {
	Value string
	Label string
}

type sortOption struct {
	Value string
	Label string
}

var featuredBrands = []featuredBrand{
	{"Mercedes-Benz", "/brands/mercedesbenz.png", "Lujo y rendimiento alemán en su máxima expresión"},
	{"BMW", "/brands/bmw.png", "El placer de conducir llevado al siguiente nivel"},
	{"Audi", "/brands/audi.png", "A la vanguardia de la tecnología automotriz"},
	{"Porsche", "/brands/porsche.png", "Deportividad y exclusividad sin compromisos"},
}

var testimonials = []testimonial{
	{"Carlos Rodríguez", "Empresario", "El servicio de MyCars superó todas mis expectativas. Encontré el coche de mis sueños a un precio inmejorable.", 5},
	{"Ana Martínez", "Ejecutiva", "La atención personalizada y el conocimiento del equipo de ventas fue excepcional.", 5},
	{"Miguel Sánchez", "Deportista", "Proceso de compra rápido y transparente. Muy satisfecho con mi nuevo vehículo.", 4},
}

var homeStats = []stat{
	{"500+", "Vehículos en Stock"},
	{"50+", "Marcas Premium"},
	{"1000+", "Clientes Satisfechos"},
	{"24/7", "Soporte al Cliente"},
}

var sortOptions = []sortOption{
	{"", "Más recientes"},
	{catalog.SortPriceAsc, "Precio: menor a mayor"},
	{catalog.SortPriceDesc, "Precio: mayor a menor"},
	{catalog.SortYearDesc, "Año: más nuevos"},
	{catalog.SortMileageAsc, "Kilometraje: menor a mayor"},
}

// PageHandler render các trang công khai của catalog.
type PageHandler struct {
	Client *apiclient.Client
	Cars   catalog.CarRepository
	Log    *zap.Logger
}

// Home render trang chủ. Trang này không gọi API.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, web.PageHome, gin.H{
		"Title":          "Inicio",
		"Stats":          homeStats,
		"FeaturedBrands": featuredBrands,
		"Testimonials":   testimonials,
	})
}

// ListBrands render danh sách hãng.
func (h *PageHandler) ListBrands(c *gin.Context) {
	brands, err := resource.Load(c.Request.Context(), h.Client.ListBrands, resource.Generic(msgLoadBrands))
	if err != nil {
		h.discard(c, err)
		return
	}
	h.logFailure(c, "brands", brands.Err)

	c.HTML(statusFor(brands.State, brands.Err), web.PageBrands, gin.H{
		"Title":  "Marcas",
		"Brands": brands,
	})
}

// ListCars render catalog. Xe, hãng (và model nếu đang lọc theo hãng) được tải đồng thời.
func (h *PageHandler) ListCars(c *gin.Context) {
	var filter catalog.Filter
	var filterErr string
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = catalog.Filter{}
		filterErr = msgInvalidQuery
	}

	var (
		cars      resource.Resource[[]models.Car]
		brands    resource.Resource[[]models.Brand]
		modelList = resource.Pending[[]models.Model]()
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		cars, err = resource.Load(ctx, func(ctx context.Context) ([]models.Car, error) {
			return catalog.GetAllCars(ctx, h.Cars)
		}, resource.Generic(msgLoadCars))
		return err
	})
	g.Go(func() (err error) {
		brands, err = resource.Load(ctx, h.Client.ListBrands, resource.Generic(msgLoadBrands))
		return err
	})
	if filter.BrandID != 0 {
		g.Go(func() (err error) {
			modelList, err = resource.Load(ctx, func(ctx context.Context) ([]models.Model, error) {
				return h.Client.ListModelsByBrand(ctx, filter.BrandID)
			}, resource.Generic(msgLoadModels))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.discard(c, err)
		return
	}
	h.logFailure(c, "cars", cars.Err)
	h.logFailure(c, "brands", brands.Err)

	total := len(cars.Data)
	visible := resource.Map(cars, filter.Apply)

	c.HTML(statusFor(cars.State, cars.Err), web.PageCars, gin.H{
		"Title":         "Catálogo",
		"Cars":          visible,
		"Total":         total,
		"Brands":        brands,
		"Models":        modelList,
		"Filter":        filter,
		"FilterError":   filterErr,
		"SortOptions":   sortOptions,
		"Created":       c.Query("created") == "1",
		"LiveInventory": true,
	})
}

// ShowCar render trang chi tiết. ?photo=N chọn ảnh hiện tại của carousel.
func (h *PageHandler) ShowCar(c *gin.Context) {
	id, err := toInt64(c.Param("id"))
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, web.PageCarDetail, gin.H{
			"Title": "Vehículo",
			"Car":   resource.Fail[models.Car](msgCarNotFound, err),
		})
		return
	}

	car, err := resource.Load(c.Request.Context(), func(ctx context.Context) (models.Car, error) {
		return h.Client.GetCar(ctx, id)
	}, describeCarError)
	if err != nil {
		h.discard(c, err)
		return
	}
	h.logFailure(c, "car", car.Err)

	var carousel catalog.Carousel
	if car.IsReady() {
		carousel = catalog.NewCarousel(len(car.Data.Photos), requestedPhoto(c, car.Data))
	}

	title := "Vehículo"
	if car.IsReady() {
		title = car.Data.Model.DisplayName()
	}
	c.HTML(statusFor(car.State, car.Err), web.PageCarDetail, gin.H{
		"Title":    title,
		"Car":      car,
		"Carousel": carousel,
	})
}

// requestedPhoto đọc ?photo; nếu không có thì bắt đầu từ ảnh chính.
func requestedPhoto(c *gin.Context, car models.Car) int {
	if raw, ok := c.GetQuery("photo"); ok {
		n, _ := toInt(raw)
		return n
	}
	for i, p := range car.Photos {
		if p.IsMain {
			return i
		}
	}
	return 0
}

func describeCarError(err error) string {
	if apiclient.IsNotFound(err) {
		return msgCarNotFound
	}
	return msgLoadCar
}

// statusFor chọn HTTP status cho một trang dựa vào trạng thái resource chính.
func statusFor(state resource.State, err error) int {
	if state != resource.Failed {
		return http.StatusOK
	}
	if apiclient.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// discard bỏ kết quả khi request đã kết thúc (client đóng kết nối hoặc timeout).
func (h *PageHandler) discard(c *gin.Context, err error) {
	discardView(c, h.Log, err)
}

func (h *PageHandler) logFailure(c *gin.Context, what string, err error) {
	if err == nil {
		return
	}
	h.Log.Warn("upstream fetch failed",
		zap.String("resource", what),
		zap.String("requestID", middleware.GetRequestID(c)),
		zap.Error(err),
	)
}

func discardView(c *gin.Context, log *zap.Logger, err error) {
	if !errors.Is(err, resource.ErrStale) {
		log.Error("unexpected view error", zap.Error(err))
	} else {
		log.Debug("view gone, result discarded",
			zap.String("path", c.Request.URL.Path),
			zap.String("requestID", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	c.AbortWithStatus(StatusClientClosedRequest)
}
