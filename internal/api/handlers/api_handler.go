// internal/api/handlers/api_handler.go
package handlers

import (
	"errors"
	"net/http"

	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIHandler expose dữ liệu catalog dạng JSON cho widget phía trình duyệt.
type APIHandler struct {
	Client *apiclient.Client
	Cars   catalog.CarRepository
	Log    *zap.Logger
}

func (h *APIHandler) GetBrands(c *gin.Context) {
	brands, err := h.Client.ListBrands(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *APIHandler) GetModelsByBrand(c *gin.Context) {
	brandID, err := toInt64(c.Param("id"))
	if err != nil || brandID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brand ID"})
		return
	}
	list, err := h.Client.ListModelsByBrand(c.Request.Context(), brandID)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCars hỗ trợ cùng bộ lọc query như trang catalog.
func (h *APIHandler) GetCars(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cars, err := catalog.GetAllCars(c.Request.Context(), h.Cars)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter.Apply(cars))
}

func (h *APIHandler) GetCar(c *gin.Context) {
	id, err := toInt64(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID"})
		return
	}
	car, err := h.Client.GetCar(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// upstreamError chuyển lỗi từ API phía sau thành JSON {"error": ...}.
func (h *APIHandler) upstreamError(c *gin.Context, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": apiErr.Message})
	case errors.As(err, &apiErr):
		h.Log.Warn("upstream returned error", zap.Int("status", apiErr.StatusCode), zap.String("message", apiErr.Message))
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
	default:
		h.Log.Error("upstream request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog API unavailable"})
	}
}
