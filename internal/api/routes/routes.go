// internal/api/routes/routes.go
package routes

import (
	"fmt"
	"net/http"

	"mycars-storefront/config"
	"mycars-storefront/internal/api/handlers"
	"mycars-storefront/internal/api/middleware"
	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/socket"
	"mycars-storefront/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps là các thành phần được dựng một lần trong main và chia sẻ cho mọi handler.
type Deps struct {
	Config  config.Config
	Client  *apiclient.Client
	Creator handlers.VehicleCreator
	Hub     *socket.Hub
	Log     *zap.Logger
}

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(deps Deps) (*gin.Engine, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := web.Templates(deps.Client.ResolveURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.Logger(log.Named("http")), middleware.Metrics())
	router.Use(cors.New(corsConfig(deps.Config.CORS)))
	router.SetHTMLTemplate(tmpl)

	cars := apiclient.NewCarRepository(deps.Client)

	pageHandler := &handlers.PageHandler{Client: deps.Client, Cars: cars, Log: log}
	carHandler := &handlers.CarHandler{Client: deps.Client, Creator: deps.Creator, Log: log}
	apiHandler := &handlers.APIHandler{Client: deps.Client, Cars: cars, Log: log}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Log: log}

	// Trang HTML
	router.GET("/", pageHandler.Home)
	router.GET("/brands", pageHandler.ListBrands)
	router.GET("/cars", pageHandler.ListCars)
	router.GET("/cars/new", carHandler.NewForm)
	router.POST("/cars", carHandler.Create)
	router.GET("/cars/:id", pageHandler.ShowCar)

	// JSON cho widget phía trình duyệt
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/brands", apiHandler.GetBrands)
		apiV1.GET("/brands/:id/models", apiHandler.GetModelsByBrand)
		apiV1.GET("/cars", apiHandler.GetCars)
		apiV1.GET("/cars/:id", apiHandler.GetCar)
	}

	router.GET("/ws", webSocketHandler.ServeWs)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, web.PageError, gin.H{
			"Title":   "Página no encontrada",
			"Message": "La página que buscas no existe",
		})
	})

	return router, nil
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	c.AllowHeaders = append(c.AllowHeaders, middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	return c
}
