package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/SscSPs/fx_exchange_engine/cmd/docs"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// gatherer backs /metrics; limiterInstance may be nil to disable rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
	gatherer prometheus.Gatherer,
) {
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	setupAPIV1Routes(r, cfg, services, limiterInstance)

	setupSwaggerRoutes(r, cfg)
}

// corsConfig allows the listed origins with credentials, or every origin
// without credentials when the list is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")
	if limiterInstance != nil {
		v1.Use(middleware.RateLimit(limiterInstance))
	}
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerRateRoutes(v1, services.Rates, services.History)
	registerExchangeRoutes(v1, services.Exchange)
	registerRateAlertRoutes(v1, services.Alerts)
	registerReferenceRoutes(v1, services.Reference)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
