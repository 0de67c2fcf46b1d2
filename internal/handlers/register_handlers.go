package handlers

import (
	"net/http"

	"github.com/SscSPs/mortuary_billing_app/cmd/docs"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/SscSPs/mortuary_billing_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	clk clock.Clock,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services, clk)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	clk clock.Clock,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterCaseRoutes(v1, service.Case)
	RegisterCoffinRoutes(v1, service.Coffin)
	RegisterExtraChargeRoutes(v1, service.ExtraCharge)
	RegisterPaymentRoutes(v1, service.Payment)
	RegisterReconciliationRoutes(v1, service.Reconciliation, service.ChargeHistory, service.Trigger, clk)
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
