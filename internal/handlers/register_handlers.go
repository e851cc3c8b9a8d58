package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/freightdesk/backend/cmd/docs"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/pkg/config"
)

// RegisterRoutes sets up all application routes. Routes live at the
// root so the permission guard can key grants off the first two path
// segments; /auth, /health and /api stay outside the guard.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter gin.HandlerFunc,
) {
	r.GET("/health", getHealth)

	root := r.Group("")
	registerAuthRoutes(root, services.Auth, loginLimiter)
	registerQuotationRoutes(root, services.Quotation)
	registerInvoiceRoutes(root, services.Invoice)
	registerRoleRoutes(root, services.Role)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/api/docs")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
