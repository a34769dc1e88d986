package router

import (
	"fresas_backend/internal/config"
	"fresas_backend/internal/handlers"
	"fresas_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}
}

// SetupCatalogRoutes sets up the catalog routes. Reads are public so the
// scanner frontend can look up codes before the operator logs in; catalog
// writes require a token.
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, cfg *config.Config) {
	apiGroup.GET("/lookup", catalogHandler.Lookup)
	apiGroup.GET("/catalogo", catalogHandler.GetCatalogo)
	apiGroup.GET("/marcas", catalogHandler.GetMarcas)

	fresaRoutes := apiGroup.Group("/fresas")
	fresaRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		fresaRoutes.POST("", catalogHandler.CreateFresa)
	}
}

// SetupConsumoRoutes sets up the consumo, sync, health and export routes.
func SetupConsumoRoutes(apiGroup *gin.RouterGroup, consumoHandler *handlers.ConsumoHandler, cfg *config.Config) {
	apiGroup.GET("/health", consumoHandler.Health)

	authenticated := apiGroup.Group("")
	authenticated.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authenticated.POST("/consumo", consumoHandler.RegisterConsumo)
		authenticated.POST("/sync", consumoHandler.SyncPending)
		authenticated.GET("/export/consumos", consumoHandler.ExportConsumos)
	}
}
