package router

import (
	"fresas_backend/internal/config"
	"fresas_backend/internal/datastore"
	"fresas_backend/internal/handlers"
	"fresas_backend/internal/repositories"
	"fresas_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application and returns the catalog
// service so main can preload the catalog on startup.
func Setup(engine *gin.Engine, store *datastore.Store, cfg *config.Config) services.CatalogService {
	// Initialize Repositories
	catalogRepo := repositories.NewCatalogRepository(store, cfg.CatalogTTL)
	consumoRepo := repositories.NewConsumoRepository(store, repositories.LoadSheetMap(cfg.SheetMapPath))
	pendingRepo := repositories.NewPendingRepository(store.PendingPath())

	// Initialize Services
	catalogService := services.NewCatalogService(catalogRepo)
	consumoService := services.NewConsumoService(store, catalogRepo, consumoRepo, pendingRepo)
	authService := services.NewAuthService(cfg.AdminPIN, cfg.AdminPINHash, cfg.JWTSecret, cfg.JWTExpire)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	consumoHandler := handlers.NewConsumoHandler(consumoService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)
	SetupCatalogRoutes(apiV1, catalogHandler, cfg)
	SetupConsumoRoutes(apiV1, consumoHandler, cfg)

	return catalogService
}
