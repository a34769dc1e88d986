package main

import (
	"log"
	"net/http"

	"fresas_backend/internal/config"
	"fresas_backend/internal/datastore"
	"fresas_backend/internal/middleware"
	"fresas_backend/internal/router"
	"fresas_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger() // Initialize zerolog

	cfg := config.Load()
	utils.LogInfo("Configuration loaded", map[string]interface{}{
		"excel_path":   cfg.ExcelPath,
		"pending_path": cfg.PendingLogPath,
	})

	// The store owns the workbook and pending log; everything else goes
	// through it.
	store := datastore.New(cfg.ExcelPath, cfg.PendingLogPath)
	if !store.ExcelAccessible() {
		utils.LogWarn("Excel workbook not found, starting degraded", map[string]interface{}{"excel_path": cfg.ExcelPath})
	}

	engine := gin.Default()

	// Add request ID and logging middleware
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	catalogService := router.Setup(engine, store, cfg)

	// Preload the catalog so the first scan does not pay the load cost.
	utils.LogInfo("Catalog preloaded", map[string]interface{}{"fresas": catalogService.Count()})

	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
	if err := engine.Run(cfg.Host + ":" + cfg.Port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
