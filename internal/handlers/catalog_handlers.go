package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fresas_backend/internal/repositories"
	"fresas_backend/internal/services"
	"fresas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler holds the catalog service.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// Lookup handles barcode lookup for the scanner autocomplete.
func (h *CatalogHandler) Lookup(c *gin.Context) {
	code := c.Query("barcode")
	if utils.IsEmpty(code) {
		utils.RespondValidationFailed(c, "barcode query parameter is required")
		return
	}

	fresa, found := h.catalogService.Lookup(code)
	if !found {
		c.JSON(http.StatusOK, gin.H{"found": false, "fresa": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "fresa": fresa})
}

// GetCatalogo handles fetching the fresa catalog with optional search and limit.
func (h *CatalogHandler) GetCatalogo(c *gin.Context) {
	search := c.Query("search")

	limit := 200
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 500 {
			utils.RespondValidationFailed(c, "limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, h.catalogService.GetCatalogo(search, limit))
}

// GetMarcas handles fetching the distinct marcas present in the catalog.
func (h *CatalogHandler) GetMarcas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"marcas": h.catalogService.GetMarcas()})
}

// CreateFresa handles adding a new fresa to the workbook catalog.
func (h *CatalogHandler) CreateFresa(c *gin.Context) {
	var req services.CreateFresaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	fresa, err := h.catalogService.AddFresa(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFresaExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "This fresa already exists in the catalog.", err.Error()))
		case errors.Is(err, services.ErrBarcodeRequired), errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid fresa data.", err.Error()))
		case errors.Is(err, repositories.ErrNoCodeColumn):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No barcode column found in the catalog sheet.", err.Error()))
		default:
			utils.LogError(err, "CreateFresa: Error from catalogService.AddFresa")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "Could not write to the workbook.", err.Error()))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Fresa added to catalog", "data": fresa})
}
