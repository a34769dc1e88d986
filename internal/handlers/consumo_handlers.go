package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fresas_backend/internal/repositories"
	"fresas_backend/internal/services"
	"fresas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ConsumoHandler holds the consumo service.
type ConsumoHandler struct {
	consumoService services.ConsumoService
}

// NewConsumoHandler creates a new ConsumoHandler.
func NewConsumoHandler(cs services.ConsumoService) *ConsumoHandler {
	return &ConsumoHandler{consumoService: cs}
}

// RegisterConsumo handles registering a consumption event. The response
// carries a pending flag so the frontend can tell a committed write from a
// queued one; an unknown barcode without marca data is a 404 with not_found
// set, which the frontend uses to prompt for manual entry.
func (h *ConsumoHandler) RegisterConsumo(c *gin.Context) {
	var req services.RegisterConsumoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.consumoService.RegisterConsumo(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFresaNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
				"code":      utils.ErrCodeNotFound,
				"message":   "Barcode not found in catalog.",
				"not_found": true,
			}})
		case errors.Is(err, services.ErrBarcodeRequired):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid barcode.", err.Error()))
		case errors.Is(err, repositories.ErrPendingLogUnavailable):
			utils.LogError(err, "RegisterConsumo: pending log unavailable, consumo NOT recorded")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Could not record consumo anywhere.", err.Error()))
		default:
			utils.LogError(err, "RegisterConsumo: Error from consumoService.RegisterConsumo")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register consumo.", "Internal error"))
		}
		return
	}

	message := "Consumo registrado"
	if result.Pending {
		message = "Guardado en cola pendiente (Excel bloqueado)"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pending": result.Pending,
		"message": message,
		"data":    result.Consumo,
	})
}

// SyncPending handles replaying the pending log into the workbook.
func (h *ConsumoHandler) SyncPending(c *gin.Context) {
	result, err := h.consumoService.SyncPending()
	if err != nil {
		utils.LogError(err, "SyncPending: Error from consumoService.SyncPending")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Sync failed.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health handles the system health check.
func (h *ConsumoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.consumoService.Health())
}

// ExportConsumos streams the recorded consumos as a CSV attachment for ERP
// import, optionally filtered by desde/hasta dates (YYYY-MM-DD).
func (h *ConsumoHandler) ExportConsumos(c *gin.Context) {
	consumos, err := h.consumoService.ExportConsumos(c.Query("desde"), c.Query("hasta"))
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "ExportConsumos: Error from consumoService.ExportConsumos")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Export failed.", err.Error()))
		return
	}

	filename := fmt.Sprintf("consumos_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"fecha", "barcode", "referencia", "marca", "tipo", "precio", "cantidad", "operario"})
	for i := range consumos {
		consumo := &consumos[i]
		precio := ""
		if consumo.Precio != nil {
			precio = strconv.FormatFloat(*consumo.Precio, 'f', -1, 64)
		}
		_ = w.Write([]string{
			consumo.Fecha.Format(time.RFC3339),
			consumo.Barcode,
			consumo.Referencia,
			consumo.Marca,
			consumo.Tipo,
			precio,
			strconv.Itoa(consumo.Cantidad),
			consumo.Operario,
		})
	}
	w.Flush()
}
