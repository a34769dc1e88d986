package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"fresas_backend/internal/barcode"
	"fresas_backend/internal/datastore"
	"fresas_backend/internal/models"
	"fresas_backend/internal/repositories"
	"fresas_backend/pkg/utils"
)

// --- DTOs ---

// RegisterConsumoRequest is the payload for registering a consumption event.
// Marca/Tipo are only honored when the barcode is not in the catalog: they
// turn the event into a provisional new-fresa registration.
type RegisterConsumoRequest struct {
	Barcode  string `json:"barcode" binding:"required"`
	Cantidad int    `json:"cantidad" binding:"required,gt=0"`
	Operario string `json:"operario" binding:"required"`
	Proyecto string `json:"proyecto"`
	Marca    string `json:"marca"`
	Tipo     string `json:"tipo"`
}

// RegisterResult distinguishes the committed and pending outcomes. The
// not-found outcome is the ErrFresaNotFound error instead.
type RegisterResult struct {
	Pending bool            `json:"pending"`
	Consumo *models.Consumo `json:"consumo"`
}

// SyncResult reports one reconciliation pass over the pending log.
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// HealthStatus is the system health summary.
type HealthStatus struct {
	Status       string `json:"status"`
	ExcelOK      bool   `json:"excel_ok"`
	PendingCount int    `json:"pending_count"`
	FresaCount   int    `json:"fresa_count"`
}

// --- ConsumoService Interface ---
type ConsumoService interface {
	RegisterConsumo(req RegisterConsumoRequest) (*RegisterResult, error)
	SyncPending() (*SyncResult, error)
	PendingCount() (int, error)
	Health() *HealthStatus
	ExportConsumos(desde, hasta string) ([]models.Consumo, error)
}

// --- consumoService Implementation ---
type consumoService struct {
	store       *datastore.Store
	catalogRepo repositories.CatalogRepository
	consumoRepo repositories.ConsumoRepository
	pendingRepo repositories.PendingRepository
}

// NewConsumoService creates a new instance of ConsumoService.
func NewConsumoService(
	store *datastore.Store,
	catalogRepo repositories.CatalogRepository,
	consumoRepo repositories.ConsumoRepository,
	pendingRepo repositories.PendingRepository,
) ConsumoService {
	return &consumoService{
		store:       store,
		catalogRepo: catalogRepo,
		consumoRepo: consumoRepo,
		pendingRepo: pendingRepo,
	}
}

// RegisterConsumo builds a consumo from the catalog snapshot (or from the
// provided marca/tipo for unknown barcodes) and tries to commit it to the
// workbook, falling back to the pending log when the workbook is locked or
// missing. The returned result tells committed from pending; a barcode that
// is neither catalogued nor accompanied by a marca yields ErrFresaNotFound
// and records nothing.
func (s *consumoService) RegisterConsumo(req RegisterConsumoRequest) (*RegisterResult, error) {
	code := barcode.Normalize(req.Barcode)
	if code == "" {
		return nil, fmt.Errorf("%w: empty after normalization", ErrBarcodeRequired)
	}

	consumo := &models.Consumo{
		ID:       uuid.New().String(),
		Fecha:    time.Now(),
		Barcode:  code,
		Cantidad: req.Cantidad,
		Operario: req.Operario,
		Proyecto: req.Proyecto,
	}

	if fresa, found := s.catalogRepo.Lookup(code); found {
		// The catalog is authoritative once an entry exists.
		consumo.Referencia = fresa.Referencia
		consumo.Marca = fresa.Marca
		consumo.Tipo = fresa.Tipo
		consumo.Precio = fresa.Precio
	} else {
		if req.Marca == "" {
			return nil, ErrFresaNotFound
		}
		// Provisional new-fresa consumo, classified later by hand.
		consumo.Referencia = models.ReferenciaNueva
		consumo.Marca = req.Marca
		consumo.Tipo = req.Tipo
		if consumo.Tipo == "" {
			consumo.Tipo = models.TipoPendiente
		}
	}

	if err := s.consumoRepo.WriteConsumo(consumo); err != nil {
		utils.LogError(err, "Workbook write failed, queueing consumo in pending log")
		if appendErr := s.pendingRepo.Append(consumo); appendErr != nil {
			// Both the workbook and the last-resort log failed; the event
			// would be lost, so this one propagates.
			return nil, appendErr
		}
		return &RegisterResult{Pending: true, Consumo: consumo}, nil
	}

	consumo.Synced = true
	return &RegisterResult{Pending: false, Consumo: consumo}, nil
}

// SyncPending replays unresolved pending log rows into the workbook in
// arrival order. Already-synced rows are carried forward untouched, failed
// and malformed rows stay unresolved. The whole pass runs under the log
// lock, so a consumo queued while it is in flight is never lost to the
// rewrite and two concurrent passes cannot replay the same row twice.
func (s *consumoService) SyncPending() (*SyncResult, error) {
	result := &SyncResult{}
	err := s.pendingRepo.Reconcile(func(rows [][]string) [][]string {
		for _, row := range rows {
			if repositories.RowIsSynced(row) {
				continue
			}

			consumo, err := repositories.RowToConsumo(row)
			if err != nil {
				utils.LogError(err, "Skipping malformed pending row")
				result.Failed++
				continue
			}

			if err := s.consumoRepo.WriteConsumo(consumo); err != nil {
				utils.LogError(err, "Failed to sync pending consumo "+consumo.Barcode)
				result.Failed++
				continue
			}
			repositories.MarkRowSynced(row)
			result.Synced++
		}
		return rows
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile pending log: %w", err)
	}

	utils.LogInfo("Sync complete", map[string]interface{}{
		"synced": result.Synced,
		"failed": result.Failed,
	})
	return result, nil
}

func (s *consumoService) PendingCount() (int, error) {
	return s.pendingRepo.PendingCount()
}

func (s *consumoService) Health() *HealthStatus {
	excelOK := s.store.ExcelAccessible()

	pending, err := s.pendingRepo.PendingCount()
	if err != nil {
		utils.LogError(err, "Failed to count pending consumos for health check")
	}

	fresas := 0
	if excelOK {
		fresas = s.catalogRepo.Count()
	}

	status := "ok"
	if !excelOK {
		status = "degraded"
	}
	return &HealthStatus{
		Status:       status,
		ExcelOK:      excelOK,
		PendingCount: pending,
		FresaCount:   fresas,
	}
}

// ExportConsumos returns the consumo history recorded in the pending log
// (synced rows included), optionally bounded by desde/hasta dates in
// YYYY-MM-DD form. Malformed rows are skipped.
func (s *consumoService) ExportConsumos(desde, hasta string) ([]models.Consumo, error) {
	rows, err := s.pendingRepo.ReadRows()
	if err != nil {
		return nil, fmt.Errorf("failed to read pending log: %w", err)
	}

	var from, to time.Time
	if desde != "" {
		if from, err = time.Parse("2006-01-02", desde); err != nil {
			return nil, fmt.Errorf("%w: invalid desde date %q", ErrValidation, desde)
		}
	}
	if hasta != "" {
		if to, err = time.Parse("2006-01-02", hasta); err != nil {
			return nil, fmt.Errorf("%w: invalid hasta date %q", ErrValidation, hasta)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	consumos := []models.Consumo{}
	for _, row := range rows {
		consumo, err := repositories.RowToConsumo(row)
		if err != nil {
			continue
		}
		if !from.IsZero() && consumo.Fecha.Before(from) {
			continue
		}
		if !to.IsZero() && consumo.Fecha.After(to) {
			continue
		}
		consumos = append(consumos, *consumo)
	}
	return consumos, nil
}
