package services

import (
	"errors"
	"fmt"
	"strings"

	"fresas_backend/internal/barcode"
	"fresas_backend/internal/models"
	"fresas_backend/internal/repositories"
)

// --- Custom Service Errors for Catalog ---
var (
	ErrFresaNotFound   = errors.New("fresa not found in catalog")
	ErrFresaExists     = errors.New("fresa already exists in catalog")
	ErrBarcodeRequired = errors.New("barcode is required")
	ErrValidation      = errors.New("validation error")
)

// --- DTOs ---

// CreateFresaRequest is the payload for adding a catalog entry.
type CreateFresaRequest struct {
	Barcode    string   `json:"barcode" binding:"required"`
	Referencia string   `json:"referencia"`
	Marca      string   `json:"marca"`
	Tipo       string   `json:"tipo"`
	Precio     *float64 `json:"precio" binding:"omitempty,gte=0"`
}

// CatalogoResult is the truncated catalog listing returned to callers.
type CatalogoResult struct {
	Total  int            `json:"total"`
	Fresas []models.Fresa `json:"fresas"`
}

// --- CatalogService Interface ---
type CatalogService interface {
	Lookup(code string) (*models.Fresa, bool)
	GetCatalogo(search string, limit int) *CatalogoResult
	GetMarcas() []string
	Count() int
	AddFresa(req CreateFresaRequest) (*models.Fresa, error)
}

// --- catalogService Implementation ---
type catalogService struct {
	catalogRepo repositories.CatalogRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(catalogRepo repositories.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) Lookup(code string) (*models.Fresa, bool) {
	return s.catalogRepo.Lookup(code)
}

func (s *catalogService) GetCatalogo(search string, limit int) *CatalogoResult {
	fresas := s.catalogRepo.All()

	if search != "" {
		searchLower := strings.ToLower(search)
		filtered := fresas[:0]
		for _, f := range fresas {
			if strings.Contains(strings.ToLower(f.Barcode), searchLower) ||
				strings.Contains(strings.ToLower(f.Referencia), searchLower) ||
				strings.Contains(strings.ToLower(f.Marca), searchLower) {
				filtered = append(filtered, f)
			}
		}
		fresas = filtered
	}

	if limit > 0 && len(fresas) > limit {
		fresas = fresas[:limit]
	}
	return &CatalogoResult{Total: len(fresas), Fresas: fresas}
}

func (s *catalogService) GetMarcas() []string {
	return s.catalogRepo.Marcas()
}

func (s *catalogService) Count() int {
	return s.catalogRepo.Count()
}

func (s *catalogService) AddFresa(req CreateFresaRequest) (*models.Fresa, error) {
	code := barcode.Normalize(req.Barcode)
	if code == "" {
		return nil, fmt.Errorf("%w: empty after normalization", ErrBarcodeRequired)
	}
	if req.Precio != nil && *req.Precio < 0 {
		return nil, fmt.Errorf("%w: precio cannot be negative", ErrValidation)
	}

	if _, exists := s.catalogRepo.Lookup(code); exists {
		return nil, ErrFresaExists
	}

	fresa := &models.Fresa{
		Barcode:    code,
		Referencia: strings.TrimSpace(req.Referencia),
		Marca:      strings.TrimSpace(req.Marca),
		Tipo:       strings.TrimSpace(req.Tipo),
		Precio:     req.Precio,
	}
	if err := s.catalogRepo.AddFresa(fresa); err != nil {
		return nil, fmt.Errorf("failed to add fresa to catalog: %w", err)
	}
	return fresa, nil
}
