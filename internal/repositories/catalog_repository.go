package repositories

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"fresas_backend/internal/barcode"
	"fresas_backend/internal/datastore"
	"fresas_backend/internal/models"
	"fresas_backend/pkg/utils"
)

// columnMap holds the detected column index per role for one sheet.
// -1 means the role was not found in the header row.
type columnMap struct {
	codigo, referencia, marca, tipo, precio int
}

// detectColumns maps header cells to column roles by case-insensitive
// substring match. The first column matching a role claims it.
func detectColumns(headers []string) columnMap {
	cm := columnMap{codigo: -1, referencia: -1, marca: -1, tipo: -1, precio: -1}
	for i, h := range headers {
		h = strings.ToUpper(strings.TrimSpace(h))
		switch {
		case cm.codigo == -1 && (strings.Contains(h, "CODIGO") || strings.Contains(h, "ESCANEADO")):
			cm.codigo = i
		case cm.referencia == -1 && (strings.Contains(h, "REFERENCIA") || strings.Contains(h, "REF")):
			cm.referencia = i
		case cm.marca == -1 && (strings.Contains(h, "MARCA") || strings.Contains(h, "PROVEEDOR")):
			cm.marca = i
		case cm.tipo == -1 && strings.Contains(h, "TIPO"):
			cm.tipo = i
		case cm.precio == -1 && strings.Contains(h, "PRECIO"):
			cm.precio = i
		}
	}
	return cm
}

var precioToken = regexp.MustCompile(`(\d+[.,]?\d*)`)

// parsePrecio extracts the first numeric token from a price cell and parses
// it with either "." or "," as the fractional separator. Unparsable or absent
// values yield nil.
func parsePrecio(val string) *float64 {
	match := precioToken.FindString(val)
	if match == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}

// cellAt returns the trimmed cell at idx, tolerating short rows: excelize
// drops trailing empty cells from GetRows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// CatalogRepository serves the in-memory fresa catalog loaded from the
// workbook and appends new catalog entries to it.
type CatalogRepository interface {
	Lookup(code string) (*models.Fresa, bool)
	All() []models.Fresa
	Count() int
	Marcas() []string
	AddFresa(fresa *models.Fresa) error
	// Invalidate marks the cache stale so the next read re-reads the
	// workbook. The cached entries stay available as a fallback.
	Invalidate()
	// Reloads reports how many workbook reads have happened; the staleness
	// window makes this observable.
	Reloads() int64
}

type catalogRepository struct {
	store *datastore.Store
	ttl   time.Duration

	mu       sync.RWMutex
	cache    map[string]*models.Fresa
	lastLoad time.Time

	group   singleflight.Group
	reloads atomic.Int64
}

// NewCatalogRepository creates a CatalogRepository over the given store. ttl
// is the freshness window during which a loaded catalog is reused without
// touching the workbook.
func NewCatalogRepository(store *datastore.Store, ttl time.Duration) CatalogRepository {
	return &catalogRepository{
		store: store,
		ttl:   ttl,
		cache: make(map[string]*models.Fresa),
	}
}

// catalog returns the current catalog, reloading from the workbook when the
// cache is empty or stale. Concurrent callers share a single reload.
func (r *catalogRepository) catalog() map[string]*models.Fresa {
	r.mu.RLock()
	fresh := len(r.cache) > 0 && time.Since(r.lastLoad) < r.ttl
	cache := r.cache
	r.mu.RUnlock()
	if fresh {
		return cache
	}

	r.group.Do("reload", func() (interface{}, error) {
		r.reload()
		return nil, nil
	})

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache
}

// reload reads every sheet of the workbook into a fresh catalog map. On any
// read failure the previous cache is kept untouched.
func (r *catalogRepository) reload() {
	f, err := r.store.OpenWorkbook()
	if err != nil {
		utils.LogError(err, "Catalog reload failed, serving cached catalog")
		return
	}
	defer f.Close()

	r.reloads.Add(1)

	catalog := make(map[string]*models.Fresa)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			utils.LogError(err, "Failed to read sheet "+sheet)
			continue
		}
		if len(rows) < 2 {
			continue
		}

		cm := detectColumns(rows[0])
		if cm.codigo == -1 {
			continue
		}

		for _, row := range rows[1:] {
			code := barcode.Normalize(cellAt(row, cm.codigo))
			if code == "" {
				continue
			}
			fresa := &models.Fresa{
				Barcode:    code,
				Referencia: cellAt(row, cm.referencia),
				Marca:      cellAt(row, cm.marca),
				Tipo:       cellAt(row, cm.tipo),
				Precio:     parsePrecio(cellAt(row, cm.precio)),
			}
			if existing, ok := catalog[code]; ok {
				existing.Merge(fresa)
			} else {
				catalog[code] = fresa
			}
		}
	}

	r.mu.Lock()
	r.cache = catalog
	r.lastLoad = time.Now()
	r.mu.Unlock()

	utils.LogInfo("Catalog loaded from workbook", map[string]interface{}{"fresas": len(catalog)})
}

func (r *catalogRepository) Lookup(code string) (*models.Fresa, bool) {
	fresa, ok := r.catalog()[barcode.Normalize(code)]
	if !ok {
		return nil, false
	}
	copied := *fresa
	return &copied, true
}

func (r *catalogRepository) All() []models.Fresa {
	catalog := r.catalog()
	fresas := make([]models.Fresa, 0, len(catalog))
	for _, f := range catalog {
		fresas = append(fresas, *f)
	}
	sort.Slice(fresas, func(i, j int) bool { return fresas[i].Barcode < fresas[j].Barcode })
	return fresas
}

func (r *catalogRepository) Count() int {
	return len(r.catalog())
}

func (r *catalogRepository) Marcas() []string {
	seen := make(map[string]struct{})
	var marcas []string
	for _, f := range r.catalog() {
		if f.Marca == "" {
			continue
		}
		if _, ok := seen[f.Marca]; ok {
			continue
		}
		seen[f.Marca] = struct{}{}
		marcas = append(marcas, f.Marca)
	}
	sort.Strings(marcas)
	return marcas
}

func (r *catalogRepository) Invalidate() {
	r.mu.Lock()
	r.lastLoad = time.Time{}
	r.mu.Unlock()
}

func (r *catalogRepository) Reloads() int64 {
	return r.reloads.Load()
}

// AddFresa appends a new entry to the first catalog sheet of the workbook,
// using the detected column positions, and marks the cache stale. Duplicate
// checking belongs to the service layer; this is a raw append.
func (r *catalogRepository) AddFresa(fresa *models.Fresa) error {
	r.store.LockWrites()
	defer r.store.UnlockWrites()

	f, err := r.store.OpenWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: workbook has no sheets", ErrNoCodeColumn)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return ErrNoCodeColumn
	}

	cm := detectColumns(rows[0])
	if cm.codigo == -1 {
		return ErrNoCodeColumn
	}

	next := len(rows) + 1
	setCell := func(col int, value interface{}) error {
		if col == -1 {
			return nil
		}
		cell, err := excelCellName(col, next)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if err := setCell(cm.codigo, fresa.Barcode); err != nil {
		return err
	}
	if fresa.Referencia != "" {
		if err := setCell(cm.referencia, fresa.Referencia); err != nil {
			return err
		}
	}
	if fresa.Marca != "" {
		if err := setCell(cm.marca, fresa.Marca); err != nil {
			return err
		}
	}
	if fresa.Tipo != "" {
		if err := setCell(cm.tipo, fresa.Tipo); err != nil {
			return err
		}
	}
	if fresa.Precio != nil {
		if err := setCell(cm.precio, *fresa.Precio); err != nil {
			return err
		}
	}

	if err := r.store.SaveWorkbook(f); err != nil {
		return err
	}

	r.Invalidate()
	utils.LogInfo("Fresa added to catalog", map[string]interface{}{"barcode": fresa.Barcode})
	return nil
}
