package repositories

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"fresas_backend/internal/models"
	"fresas_backend/pkg/utils"
)

// pendingHeader is the fixed header row of the pending log. The trailing
// synced marker is "Y" once a row has been committed to the workbook.
var pendingHeader = []string{
	"fecha", "barcode", "cantidad", "operario", "proyecto",
	"referencia", "marca", "tipo", "precio", "synced",
}

const (
	markerSynced  = "Y"
	markerPending = "N"
)

// PendingRepository owns the durable CSV log of consumos that could not be
// written to the workbook. No other component touches the file directly.
type PendingRepository interface {
	Append(consumo *models.Consumo) error
	PendingCount() (int, error)
	// ReadRows returns all data rows in arrival order, including rows that
	// do not parse; reconciliation decides what to do with them.
	ReadRows() ([][]string, error)
	// RewriteRows atomically replaces the log contents with the given rows.
	RewriteRows(rows [][]string) error
	// Reconcile runs process over the current data rows and rewrites the log
	// with its result, holding the log lock for the whole pass. Appends block
	// until the pass finishes, so a consumo queued mid-pass can never be
	// erased by the rewrite. An empty log skips process entirely.
	Reconcile(process func(rows [][]string) [][]string) error
}

type pendingRepository struct {
	path string
	mu   sync.Mutex
}

// NewPendingRepository creates a PendingRepository over the given log path.
func NewPendingRepository(path string) PendingRepository {
	return &pendingRepository{path: path}
}

// ConsumoToRow serializes a consumo into a pending log row.
func ConsumoToRow(c *models.Consumo) []string {
	precio := ""
	if c.Precio != nil {
		precio = strconv.FormatFloat(*c.Precio, 'f', -1, 64)
	}
	marker := markerPending
	if c.Synced {
		marker = markerSynced
	}
	return []string{
		c.Fecha.Format(time.RFC3339),
		c.Barcode,
		strconv.Itoa(c.Cantidad),
		c.Operario,
		c.Proyecto,
		c.Referencia,
		c.Marca,
		c.Tipo,
		precio,
		marker,
	}
}

// RowToConsumo parses a pending log row back into a consumo. Rows that are
// too short or carry unparsable fields yield ErrMalformedRow.
func RowToConsumo(row []string) (*models.Consumo, error) {
	if len(row) != len(pendingHeader) {
		return nil, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRow, len(row), len(pendingHeader))
	}
	fecha, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad fecha %q", ErrMalformedRow, row[0])
	}
	cantidad, err := strconv.Atoi(row[2])
	if err != nil || cantidad <= 0 {
		return nil, fmt.Errorf("%w: bad cantidad %q", ErrMalformedRow, row[2])
	}
	var precio *float64
	if row[8] != "" {
		p, err := strconv.ParseFloat(row[8], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad precio %q", ErrMalformedRow, row[8])
		}
		precio = &p
	}
	return &models.Consumo{
		Fecha:      fecha,
		Barcode:    row[1],
		Cantidad:   cantidad,
		Operario:   row[3],
		Proyecto:   row[4],
		Referencia: row[5],
		Marca:      row[6],
		Tipo:       row[7],
		Precio:     precio,
		Synced:     row[9] == markerSynced,
	}, nil
}

// RowIsSynced reports whether a raw log row carries the synced marker.
func RowIsSynced(row []string) bool {
	return len(row) > 0 && row[len(row)-1] == markerSynced
}

// MarkRowSynced flips the trailing marker of a raw log row to synced.
func MarkRowSynced(row []string) {
	if len(row) > 0 {
		row[len(row)-1] = markerSynced
	}
}

func (r *pendingRepository) Append(consumo *models.Consumo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}

	info, statErr := os.Stat(r.path)
	newFile := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(pendingHeader); err != nil {
			return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
		}
	}
	if err := w.Write(ConsumoToRow(consumo)); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}

	utils.LogInfo("Consumo queued in pending log", map[string]interface{}{"barcode": consumo.Barcode})
	return nil
}

func (r *pendingRepository) PendingCount() (int, error) {
	rows, err := r.ReadRows()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		if len(row) > 0 && !RowIsSynced(row) {
			count++
		}
	}
	return count, nil
}

func (r *pendingRepository) ReadRows() ([][]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readRowsLocked()
}

func (r *pendingRepository) readRowsLocked() ([][]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open pending log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate malformed rows, reconciliation counts them
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read pending log: %w", err)
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

func (r *pendingRepository) RewriteRows(rows [][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rewriteRowsLocked(rows)
}

func (r *pendingRepository) Reconcile(process func(rows [][]string) [][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.readRowsLocked()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.rewriteRowsLocked(process(rows))
}

func (r *pendingRepository) rewriteRowsLocked(rows [][]string) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "pending_consumos_*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(pendingHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingLogUnavailable, err)
	}
	return nil
}
