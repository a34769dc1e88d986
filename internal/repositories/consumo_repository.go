package repositories

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"fresas_backend/internal/datastore"
	"fresas_backend/internal/models"
	"fresas_backend/pkg/utils"
)

// Fixed column layout of the consumo sheets. This is a static contract with
// the workbook template, unlike the catalog headers which are detected.
const (
	colFecha = iota
	colOperario
	colCantidad
	colCodigo
	colReferencia
	colMarca
	colTipo
	colPrecio
	colProyecto
)

const fechaLayout = "2006-01-02 15:04"

// excelCellName converts a zero-based column index and a one-based row into
// an A1-style cell reference.
func excelCellName(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row)
}

// ConsumoRepository appends consumo rows to the workbook sheet of the
// consumo's marca.
type ConsumoRepository interface {
	// WriteConsumo is a best-effort write: any error means nothing usable
	// was committed and the record must go to the pending log instead.
	WriteConsumo(consumo *models.Consumo) error
}

type consumoRepository struct {
	store    *datastore.Store
	sheetMap SheetMap
}

// NewConsumoRepository creates a ConsumoRepository routing consumos with the
// given alias table.
func NewConsumoRepository(store *datastore.Store, sheetMap SheetMap) ConsumoRepository {
	return &consumoRepository{store: store, sheetMap: sheetMap}
}

func (r *consumoRepository) WriteConsumo(consumo *models.Consumo) error {
	r.store.LockWrites()
	defer r.store.UnlockWrites()

	f, err := r.store.OpenWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[r.sheetMap.Route(consumo.Marca, sheets)]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	// Insert one past the last row with a non-empty code cell. Manual edits
	// leave blank trailing rows, so the raw row count is not reliable.
	lastDataRow := 0
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], colCodigo) != "" {
			lastDataRow = i
		}
	}
	next := lastDataRow + 2 // zero-based data row -> one-based next row

	setCell := func(col int, value interface{}) error {
		cell, err := excelCellName(col, next)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
		return nil
	}

	if err := setCell(colFecha, consumo.Fecha.Format(fechaLayout)); err != nil {
		return err
	}
	if err := setCell(colOperario, consumo.Operario); err != nil {
		return err
	}
	if err := setCell(colCantidad, consumo.Cantidad); err != nil {
		return err
	}
	if err := setCell(colCodigo, consumo.Barcode); err != nil {
		return err
	}
	if err := setCell(colReferencia, consumo.Referencia); err != nil {
		return err
	}
	if err := setCell(colMarca, consumo.Marca); err != nil {
		return err
	}
	if err := setCell(colTipo, consumo.Tipo); err != nil {
		return err
	}
	if consumo.Precio != nil {
		if err := setCell(colPrecio, *consumo.Precio); err != nil {
			return err
		}
	}
	if consumo.Proyecto != "" {
		if err := setCell(colProyecto, consumo.Proyecto); err != nil {
			return err
		}
	}

	if err := r.store.SaveWorkbook(f); err != nil {
		return err
	}

	utils.LogInfo("Consumo written to workbook", map[string]interface{}{
		"sheet":    sheet,
		"barcode":  consumo.Barcode,
		"cantidad": consumo.Cantidad,
		"operario": consumo.Operario,
	})
	return nil
}
