package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fresas_backend/internal/datastore"
	"fresas_backend/internal/repositories"
)

func newCatalogTestService(t *testing.T, rows [][]string) CatalogService {
	t.Helper()
	dir := t.TempDir()
	excelPath := filepath.Join(dir, "Control FRESAS.xlsx")
	writeConsumoWorkbook(t, excelPath, rows)
	store := datastore.New(excelPath, filepath.Join(dir, "pending_consumos.csv"))
	return NewCatalogService(repositories.NewCatalogRepository(store, time.Minute))
}

func TestCatalogLookupNormalizesInput(t *testing.T) {
	svc := newCatalogTestService(t, [][]string{{"TL001", "R-TL", "HORN", "", "12,5"}})

	fresa, found := svc.Lookup("  tl001  ")
	require.True(t, found)
	require.Equal(t, "TL001", fresa.Barcode)

	_, found = svc.Lookup("NOPE")
	require.False(t, found)
}

func TestGetCatalogoSearchAndLimit(t *testing.T) {
	svc := newCatalogTestService(t, [][]string{
		{"TL001", "R-TL", "HORN", "", ""},
		{"TL002", "R-XY", "WNT", "", ""},
		{"ZZ900", "OTHER", "AYMA", "", ""},
	})

	result := svc.GetCatalogo("", 200)
	require.Equal(t, 3, result.Total)

	// Case-insensitive substring over barcode, referencia and marca.
	result = svc.GetCatalogo("tl0", 200)
	require.Equal(t, 2, result.Total)

	result = svc.GetCatalogo("horn", 200)
	require.Equal(t, 1, result.Total)
	require.Equal(t, "TL001", result.Fresas[0].Barcode)

	result = svc.GetCatalogo("", 2)
	require.Equal(t, 2, result.Total)
	require.Len(t, result.Fresas, 2)
}

func TestGetMarcas(t *testing.T) {
	svc := newCatalogTestService(t, [][]string{
		{"TL001", "", "HORN", "", ""},
		{"TL002", "", "WNT", "", ""},
		{"TL003", "", "HORN", "", ""},
		{"TL004", "", "", "", ""},
	})

	require.Equal(t, []string{"HORN", "WNT"}, svc.GetMarcas())
}

func TestAddFresaDuplicate(t *testing.T) {
	svc := newCatalogTestService(t, [][]string{{"TL001", "R-TL", "HORN", "", ""}})

	_, err := svc.AddFresa(CreateFresaRequest{Barcode: "tl001,00", Referencia: "dup"})
	require.True(t, errors.Is(err, ErrFresaExists), "normalized duplicate must be rejected")

	fresa, err := svc.AddFresa(CreateFresaRequest{Barcode: "tl002", Marca: "WNT"})
	require.NoError(t, err)
	require.Equal(t, "TL002", fresa.Barcode)

	_, found := svc.Lookup("TL002")
	require.True(t, found)
}

func TestAddFresaEmptyBarcode(t *testing.T) {
	svc := newCatalogTestService(t, [][]string{{"TL001", "", "", "", ""}})

	_, err := svc.AddFresa(CreateFresaRequest{Barcode: "   "})
	require.True(t, errors.Is(err, ErrBarcodeRequired))
}
