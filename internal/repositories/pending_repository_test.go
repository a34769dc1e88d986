package repositories

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fresas_backend/internal/models"
)

func testConsumo(barcode string) *models.Consumo {
	precio := 12.5
	return &models.Consumo{
		Fecha:      time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC),
		Barcode:    barcode,
		Cantidad:   2,
		Operario:   "juan",
		Proyecto:   "F-1001",
		Referencia: "R-TL",
		Marca:      "HORN",
		Tipo:       "FRESA PLANA",
		Precio:     &precio,
	}
}

func TestPendingAppendAndCount(t *testing.T) {
	repo := NewPendingRepository(filepath.Join(t.TempDir(), "pending_consumos.csv"))

	count, err := repo.PendingCount()
	require.NoError(t, err)
	require.Equal(t, 0, count, "missing log means nothing pending")

	require.NoError(t, repo.Append(testConsumo("TL001")))
	require.NoError(t, repo.Append(testConsumo("TL002")))

	count, err = repo.PendingCount()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	rows, err := repo.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "TL001", rows[0][1], "arrival order preserved")
	require.False(t, RowIsSynced(rows[0]))
}

func TestPendingRowRoundTrip(t *testing.T) {
	repo := NewPendingRepository(filepath.Join(t.TempDir(), "pending_consumos.csv"))
	original := testConsumo("TL001")
	require.NoError(t, repo.Append(original))

	rows, err := repo.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	consumo, err := RowToConsumo(rows[0])
	require.NoError(t, err)
	require.Equal(t, original.Barcode, consumo.Barcode)
	require.Equal(t, original.Cantidad, consumo.Cantidad)
	require.Equal(t, original.Operario, consumo.Operario)
	require.Equal(t, original.Proyecto, consumo.Proyecto)
	require.NotNil(t, consumo.Precio)
	require.InDelta(t, *original.Precio, *consumo.Precio, 0.001)
	require.True(t, original.Fecha.Equal(consumo.Fecha))
	require.False(t, consumo.Synced)
}

func TestRowToConsumoMalformed(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"too short", []string{"2026-08-14T09:30:00Z", "TL001", "2"}},
		{"bad fecha", []string{"yesterday", "TL001", "2", "juan", "", "", "", "", "", "N"}},
		{"bad cantidad", []string{"2026-08-14T09:30:00Z", "TL001", "two", "juan", "", "", "", "", "", "N"}},
		{"zero cantidad", []string{"2026-08-14T09:30:00Z", "TL001", "0", "juan", "", "", "", "", "", "N"}},
		{"bad precio", []string{"2026-08-14T09:30:00Z", "TL001", "2", "juan", "", "", "", "", "cheap", "N"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RowToConsumo(tt.row)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformedRow))
		})
	}
}

func TestPendingReconcile(t *testing.T) {
	repo := NewPendingRepository(filepath.Join(t.TempDir(), "pending_consumos.csv"))
	require.NoError(t, repo.Append(testConsumo("TL001")))
	require.NoError(t, repo.Append(testConsumo("TL002")))

	err := repo.Reconcile(func(rows [][]string) [][]string {
		require.Len(t, rows, 2)
		MarkRowSynced(rows[0])
		return rows
	})
	require.NoError(t, err)

	rows, err := repo.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, RowIsSynced(rows[0]))
	require.False(t, RowIsSynced(rows[1]))
}

func TestPendingReconcileEmptyLogSkipsProcess(t *testing.T) {
	repo := NewPendingRepository(filepath.Join(t.TempDir(), "pending_consumos.csv"))

	called := false
	err := repo.Reconcile(func(rows [][]string) [][]string {
		called = true
		return rows
	})
	require.NoError(t, err)
	require.False(t, called, "an empty log must not trigger a rewrite")
}

func TestPendingRewritePreservesRowCount(t *testing.T) {
	repo := NewPendingRepository(filepath.Join(t.TempDir(), "pending_consumos.csv"))
	require.NoError(t, repo.Append(testConsumo("TL001")))
	require.NoError(t, repo.Append(testConsumo("TL002")))

	rows, err := repo.ReadRows()
	require.NoError(t, err)
	MarkRowSynced(rows[0])
	require.NoError(t, repo.RewriteRows(rows))

	rows, err = repo.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2, "rewrite must never lose or duplicate rows")
	require.True(t, RowIsSynced(rows[0]))
	require.False(t, RowIsSynced(rows[1]))

	count, err := repo.PendingCount()
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
