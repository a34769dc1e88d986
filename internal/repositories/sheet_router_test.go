package repositories

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSheetMapRoute(t *testing.T) {
	sheets := []string{"FRESAS", "MITSUBISHI 2024", "SUM-WIDIA", "HORN"}
	m := DefaultSheetMap()

	tests := []struct {
		marca    string
		expected int
	}{
		{"Sumitomo Widin", 2},
		{"WIDIN", 2},
		{"horn", 3},
		{"Mitsubishi Materials", 1},
		{"UnknownBrand", 0},
		{"", 0},
		{"   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.marca, func(t *testing.T) {
			if got := m.Route(tt.marca, sheets); got != tt.expected {
				t.Errorf("Route(%q) = %d, want %d", tt.marca, got, tt.expected)
			}
		})
	}
}

func TestSheetMapRouteNoMatchingSheet(t *testing.T) {
	// Keyword matches but no sheet carries the pattern: fall back to sheet 0.
	sheets := []string{"FRESAS", "HORN"}
	if got := DefaultSheetMap().Route("Sumitomo", sheets); got != 0 {
		t.Errorf("Route() = %d, want 0", got)
	}
}

func TestLoadSheetMap(t *testing.T) {
	custom := SheetMap{{Keyword: "ACME", Pattern: "ACME-LOG"}}
	data, _ := json.Marshal(custom)
	path := filepath.Join(t.TempDir(), "sheet_map.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	m := LoadSheetMap(path)
	if len(m) != 1 || m[0].Keyword != "ACME" {
		t.Errorf("LoadSheetMap() = %+v, want custom table", m)
	}

	// Empty path and missing file both fall back to the defaults.
	if len(LoadSheetMap("")) == 0 {
		t.Error("LoadSheetMap(\"\") returned empty map")
	}
	if len(LoadSheetMap(filepath.Join(t.TempDir(), "missing.json"))) == 0 {
		t.Error("LoadSheetMap(missing) returned empty map")
	}
}
