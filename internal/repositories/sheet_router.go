package repositories

import (
	"encoding/json"
	"os"
	"strings"

	"fresas_backend/pkg/utils"
)

// SheetAlias maps a keyword found inside a marca string to a pattern that
// identifies the target consumo sheet by name.
type SheetAlias struct {
	Keyword string `json:"keyword"`
	Pattern string `json:"pattern"`
}

// SheetMap is the ordered alias table used to route a consumo to the sheet
// of its marca. Order matters: the first keyword found in the marca wins.
type SheetMap []SheetAlias

// DefaultSheetMap returns the built-in alias table. Deployments with other
// marcas or sheet names override it with a JSON file (see LoadSheetMap).
func DefaultSheetMap() SheetMap {
	return SheetMap{
		{Keyword: "MITSUBISHI", Pattern: "MITSUBIS"},
		{Keyword: "MITSHUBITSHI", Pattern: "MITSUBIS"},
		{Keyword: "MITSUBIS", Pattern: "MITSUBIS"},
		{Keyword: "SUMITOMO", Pattern: "SUM-WID"},
		{Keyword: "WIDIN", Pattern: "SUM-WID"},
		{Keyword: "WIDEAL", Pattern: "SUM-WID"},
		{Keyword: "HORN", Pattern: "HORN"},
		{Keyword: "SUM", Pattern: "SUM-WID"},
		{Keyword: "WID", Pattern: "SUM-WID"},
		{Keyword: "AYMA", Pattern: "AYMA"},
		{Keyword: "WNT", Pattern: "WNT"},
		{Keyword: "TAEGU", Pattern: "TAEGU"},
		{Keyword: "TUNGA", Pattern: "TUNGA"},
		{Keyword: "TUNGALOY", Pattern: "TUNGA"},
	}
}

// LoadSheetMap reads an alias table from a JSON file. An empty path or a
// missing file falls back to the defaults; a present but unreadable file is
// logged and also falls back, so a bad deployment cannot break routing.
func LoadSheetMap(path string) SheetMap {
	if path == "" {
		return DefaultSheetMap()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			utils.LogError(err, "Failed to read sheet map file, using defaults")
		}
		return DefaultSheetMap()
	}
	var m SheetMap
	if err := json.Unmarshal(data, &m); err != nil {
		utils.LogError(err, "Failed to parse sheet map file, using defaults")
		return DefaultSheetMap()
	}
	if len(m) == 0 {
		utils.LogWarn("Sheet map file is empty, using defaults", map[string]interface{}{"path": path})
		return DefaultSheetMap()
	}
	return m
}

// Route returns the index into sheetNames of the consumo sheet for the given
// marca. An empty marca, an unknown marca, or a pattern with no matching
// sheet all fall back to the first sheet.
func (m SheetMap) Route(marca string, sheetNames []string) int {
	if strings.TrimSpace(marca) == "" || len(sheetNames) == 0 {
		return 0
	}
	marcaUpper := strings.ToUpper(strings.TrimSpace(marca))

	for _, alias := range m {
		if !strings.Contains(marcaUpper, alias.Keyword) {
			continue
		}
		// The first keyword found in the marca commits to its pattern.
		for i, name := range sheetNames {
			if strings.Contains(strings.ToUpper(name), alias.Pattern) {
				return i
			}
		}
		break
	}
	return 0
}
