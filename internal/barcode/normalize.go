// Package barcode canonicalizes scanned or hand-typed barcodes so that the
// same physical code always maps to one catalog key, regardless of how the
// spreadsheet or the scanner mangled it.
package barcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// trailingZeroRemainder matches a decimal remainder of exactly zero, e.g.
// ",00" or ".0", left behind when the spreadsheet stores a code as a number.
var trailingZeroRemainder = regexp.MustCompile(`[,.]0+$`)

// Normalize returns the canonical form of a raw barcode. It is pure and
// idempotent; an empty or whitespace-only input yields "".
func Normalize(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return ""
	}

	code = trailingZeroRemainder.ReplaceAllString(code, "")

	// Spreadsheets sometimes render long numeric codes in scientific
	// notation. Expand those back to a plain integer string.
	if strings.Contains(code, "E+") || strings.Contains(code, "E-") {
		if f, err := strconv.ParseFloat(code, 64); err == nil {
			code = strconv.FormatFloat(math.Trunc(f), 'f', -1, 64)
		}
	}

	return code
}
