package barcode

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Plain codes
		{"TL001", "TL001"},
		{"tl001", "TL001"},
		{"  AB-12  ", "AB-12"},

		// Numeric cells with a zero decimal remainder
		{"ABC123,00", "ABC123"},
		{"ABC123.00", "ABC123"},
		{"123.0", "123"},
		{"123,0", "123"},

		// Non-zero remainders are part of the code and stay
		{"123.45", "123.45"},
		{"ABC,01", "ABC,01"},

		// Scientific notation from numeric cells
		{"1.23E+5", "123000"},
		{"8.412003E+12", "8412003000000"},

		// Empty input is never a valid barcode
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"TL001", "tl001", "ABC123,00", "1.23E+5", "123.0", "123.45", "", "  x  ",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
