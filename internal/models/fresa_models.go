package models

// Fresa represents one catalog entry, keyed by its normalized barcode.
// Optional text fields use "" as absent; Precio uses nil so that a real
// price of 0 can never be confused with "no price known".
type Fresa struct {
	Barcode    string   `json:"barcode" binding:"required"`
	Referencia string   `json:"referencia,omitempty"`
	Marca      string   `json:"marca,omitempty"`
	Tipo       string   `json:"tipo,omitempty"`
	Precio     *float64 `json:"precio,omitempty"`
}

// Merge copies the non-empty fields of other into f. Later rows of the
// workbook win ties, but an empty field never clears an earlier value.
func (f *Fresa) Merge(other *Fresa) {
	if other.Referencia != "" {
		f.Referencia = other.Referencia
	}
	if other.Marca != "" {
		f.Marca = other.Marca
	}
	if other.Tipo != "" {
		f.Tipo = other.Tipo
	}
	if other.Precio != nil {
		f.Precio = other.Precio
	}
}
