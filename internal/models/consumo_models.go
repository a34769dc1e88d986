package models

import "time"

// Sentinel values recorded for consumos of items that are not yet in the
// catalog. The catalog keeper classifies them later by hand.
const (
	ReferenciaNueva = "NUEVA"
	TipoPendiente   = "PENDIENTE"
)

// Consumo is one usage event: an operator consumed a quantity of a fresa,
// optionally charged to a project (ficha). Referencia/Marca/Tipo/Precio are a
// snapshot of the catalog at registration time and never change afterwards.
type Consumo struct {
	ID         string    `json:"id,omitempty"`
	Fecha      time.Time `json:"fecha"`
	Barcode    string    `json:"barcode"`
	Cantidad   int       `json:"cantidad"`
	Operario   string    `json:"operario"`
	Proyecto   string    `json:"proyecto,omitempty"`
	Referencia string    `json:"referencia,omitempty"`
	Marca      string    `json:"marca,omitempty"`
	Tipo       string    `json:"tipo,omitempty"`
	Precio     *float64  `json:"precio,omitempty"`
	// Synced is false while the record only exists in the pending log and
	// flips to true once it has been committed to the workbook.
	Synced bool `json:"synced"`
}
