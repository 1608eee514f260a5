package entity

import "time"

// Propósitos registrados por el libro cuando el cliente no envía uno.
const (
	PurposeScan       = "scan"
	PurposeCorrection = "manual correction"
)

// AuditEntry registro inmutable de un cambio de cantidad aceptado.
// Quantity y Threshold son la foto del producto después del cambio y no se actualizan nunca.
// DecrementedBy = cantidad previa - cantidad nueva (negativo si una corrección subió el stock).
type AuditEntry struct {
	ID             int64
	ItemID         int64
	Barcode        string
	ItemName       string
	Purpose        string
	ScannedBy      string
	ScannedAt      time.Time
	Quantity       int
	Threshold      int
	DecrementedBy  int
	Classification *string
}
