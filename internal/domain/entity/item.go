package entity

import "time"

// DefaultThreshold umbral por defecto cuando el cliente no lo indica.
const DefaultThreshold = 5

// Estados derivados de la relación cantidad/umbral.
const (
	StatusHigh    = "High"
	StatusWarning = "Warning"
	StatusLow     = "Low"
)

// Item representa un producto físico identificado por un código de barras numérico.
// Quantity nunca es negativa; Barcode no cambia una vez asignado.
type Item struct {
	ID              int64
	Barcode         string
	Name            string
	Quantity        int
	Threshold       int
	ReorderQuantity *int
	Classification  *string
	ArtifactKey     *string // clave de la imagen del código en el almacén de artefactos
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Status compara cantidad con umbral: High (>), Warning (==), Low (<).
func (i *Item) Status() string {
	switch {
	case i.Quantity > i.Threshold:
		return StatusHigh
	case i.Quantity == i.Threshold:
		return StatusWarning
	default:
		return StatusLow
	}
}

// Clone devuelve una copia independiente (los punteros opcionales también se copian).
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.ReorderQuantity != nil {
		v := *i.ReorderQuantity
		c.ReorderQuantity = &v
	}
	if i.Classification != nil {
		v := *i.Classification
		c.Classification = &v
	}
	if i.ArtifactKey != nil {
		v := *i.ArtifactKey
		c.ArtifactKey = &v
	}
	return &c
}
