package dto

import "time"

// CreateItemRequest body para POST /api/items. El código de barras lo asigna el servidor.
type CreateItemRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	Quantity        int     `json:"quantity" validate:"min=0"`
	Threshold       *int    `json:"threshold" validate:"omitempty,min=0"`
	ReorderQuantity *int    `json:"quantity_to_order" validate:"omitempty,min=0"`
	Classification  *string `json:"classification" validate:"omitempty,max=100"`
}

// UpdateItemRequest body para PATCH /api/items/:barcode. La cantidad solo cambia por escaneo o corrección.
type UpdateItemRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	Threshold       *int    `json:"threshold" validate:"omitempty,min=0"`
	ReorderQuantity *int    `json:"quantity_to_order" validate:"omitempty,min=0"`
	Classification  *string `json:"classification" validate:"omitempty,max=100"`
}

// ScanRequest body para POST /api/items/:barcode/scan (decremento).
// El body es opcional: sin amount el escaneo descuenta una unidad.
type ScanRequest struct {
	Amount    *int   `json:"amount"`
	Purpose   string `json:"purpose" validate:"max=200"`
	ScannedBy string `json:"scanned_by" validate:"max=200"`
}

// SetQuantityRequest body para PUT /api/items/:barcode/quantity (corrección manual).
type SetQuantityRequest struct {
	Quantity  int    `json:"quantity"`
	Purpose   string `json:"purpose" validate:"max=200"`
	ScannedBy string `json:"scanned_by" validate:"max=200"`
}

// DefaultScanAmount unidades que descuenta un escaneo sin amount.
const DefaultScanAmount = 1

// AmountOrDefault devuelve Amount o DefaultScanAmount si no vino.
func (r ScanRequest) AmountOrDefault() int {
	if r.Amount == nil {
		return DefaultScanAmount
	}
	return *r.Amount
}

// ItemResponse salida de un producto con su estado derivado.
type ItemResponse struct {
	ID              int64     `json:"id"`
	Barcode         string    `json:"barcode"`
	Name            string    `json:"name"`
	Quantity        int       `json:"quantity"`
	Threshold       int       `json:"threshold"`
	ReorderQuantity *int      `json:"quantity_to_order,omitempty"`
	Classification  *string   `json:"classification,omitempty"`
	Status          string    `json:"status"` // High | Warning | Low
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemListResponse lista de productos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// MutationResponse resultado de un cambio de cantidad aceptado.
type MutationResponse struct {
	Item    ItemResponse  `json:"item"`
	Crossed bool          `json:"threshold_crossed"`
	Audit   AuditResponse `json:"audit"`
}
