package dto

import "time"

// AuditResponse registro del historial de cambios (foto posterior al cambio).
type AuditResponse struct {
	ID             int64     `json:"id"`
	ItemID         int64     `json:"item_id"`
	Barcode        string    `json:"barcode"`
	ItemName       string    `json:"item_name"`
	Purpose        string    `json:"purpose"`
	ScannedBy      string    `json:"scanned_by"`
	ScannedAt      time.Time `json:"scanned_at"`
	Quantity       int       `json:"quantity"`
	Threshold      int       `json:"threshold"`
	DecrementedBy  int       `json:"decremented_by"`
	Classification *string   `json:"classification,omitempty"`
}

// AuditListResponse página del historial.
type AuditListResponse struct {
	Items []AuditResponse `json:"items"`
	Skip  int             `json:"skip"`
	Limit int             `json:"limit"`
}
