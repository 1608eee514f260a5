package dto

import "github.com/fiecl/barcode-inventory-management/internal/domain/entity"

// NewItemResponse mapea un producto con su estado derivado.
func NewItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:              i.ID,
		Barcode:         i.Barcode,
		Name:            i.Name,
		Quantity:        i.Quantity,
		Threshold:       i.Threshold,
		ReorderQuantity: i.ReorderQuantity,
		Classification:  i.Classification,
		Status:          i.Status(),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// NewItemListResponse mapea una lista de productos.
func NewItemListResponse(list []*entity.Item) ItemListResponse {
	out := ItemListResponse{Items: make([]ItemResponse, 0, len(list)), Total: len(list)}
	for _, i := range list {
		out.Items = append(out.Items, NewItemResponse(i))
	}
	return out
}

// NewAuditResponse mapea un registro de auditoría.
func NewAuditResponse(e *entity.AuditEntry) AuditResponse {
	return AuditResponse{
		ID:             e.ID,
		ItemID:         e.ItemID,
		Barcode:        e.Barcode,
		ItemName:       e.ItemName,
		Purpose:        e.Purpose,
		ScannedBy:      e.ScannedBy,
		ScannedAt:      e.ScannedAt,
		Quantity:       e.Quantity,
		Threshold:      e.Threshold,
		DecrementedBy:  e.DecrementedBy,
		Classification: e.Classification,
	}
}

// NewAuditListResponse mapea una página del historial.
func NewAuditListResponse(list []*entity.AuditEntry, page SkipLimit) AuditListResponse {
	out := AuditListResponse{Items: make([]AuditResponse, 0, len(list)), Skip: page.Skip, Limit: page.Limit}
	for _, e := range list {
		out.Items = append(out.Items, NewAuditResponse(e))
	}
	return out
}

// NewRecipientResponse mapea un destinatario.
func NewRecipientResponse(r *entity.Recipient) RecipientResponse {
	return RecipientResponse{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt}
}
