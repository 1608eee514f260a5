package repository

import (
	"context"

	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia para el historial de cambios de cantidad.
// Solo inserción, lectura y borrado administrativo: las entradas no se actualizan.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	GetByID(ctx context.Context, id int64) (*entity.AuditEntry, error)
	// List ordena por fecha de registro ascendente (más antiguo primero).
	List(ctx context.Context, skip, limit int) ([]*entity.AuditEntry, error)
	ListByItem(ctx context.Context, itemID int64, skip, limit int) ([]*entity.AuditEntry, error)
	Delete(ctx context.Context, id int64) error
}
