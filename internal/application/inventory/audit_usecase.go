package inventory

import (
	"context"

	"github.com/fiecl/barcode-inventory-management/internal/application/dto"
	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
)

// AuditUseCase lectura y borrado administrativo del historial de cambios.
type AuditUseCase struct {
	audits repository.AuditRepository
	items  repository.ItemRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(audits repository.AuditRepository, items repository.ItemRepository) *AuditUseCase {
	return &AuditUseCase{audits: audits, items: items}
}

// List página del historial, del más antiguo al más reciente.
func (uc *AuditUseCase) List(ctx context.Context, skip, limit int) ([]*entity.AuditEntry, error) {
	page := dto.SkipLimit{Skip: skip, Limit: limit}
	page.Normalize()
	list, err := uc.audits.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

// ListByItem historial de un producto. domain.ErrNotFound si el código no existe.
func (uc *AuditUseCase) ListByItem(ctx context.Context, barcode string, skip, limit int) ([]*entity.AuditEntry, error) {
	item, err := uc.items.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, storageErr(err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	page := dto.SkipLimit{Skip: skip, Limit: limit}
	page.Normalize()
	list, err := uc.audits.ListByItem(ctx, item.ID, page.Skip, page.Limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

// Delete elimina un registro. domain.ErrNotFound si no existe.
func (uc *AuditUseCase) Delete(ctx context.Context, id int64) error {
	return storageErr(uc.audits.Delete(ctx, id))
}
