package repository

import (
	"context"

	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas devuelven (nil, nil) si el código no existe.
type ItemRepository interface {
	// ReserveBarcode registra el código de forma atómica; domain.ErrDuplicate si ya fue emitido alguna vez.
	ReserveBarcode(ctx context.Context, barcode string) error
	Create(ctx context.Context, item *entity.Item) error
	GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error)
	// GetForUpdate lee el producto y lo bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, barcode string) (*entity.Item, error)
	List(ctx context.Context) ([]*entity.Item, error)
	UpdateQuantity(ctx context.Context, barcode string, quantity int) error
	UpdateDetails(ctx context.Context, item *entity.Item) error
	// Delete elimina el producto y, en cascada, sus registros de auditoría. domain.ErrNotFound si no existe.
	Delete(ctx context.Context, barcode string) error
}
