package repository

import (
	"context"

	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

// RecipientRepository define el puerto de persistencia para los destinatarios de alertas.
type RecipientRepository interface {
	Create(ctx context.Context, r *entity.Recipient) error
	GetByID(ctx context.Context, id int64) (*entity.Recipient, error)
	List(ctx context.Context) ([]*entity.Recipient, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) error
}
