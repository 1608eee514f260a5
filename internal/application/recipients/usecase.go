// Package recipients administra las direcciones que reciben las alertas de reposición.
package recipients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
	"github.com/fiecl/barcode-inventory-management/pkg/validator"
)

// RecipientUseCase CRUD de destinatarios. También resuelve la lista para el despachador.
type RecipientUseCase struct {
	repo repository.RecipientRepository
}

// NewRecipientUseCase construye el caso de uso.
func NewRecipientUseCase(repo repository.RecipientRepository) *RecipientUseCase {
	return &RecipientUseCase{repo: repo}
}

// Create registra una dirección. ErrInvalidInput si no es un correo, ErrDuplicate si ya existe.
func (uc *RecipientUseCase) Create(ctx context.Context, email string) (*entity.Recipient, error) {
	email, err := normalize(email)
	if err != nil {
		return nil, err
	}
	r := &entity.Recipient{Email: email, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, wrap(err)
	}
	return r, nil
}

// List todos los destinatarios.
func (uc *RecipientUseCase) List(ctx context.Context) ([]*entity.Recipient, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	return list, nil
}

// Get por ID. ErrNotFound si no existe.
func (uc *RecipientUseCase) Get(ctx context.Context, id int64) (*entity.Recipient, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Update cambia la dirección.
func (uc *RecipientUseCase) Update(ctx context.Context, id int64, email string) (*entity.Recipient, error) {
	email, err := normalize(email)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateEmail(ctx, id, email); err != nil {
		return nil, wrap(err)
	}
	return uc.Get(ctx, id)
}

// Delete elimina un destinatario. ErrNotFound si no existe.
func (uc *RecipientUseCase) Delete(ctx context.Context, id int64) error {
	return wrap(uc.repo.Delete(ctx, id))
}

// ListEmails implementa notify.RecipientLister: se consulta en cada ronda, no al encolar.
func (uc *RecipientUseCase) ListEmails(ctx context.Context) ([]string, error) {
	list, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Email)
	}
	return out, nil
}

func normalize(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !validator.IsEmail(email) {
		return "", domain.ErrInvalidInput
	}
	return email, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}
