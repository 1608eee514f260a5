package memory

import (
	"context"
	"sort"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

// RecipientRepository implementa repository.RecipientRepository.
type RecipientRepository struct {
	s *Store
}

func (r *RecipientRepository) Create(ctx context.Context, rc *entity.Recipient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(rc.Email, 0) {
		return domain.ErrDuplicate
	}
	r.s.nextRecipientID++
	rc.ID = r.s.nextRecipientID
	c := *rc
	r.s.recipients[c.ID] = &c
	return nil
}

func (r *RecipientRepository) GetByID(ctx context.Context, id int64) (*entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.recipients[id]
	if !ok {
		return nil, nil
	}
	c := *rc
	return &c, nil
}

func (r *RecipientRepository) List(ctx context.Context) ([]*entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Recipient, 0, len(r.s.recipients))
	for _, rc := range r.s.recipients {
		c := *rc
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RecipientRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.recipients[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.emailTaken(email, id) {
		return domain.ErrDuplicate
	}
	rc.Email = email
	return nil
}

func (r *RecipientRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.recipients, id)
	return nil
}

// emailTaken requiere r.s.mu tomado.
func (r *RecipientRepository) emailTaken(email string, except int64) bool {
	for id, rc := range r.s.recipients {
		if id != except && rc.Email == email {
			return true
		}
	}
	return false
}
