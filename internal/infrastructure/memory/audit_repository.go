package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

// AuditRepository implementa repository.AuditRepository. Solo inserción y borrado.
type AuditRepository struct {
	s  *Store
	tx *tx
}

func (r *AuditRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exists := false
	for _, it := range r.s.items {
		if it.ID == entry.ItemID {
			exists = true
			break
		}
	}
	if !exists {
		return fmt.Errorf("memory: producto %d inexistente para el registro", entry.ItemID)
	}
	r.s.nextAuditID++
	entry.ID = r.s.nextAuditID
	c := cloneEntry(entry)
	r.s.audits[c.ID] = c
	id := c.ID
	r.tx.journal(func() { delete(r.s.audits, id) })
	return nil
}

func (r *AuditRepository) GetByID(ctx context.Context, id int64) (*entity.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.audits[id]
	if !ok {
		return nil, nil
	}
	return cloneEntry(e), nil
}

func (r *AuditRepository) List(ctx context.Context, skip, limit int) ([]*entity.AuditEntry, error) {
	return r.list(func(*entity.AuditEntry) bool { return true }, skip, limit), nil
}

func (r *AuditRepository) ListByItem(ctx context.Context, itemID int64, skip, limit int) ([]*entity.AuditEntry, error) {
	return r.list(func(e *entity.AuditEntry) bool { return e.ItemID == itemID }, skip, limit), nil
}

func (r *AuditRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.audits[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.audits, id)
	r.tx.journal(func() { r.s.audits[id] = e })
	return nil
}

// list filtra y ordena por (ScannedAt, ID) ascendente, igual que el ORDER BY del almacén real.
func (r *AuditRepository) list(keep func(*entity.AuditEntry) bool, skip, limit int) []*entity.AuditEntry {
	r.s.mu.Lock()
	all := make([]*entity.AuditEntry, 0, len(r.s.audits))
	for _, e := range r.s.audits {
		if keep(e) {
			all = append(all, cloneEntry(e))
		}
	}
	r.s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].ScannedAt.Equal(all[j].ScannedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].ScannedAt.Before(all[j].ScannedAt)
	})
	if skip >= len(all) {
		return []*entity.AuditEntry{}
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

func cloneEntry(e *entity.AuditEntry) *entity.AuditEntry {
	c := *e
	if e.Classification != nil {
		v := *e.Classification
		c.Classification = &v
	}
	return &c
}
