package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

// ItemRepository implementa repository.ItemRepository.
type ItemRepository struct {
	s  *Store
	tx *tx
}

// ReserveBarcode se confirma de inmediato, también dentro de una transacción.
func (r *ItemRepository) ReserveBarcode(ctx context.Context, barcode string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.registry[barcode]; ok {
		return domain.ErrDuplicate
	}
	r.s.registry[barcode] = time.Now()
	return nil
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.Barcode]; ok {
		return domain.ErrDuplicate
	}
	if item.Quantity < 0 {
		return fmt.Errorf("memory: cantidad negativa para %s", item.Barcode)
	}
	if _, ok := r.s.registry[item.Barcode]; !ok {
		r.s.registry[item.Barcode] = time.Now()
	}
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	r.s.items[item.Barcode] = item.Clone()
	barcode := item.Barcode
	r.tx.journal(func() { delete(r.s.items, barcode) })
	return nil
}

func (r *ItemRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.items[barcode].Clone(), nil
}

// GetForUpdate bloquea la fila hasta el fin de la transacción. Fuera de transacción equivale a GetByBarcode.
func (r *ItemRepository) GetForUpdate(ctx context.Context, barcode string) (*entity.Item, error) {
	if r.tx != nil {
		r.tx.lock(r.s, barcode)
	}
	return r.GetByBarcode(ctx, barcode)
}

func (r *ItemRepository) List(ctx context.Context) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		out = append(out, it.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ItemRepository) UpdateQuantity(ctx context.Context, barcode string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("memory: cantidad negativa para %s", barcode)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[barcode]
	if !ok {
		return domain.ErrNotFound
	}
	next := it.Clone()
	next.Quantity = quantity
	next.UpdatedAt = time.Now()
	r.s.items[barcode] = next
	r.tx.journal(func() { r.s.items[barcode] = it })
	return nil
}

func (r *ItemRepository) UpdateDetails(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.Barcode]
	if !ok {
		return domain.ErrNotFound
	}
	src := item.Clone()
	next := cur.Clone()
	next.Name = src.Name
	next.Threshold = src.Threshold
	next.ReorderQuantity = src.ReorderQuantity
	next.Classification = src.Classification
	next.UpdatedAt = src.UpdatedAt
	r.s.items[src.Barcode] = next
	r.tx.journal(func() { r.s.items[src.Barcode] = cur })
	return nil
}

// Delete elimina el producto y sus registros de auditoría.
// Espera a que termine cualquier transacción que tenga la fila bloqueada.
func (r *ItemRepository) Delete(ctx context.Context, barcode string) error {
	if r.tx != nil {
		r.tx.lock(r.s, barcode)
	} else {
		l := r.s.rowLock(barcode)
		l.Lock()
		defer l.Unlock()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[barcode]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, barcode)
	var removed []*entity.AuditEntry
	for id, e := range r.s.audits {
		if e.ItemID == it.ID {
			removed = append(removed, e)
			delete(r.s.audits, id)
		}
	}
	r.tx.journal(func() {
		r.s.items[barcode] = it
		for _, e := range removed {
			r.s.audits[e.ID] = e
		}
	})
	return nil
}
