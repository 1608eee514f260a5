// Package memory implementa los repositorios en memoria (tests y STORAGE_DRIVER=memory).
// Reproduce el bloqueo por fila del almacén real: GetForUpdate dentro de una transacción
// toma un mutex por código que se libera al terminar la transacción.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
// Las escrituras dentro de una transacción se aplican de inmediato y se deshacen con el diario si falla.
type Store struct {
	mu         sync.Mutex
	items      map[string]*entity.Item
	registry   map[string]time.Time
	audits     map[int64]*entity.AuditEntry
	recipients map[int64]*entity.Recipient
	rowLocks   map[string]*sync.Mutex

	nextItemID      int64
	nextAuditID     int64
	nextRecipientID int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:      make(map[string]*entity.Item),
		registry:   make(map[string]time.Time),
		audits:     make(map[int64]*entity.AuditEntry),
		recipients: make(map[int64]*entity.Recipient),
		rowLocks:   make(map[string]*sync.Mutex),
	}
}

// Items repositorio fuera de transacción.
func (s *Store) Items() *ItemRepository { return &ItemRepository{s: s} }

// Audits repositorio fuera de transacción.
func (s *Store) Audits() *AuditRepository { return &AuditRepository{s: s} }

// Recipients repositorio de destinatarios.
func (s *Store) Recipients() *RecipientRepository { return &RecipientRepository{s: s} }

// TxRunner ejecutor de transacciones en memoria.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func (s *Store) rowLock(barcode string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[barcode]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[barcode] = l
	}
	return l
}

// tx diario de deshacer y filas bloqueadas de una transacción.
type tx struct {
	undo   []func()
	locked map[string]*sync.Mutex
}

func (t *tx) journal(fn func()) {
	if t != nil {
		t.undo = append(t.undo, fn)
	}
}

// lock toma el bloqueo de fila una sola vez por transacción.
func (t *tx) lock(s *Store, barcode string) {
	if _, ok := t.locked[barcode]; ok {
		return
	}
	l := s.rowLock(barcode)
	l.Lock()
	t.locked[barcode] = l
}

func (t *tx) release() {
	for _, l := range t.locked {
		l.Unlock()
	}
	t.locked = nil
}

// TxRunner implementa inventory.TxRunner sobre Store.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn; si devuelve error (o entra en pánico) se aplica el diario en orden inverso.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{locked: make(map[string]*sync.Mutex)}
	committed := false
	defer func() {
		if !committed {
			r.s.mu.Lock()
			for i := len(t.undo) - 1; i >= 0; i-- {
				t.undo[i]()
			}
			r.s.mu.Unlock()
		}
		t.release()
	}()

	if err := fn(&ItemRepository{s: r.s, tx: t}, &AuditRepository{s: r.s, tx: t}); err != nil {
		return err
	}
	committed = true
	return nil
}
