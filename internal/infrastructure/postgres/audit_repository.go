package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre la tabla scan_logs.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = `id, item_id, barcode, item_name, purpose, scanned_by, scanned_at, quantity, threshold, decremented_by, classification`

// Create inserta el registro y completa ID.
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	query := `
		INSERT INTO scan_logs (item_id, barcode, item_name, purpose, scanned_by, scanned_at, quantity, threshold, decremented_by, classification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.ItemID, e.Barcode, e.ItemName, e.Purpose, e.ScannedBy, e.ScannedAt,
		e.Quantity, e.Threshold, e.DecrementedBy, e.Classification,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("create scan log: %w", err)
	}
	return nil
}

// GetByID retorna (nil, nil) si no existe.
func (r *AuditRepo) GetByID(ctx context.Context, id int64) (*entity.AuditEntry, error) {
	e, err := scanAudit(r.q.QueryRow(ctx, `SELECT `+auditColumns+` FROM scan_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scan log: %w", err)
	}
	return e, nil
}

// List más antiguo primero.
func (r *AuditRepo) List(ctx context.Context, skip, limit int) ([]*entity.AuditEntry, error) {
	return r.query(ctx, `SELECT `+auditColumns+` FROM scan_logs ORDER BY scanned_at, id OFFSET $1 LIMIT $2`, skip, limit)
}

func (r *AuditRepo) ListByItem(ctx context.Context, itemID int64, skip, limit int) ([]*entity.AuditEntry, error) {
	return r.query(ctx, `SELECT `+auditColumns+` FROM scan_logs WHERE item_id = $3 ORDER BY scanned_at, id OFFSET $1 LIMIT $2`, skip, limit, itemID)
}

func (r *AuditRepo) query(ctx context.Context, query string, args ...any) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scan logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditEntry, 0)
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scan log: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete domain.ErrNotFound si no existe.
func (r *AuditRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM scan_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scan log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAudit(row pgx.Row) (*entity.AuditEntry, error) {
	var e entity.AuditEntry
	err := row.Scan(
		&e.ID, &e.ItemID, &e.Barcode, &e.ItemName, &e.Purpose, &e.ScannedBy, &e.ScannedAt,
		&e.Quantity, &e.Threshold, &e.DecrementedBy, &e.Classification,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
