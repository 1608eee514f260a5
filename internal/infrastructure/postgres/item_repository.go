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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, barcode, name, quantity, threshold, quantity_to_order, classification, artifact_key, created_at, updated_at`

// ReserveBarcode una única inserción en el registro: la clave primaria resuelve las carreras.
func (r *ItemRepo) ReserveBarcode(ctx context.Context, barcode string) error {
	_, err := r.q.Exec(ctx, `INSERT INTO barcode_registry (barcode, issued_at) VALUES ($1, now())`, barcode)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("reserve barcode: %w", err)
	}
	return nil
}

// Create inserta el producto y completa ID.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (barcode, name, quantity, threshold, quantity_to_order, classification, artifact_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.Barcode, item.Name, item.Quantity, item.Threshold,
		item.ReorderQuantity, item.Classification, item.ArtifactKey,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByBarcode retorna (nil, nil) si no existe.
func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE barcode = $1`, barcode)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, barcode string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE barcode = $1 FOR UPDATE`, barcode)
}

func (r *ItemRepo) getOne(ctx context.Context, query, barcode string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List todos los productos por ID.
func (r *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// UpdateQuantity el CHECK (quantity >= 0) es la última barrera contra stock negativo.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, barcode string, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET quantity = $2, updated_at = now() WHERE barcode = $1`, barcode, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDetails actualiza nombre, umbral, cantidad sugerida y clasificación.
func (r *ItemRepo) UpdateDetails(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, threshold = $3, quantity_to_order = $4, classification = $5, updated_at = $6
		WHERE barcode = $1`
	tag, err := r.q.Exec(ctx, query, item.Barcode, item.Name, item.Threshold, item.ReorderQuantity, item.Classification, item.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el producto; scan_logs cae por ON DELETE CASCADE. El código queda en barcode_registry.
func (r *ItemRepo) Delete(ctx context.Context, barcode string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE barcode = $1`, barcode)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Barcode, &it.Name, &it.Quantity, &it.Threshold,
		&it.ReorderQuantity, &it.Classification, &it.ArtifactKey,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
