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

var _ repository.RecipientRepository = (*RecipientRepo)(nil)

// RecipientRepo implementación de RecipientRepository sobre email_settings.
type RecipientRepo struct {
	q Querier
}

// NewRecipientRepository construye el adaptador.
func NewRecipientRepository(q Querier) *RecipientRepo {
	return &RecipientRepo{q: q}
}

func (r *RecipientRepo) Create(ctx context.Context, rc *entity.Recipient) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO email_settings (email, created_at) VALUES ($1, $2) RETURNING id`,
		rc.Email, rc.CreatedAt,
	).Scan(&rc.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create recipient: %w", err)
	}
	return nil
}

// GetByID retorna (nil, nil) si no existe.
func (r *RecipientRepo) GetByID(ctx context.Context, id int64) (*entity.Recipient, error) {
	var rc entity.Recipient
	err := r.q.QueryRow(ctx, `SELECT id, email, created_at FROM email_settings WHERE id = $1`, id).
		Scan(&rc.ID, &rc.Email, &rc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return &rc, nil
}

func (r *RecipientRepo) List(ctx context.Context) ([]*entity.Recipient, error) {
	rows, err := r.q.Query(ctx, `SELECT id, email, created_at FROM email_settings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Recipient, 0)
	for rows.Next() {
		var rc entity.Recipient
		if err := rows.Scan(&rc.ID, &rc.Email, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		list = append(list, &rc)
	}
	return list, rows.Err()
}

func (r *RecipientRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	tag, err := r.q.Exec(ctx, `UPDATE email_settings SET email = $2 WHERE id = $1`, id, email)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecipientRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM email_settings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
