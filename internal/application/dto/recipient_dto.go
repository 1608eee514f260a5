package dto

import "time"

// RecipientRequest body para crear o actualizar un destinatario de alertas.
type RecipientRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// RecipientResponse destinatario de alertas.
type RecipientResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
