package entity

import "time"

// Recipient dirección que recibe las alertas de reposición.
type Recipient struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}
