package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns classifications, tasks and briefs.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
