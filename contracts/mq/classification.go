package mq

import (
	"time"

	"github.com/google/uuid"
)

// ClassificationCreatedPayload is emitted once per stored classification.
// Field names match the downstream notification consumer's contract.
type ClassificationCreatedPayload struct {
	ClassificationID uuid.UUID `json:"cls_id"`
	MessageID        uuid.UUID `json:"msg_id"`
	UserID           string    `json:"user_id,omitempty"`
	Label            string    `json:"label"`
	Priority         int       `json:"priority"`
	CreatedAt        time.Time `json:"created_at"`
}
