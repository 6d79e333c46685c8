package model

import (
	"time"

	"github.com/google/uuid"
)

// BriefItem is one entry of a daily brief. It carries a denormalized snapshot
// of the underlying message so the brief stays readable after the message ages
// out of the store.
type BriefItem struct {
	ClassificationID uuid.UUID `json:"classification_id"`
	MessageID        uuid.UUID `json:"message_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	PriorityScore    int       `json:"priority_score"`
	Channel          string    `json:"channel"`
	Sender           string    `json:"sender"`
	ReceivedAt       time.Time `json:"received_at"`
}

// Brief is a per-user, per-date ranked digest of classified messages.
// Built on demand, not incrementally maintained.
type Brief struct {
	ID                uuid.UUID   `json:"brief_id"`
	UserID            string      `json:"user_id"`
	BriefDate         time.Time   `json:"brief_date"`
	TotalItems        int         `json:"total_items"`
	HighPriorityCount int         `json:"high_priority_count"`
	TodoCount         int         `json:"todo_count"`
	FollowupCount     int         `json:"followup_count"`
	Items             []BriefItem `json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
