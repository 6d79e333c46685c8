package model

import (
	"time"

	"github.com/google/uuid"
)

// Label is the categorical classification outcome.
type Label string

const (
	LabelTodo     Label = "todo"
	LabelFollowup Label = "followup"
	LabelNoise    Label = "noise"
)

// ValidLabel reports whether l is a known label.
func ValidLabel(l Label) bool {
	return l == LabelTodo || l == LabelFollowup || l == LabelNoise
}

const (
	// MinPriority and MaxPriority bound every priority score.
	MinPriority = 1
	MaxPriority = 10
)

// ClampPriority forces p into the [MinPriority, MaxPriority] range.
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// Classification is a label + priority verdict for one message. At most one
// per (message, user) pair; the caller filters already-classified message ids
// before invoking the classifier, the classifier itself does not enforce it.
type Classification struct {
	ID        uuid.UUID `json:"cls_id"`
	MessageID uuid.UUID `json:"msg_id"`
	UserID    string    `json:"user_id,omitempty"`
	Label     Label     `json:"label"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}
