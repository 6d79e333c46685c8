package mq

import (
	"time"

	"github.com/google/uuid"
)

// MessageReceivedPayload is emitted when a new inbound message is stored.
type MessageReceivedPayload struct {
	MessageID  uuid.UUID `json:"msg_id"`
	UserID     string    `json:"user_id,omitempty"`
	Channel    string    `json:"channel"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject,omitempty"`
	Snippet    string    `json:"snippet"`
	ReceivedAt time.Time `json:"received_at"`
}
