package model

import (
	"time"

	"github.com/google/uuid"
)

// Channel is the source a message arrived on.
type Channel string

const (
	ChannelGmail Channel = "gmail"
	ChannelSlack Channel = "slack"
)

// ValidChannel reports whether c is a known channel.
func ValidChannel(c Channel) bool {
	return c == ChannelGmail || c == ChannelSlack
}

// Message is an inbound message snapshot. Immutable once stored.
type Message struct {
	ID         uuid.UUID `json:"msg_id"`
	AccountID  string    `json:"account_id"`
	ExternalID string    `json:"external_id"`
	Channel    Channel   `json:"channel"`
	Sender     string    `json:"sender"`
	Subject    *string   `json:"subject,omitempty"`
	Snippet    string    `json:"snippet"`
	ReceivedAt time.Time `json:"received_at"`
	RawRef     *string   `json:"raw_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubjectText returns the subject or "" when absent.
func (m *Message) SubjectText() string {
	if m.Subject == nil {
		return ""
	}
	return *m.Subject
}
