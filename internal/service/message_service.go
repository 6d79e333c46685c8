package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/contracts/mq"
	"briefdesk/internal/model"
	"briefdesk/internal/repository"
)

// messageStore is the slice of the message repository Ingest needs.
type messageStore interface {
	Insert(ctx context.Context, m *model.Message) error
}

// MessageService stores inbound messages and announces them on the bus.
type MessageService struct {
	msgRepo   messageStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewMessageService(msgRepo *repository.MessageRepository, publisher EventPublisher, logger *zap.Logger) *MessageService {
	return &MessageService{
		msgRepo:   msgRepo,
		publisher: publisher,
		logger:    logger,
	}
}

type IngestInput struct {
	AccountID  string        `json:"account_id"`
	ExternalID string        `json:"external_id" binding:"required"`
	Channel    model.Channel `json:"channel" binding:"required"`
	Sender     string        `json:"sender" binding:"required"`
	Subject    *string       `json:"subject"`
	Snippet    string        `json:"snippet"`
	ReceivedAt time.Time     `json:"received_at"`
	RawRef     *string       `json:"raw_ref"`
}

// Ingest stores the message and publishes message.received. Re-ingesting the
// same (external_id, channel) pair is a no-op at the store; the event is
// still published and consumers deduplicate on their side.
func (s *MessageService) Ingest(ctx context.Context, in IngestInput) (*model.Message, error) {
	if !model.ValidChannel(in.Channel) {
		return nil, fmt.Errorf("unknown channel: %s", in.Channel)
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = timeNow().UTC()
	}

	m := &model.Message{
		ID:         uuid.New(),
		AccountID:  in.AccountID,
		ExternalID: in.ExternalID,
		Channel:    in.Channel,
		Sender:     in.Sender,
		Subject:    in.Subject,
		Snippet:    in.Snippet,
		ReceivedAt: in.ReceivedAt,
		RawRef:     in.RawRef,
		CreatedAt:  timeNow().UTC(),
	}

	if err := s.msgRepo.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	payload := mq.MessageReceivedPayload{
		MessageID:  m.ID,
		UserID:     m.AccountID,
		Channel:    string(m.Channel),
		Sender:     m.Sender,
		Subject:    m.SubjectText(),
		Snippet:    m.Snippet,
		ReceivedAt: m.ReceivedAt,
	}
	if err := s.publisher.Publish("message.received", payload); err != nil {
		s.logger.Error("Failed to publish message.received event",
			zap.String("msg_id", m.ID.String()),
			zap.Error(err),
		)
	}

	return m, nil
}
