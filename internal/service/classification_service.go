package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "briefdesk/contracts/mq"
	"briefdesk/internal/classify"
	"briefdesk/internal/model"
	"briefdesk/internal/repository"
	"briefdesk/internal/source"
)

// EventPublisher is the slice of the MQ publisher the services need.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// ClassificationService orchestrates a classification batch: resolve
// messages, drop already-classified ones, classify, store, emit one event per
// stored classification.
type ClassificationService struct {
	classifier *classify.Classifier
	clsRepo    *repository.ClassificationRepository
	msgSource  source.MessageSource
	publisher  EventPublisher
	logger     *zap.Logger
}

func NewClassificationService(
	classifier *classify.Classifier,
	clsRepo *repository.ClassificationRepository,
	msgSource source.MessageSource,
	publisher EventPublisher,
	logger *zap.Logger,
) *ClassificationService {
	return &ClassificationService{
		classifier: classifier,
		clsRepo:    clsRepo,
		msgSource:  msgSource,
		publisher:  publisher,
		logger:     logger,
	}
}

// ClassifyRequest selects which messages to classify: an explicit id list, or
// every stored message when MessageIDs is empty.
type ClassifyRequest struct {
	MessageIDs []uuid.UUID
	UserID     string
	Limit      int
}

// ClassifyBatch runs the full pipeline for one request. Message ids that
// cannot be resolved are counted as per-item errors; already-classified
// messages are skipped before the classifier runs, keeping the
// one-classification-per-(message,user) invariant on the happy path.
func (s *ClassificationService) ClassifyBatch(ctx context.Context, req ClassifyRequest) (classify.Result, error) {
	messages, notFound, err := s.resolveMessages(ctx, req)
	if err != nil {
		return classify.Result{}, err
	}

	messages, err = s.filterClassified(ctx, req.UserID, messages)
	if err != nil {
		return classify.Result{}, err
	}

	res := s.classifier.ClassifyBatch(ctx, messages, req.UserID)
	res.TotalProcessed += notFound
	res.ErrorCount += notFound

	for i := range res.Classifications {
		cls := &res.Classifications[i]
		if err := s.clsRepo.Insert(ctx, cls); err != nil {
			s.logger.Error("Failed to store classification",
				zap.String("cls_id", cls.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.emit(cls)
	}

	return res, nil
}

// emit publishes a classification.created event. Fire-and-forget: a publish
// failure is logged and never blocks the caller.
func (s *ClassificationService) emit(cls *model.Classification) {
	payload := mqcontracts.ClassificationCreatedPayload{
		ClassificationID: cls.ID,
		MessageID:        cls.MessageID,
		UserID:           cls.UserID,
		Label:            string(cls.Label),
		Priority:         cls.Priority,
		CreatedAt:        cls.CreatedAt,
	}

	if err := s.publisher.Publish("classification.created", payload); err != nil {
		s.logger.Error("Failed to publish classification event",
			zap.String("cls_id", cls.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ClassificationService) resolveMessages(ctx context.Context, req ClassifyRequest) ([]model.Message, int, error) {
	if len(req.MessageIDs) == 0 {
		messages, err := s.msgSource.List(ctx, source.Filter{Limit: req.Limit})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list messages: %w", err)
		}
		return messages, 0, nil
	}

	var messages []model.Message
	notFound := 0
	for _, id := range req.MessageIDs {
		msg, err := s.msgSource.GetByID(ctx, id)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch message %s: %w", id, err)
		}
		if msg == nil {
			s.logger.Warn("Message not found, skipping", zap.String("msg_id", id.String()))
			notFound++
			continue
		}
		messages = append(messages, *msg)
	}

	return messages, notFound, nil
}

// filterClassified drops messages that already have a classification for the
// user. Read-then-write: a concurrent request may still double-classify; the
// repository's unique constraint makes the second insert a no-op.
func (s *ClassificationService) filterClassified(ctx context.Context, userID string, messages []model.Message) ([]model.Message, error) {
	if len(messages) == 0 {
		return messages, nil
	}

	ids := make([]uuid.UUID, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}

	classified, err := s.clsRepo.ClassifiedMessageIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing classifications: %w", err)
	}

	if len(classified) == 0 {
		return messages, nil
	}

	filtered := messages[:0]
	for i := range messages {
		if !classified[messages[i].ID] {
			filtered = append(filtered, messages[i])
		}
	}
	return filtered, nil
}

// timeNow is split out for test seams in sibling services.
var timeNow = time.Now
