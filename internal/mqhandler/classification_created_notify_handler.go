package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"time"

	"github.com/google/uuid"

	mqcontracts "briefdesk/contracts/mq"
	"briefdesk/internal/repository"
	"briefdesk/pkg/mq"
	"briefdesk/pkg/util"
)

// notificationLog is the slice of the notification log repository the
// handler needs.
type notificationLog interface {
	Insert(ctx context.Context, clsID, msgID uuid.UUID, label string, priority int, createdAt time.Time) error
}

// Classifications at or above this priority get an alert log entry.
const alertPriority = 8

// ClassificationCreatedNotifyHandler consumes classification.created events
// and records them in the notification log. High priority classifications
// are surfaced with a warning so operators can hook alerting onto the log
// stream.
type ClassificationCreatedNotifyHandler struct {
	notiLogRepo notificationLog
	publisher   dlqPublisher
	deduper     dedupeGuard
	logger      *zap.Logger
}

func NewClassificationCreatedNotifyHandler(
	notiLogRepo *repository.NotificationLogRepository,
	publisher *mq.Publisher,
	deduper *util.Deduper,
	logger *zap.Logger,
) *ClassificationCreatedNotifyHandler {
	return &ClassificationCreatedNotifyHandler{
		notiLogRepo: notiLogRepo,
		publisher:   publisher,
		deduper:     deduper,
		logger:      logger,
	}
}

// HandleClassificationCreated is idempotent: the log table upserts on
// classification id, so re-delivery writes nothing new.
func (h *ClassificationCreatedNotifyHandler) HandleClassificationCreated(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.ClassificationCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal classification created payload, sending to DLQ",
			zap.Error(err),
			zap.String("raw_payload", string(raw)),
		)
		if dlqErr := h.publisher.PublishToDLQ("classification.created", raw, err.Error()); dlqErr != nil {
			h.logger.Error("Failed to publish to DLQ", zap.Error(dlqErr))
			return dlqErr
		}
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "notify", p.ClassificationID.String()) {
		h.logger.Info("Skipped duplicated notify event",
			zap.String("cls_id", p.ClassificationID.String()),
		)
		return nil
	}

	if err := h.notiLogRepo.Insert(ctx, p.ClassificationID, p.MessageID, p.Label, p.Priority, p.CreatedAt); err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Error("Failed to insert notification log",
			zap.String("cls_id", p.ClassificationID.String()),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Error(err),
		)
		if !isRetryable {
			return nil
		}
		h.deduper.Release(ctx, "notify", p.ClassificationID.String())
		return err
	}

	if p.Priority >= alertPriority {
		h.logger.Warn("High priority classification",
			zap.String("cls_id", p.ClassificationID.String()),
			zap.String("msg_id", p.MessageID.String()),
			zap.String("user_id", p.UserID),
			zap.String("label", p.Label),
			zap.Int("priority", p.Priority),
		)
	} else {
		h.logger.Info("Notification logged",
			zap.String("cls_id", p.ClassificationID.String()),
			zap.String("label", p.Label),
			zap.Int("priority", p.Priority),
		)
	}

	return nil
}
