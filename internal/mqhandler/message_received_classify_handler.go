package mqhandler

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "briefdesk/contracts/mq"
	"briefdesk/internal/classify"
	"briefdesk/internal/service"
	"briefdesk/internal/taskgen"
	"briefdesk/pkg/mq"
	"briefdesk/pkg/util"
)

const maxRetries = 5

// Narrow views of the worker's collaborators, so handler behavior is
// testable without a broker, a database, or redis.
type classifyRunner interface {
	ClassifyBatch(ctx context.Context, req service.ClassifyRequest) (classify.Result, error)
}

type taskDeriver interface {
	GenerateFromClassifications(ctx context.Context, classificationIDs []uuid.UUID, userID string) (taskgen.Result, error)
}

type dlqPublisher interface {
	PublishToDLQ(routingKey string, payload []byte, originalError string) error
}

type dedupeGuard interface {
	AcquireOnce(ctx context.Context, handler string, id string) bool
	Release(ctx context.Context, handler string, id string)
}

type retryTracker interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// MessageReceivedClassifyHandler consumes message.received events and runs
// the classification pipeline for the referenced message. Tasks are derived
// in the same pass so a single event carries a message all the way to an
// actionable item.
type MessageReceivedClassifyHandler struct {
	clsService   classifyRunner
	taskService  taskDeriver
	publisher    dlqPublisher
	retryCounter retryTracker
	deduper      dedupeGuard
	logger       *zap.Logger
}

func NewMessageReceivedClassifyHandler(
	clsService *service.ClassificationService,
	taskService *service.TaskService,
	publisher *mq.Publisher,
	retryCounter *util.RetryCounter,
	deduper *util.Deduper,
	logger *zap.Logger,
) *MessageReceivedClassifyHandler {
	return &MessageReceivedClassifyHandler{
		clsService:   clsService,
		taskService:  taskService,
		publisher:    publisher,
		retryCounter: retryCounter,
		deduper:      deduper,
		logger:       logger,
	}
}

// HandleMessageReceived is idempotent: re-delivery of an already classified
// message is a no-op. Returns error only for retryable failures that have
// not exceeded maxRetries; everything else is acked (with malformed payloads
// parked on the DLQ).
func (h *MessageReceivedClassifyHandler) HandleMessageReceived(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.MessageReceivedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal message received payload, sending to DLQ",
			zap.Error(err),
			zap.String("raw_payload", string(raw)),
		)
		if dlqErr := h.publisher.PublishToDLQ("message.received", raw, err.Error()); dlqErr != nil {
			h.logger.Error("Failed to publish to DLQ", zap.Error(dlqErr))
			return dlqErr
		}
		return nil
	}

	h.logger.Info("Processing message classification",
		zap.String("msg_id", p.MessageID.String()),
		zap.String("user_id", p.UserID),
		zap.String("channel", p.Channel),
	)

	// Redis dedupe. Already-classified messages are also filtered inside the
	// service, this just avoids redundant work on fast re-delivery.
	if !h.deduper.AcquireOnce(ctx, "classify", p.MessageID.String()) {
		h.logger.Info("Skipped duplicated classify event",
			zap.String("msg_id", p.MessageID.String()),
			zap.String("user_id", p.UserID),
		)
		return nil
	}

	retryKey := util.FormatRetryKey("classify", p.MessageID.String())
	retryCount, err := h.retryCounter.IncrementAndGet(ctx, retryKey)
	if err != nil {
		h.logger.Warn("Failed to get retry count, continuing anyway",
			zap.String("msg_id", p.MessageID.String()),
			zap.Error(err),
		)
		retryCount = 1
	}

	res, err := h.clsService.ClassifyBatch(ctx, service.ClassifyRequest{
		MessageIDs: []uuid.UUID{p.MessageID},
		UserID:     p.UserID,
	})
	if err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Error("Failed to classify message",
			zap.String("msg_id", p.MessageID.String()),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Int64("retry_count", retryCount),
			zap.Error(err),
		)

		if !isRetryable {
			h.retryCounter.Reset(ctx, retryKey)
			return nil
		}
		if retryCount > maxRetries {
			h.logger.Warn("Max retries exceeded, dropping event",
				zap.String("msg_id", p.MessageID.String()),
				zap.Int64("retry_count", retryCount),
			)
			h.retryCounter.Reset(ctx, retryKey)
			return nil
		}
		// Nack for requeue: drop the dedup lock or the redelivery would be
		// swallowed as a duplicate.
		h.deduper.Release(ctx, "classify", p.MessageID.String())
		return err
	}

	h.retryCounter.Reset(ctx, retryKey)

	if len(res.Classifications) == 0 {
		// Message unknown or already classified; nothing more to do.
		h.logger.Debug("No new classification produced",
			zap.String("msg_id", p.MessageID.String()),
			zap.Int("error_count", res.ErrorCount),
		)
		return nil
	}

	cls := res.Classifications[0]
	h.logger.Info("Message classified",
		zap.String("msg_id", p.MessageID.String()),
		zap.String("cls_id", cls.ID.String()),
		zap.String("label", string(cls.Label)),
		zap.Int("priority", cls.Priority),
	)

	taskRes, err := h.taskService.GenerateFromClassifications(ctx, []uuid.UUID{cls.ID}, p.UserID)
	if err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Error("Failed to derive tasks from classification",
			zap.String("cls_id", cls.ID.String()),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Error(err),
		)
		if !isRetryable {
			return nil
		}
		h.deduper.Release(ctx, "classify", p.MessageID.String())
		return err
	}

	if len(taskRes.Tasks) > 0 {
		h.logger.Info("Tasks derived",
			zap.String("cls_id", cls.ID.String()),
			zap.Int("task_count", len(taskRes.Tasks)),
		)
	}

	return nil
}
