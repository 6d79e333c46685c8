// Package classify maps inbound messages to a label (todo/followup/noise)
// and a 1-10 priority score. Classification strategies are injectable: the
// keyword heuristic is the default, and the language-model strategy wraps it
// as an unconditional fallback.
package classify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/internal/model"
	"briefdesk/pkg/metrics"
)

// Strategy maps a single message to a label and priority.
type Strategy interface {
	Classify(ctx context.Context, msg *model.Message) (model.Label, int, error)
}

// Result is the outcome of one classification batch. Failed messages are
// counted and skipped, never included in Classifications.
type Result struct {
	Classifications []model.Classification `json:"classifications"`
	TotalProcessed  int                    `json:"total_processed"`
	SuccessCount    int                    `json:"success_count"`
	ErrorCount      int                    `json:"error_count"`
}

// Classifier runs a strategy over message batches, one message at a time,
// isolating per-message failures.
type Classifier struct {
	strategy Strategy
	logger   *zap.Logger
	now      func() time.Time
}

func New(strategy Strategy, logger *zap.Logger) *Classifier {
	return &Classifier{
		strategy: strategy,
		logger:   logger,
		now:      time.Now,
	}
}

// ClassifyBatch classifies messages in input order. A failure on one message
// does not affect the others: it is logged, counted in ErrorCount, and the
// message is omitted from the output.
func (c *Classifier) ClassifyBatch(ctx context.Context, messages []model.Message, userID string) Result {
	res := Result{TotalProcessed: len(messages)}

	for i := range messages {
		msg := &messages[i]

		label, priority, err := c.strategy.Classify(ctx, msg)
		if err != nil {
			c.logger.Error("Failed to classify message",
				zap.String("msg_id", msg.ID.String()),
				zap.Error(err),
			)
			res.ErrorCount++
			continue
		}

		cls := model.Classification{
			ID:        uuid.New(),
			MessageID: msg.ID,
			UserID:    userID,
			Label:     label,
			Priority:  model.ClampPriority(priority),
			CreatedAt: c.now().UTC(),
		}

		metrics.IncrementClassification(string(label))
		res.Classifications = append(res.Classifications, cls)
		res.SuccessCount++
	}

	return res
}
