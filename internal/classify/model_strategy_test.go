package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/internal/model"
)

func TestModelStrategyFallsBackOnError(t *testing.T) {
	msg := &model.Message{
		ID:      uuid.New(),
		Sender:  "ceo@example.com",
		Snippet: "urgent deadline approaching",
	}

	s := &ModelStrategy{
		fallback: NewHeuristic(),
		logger:   zap.NewNop(),
		call: func(context.Context, *model.Message) (model.Label, int, error) {
			return "", 0, errors.New("model call failed: connection refused")
		},
	}

	label, priority, err := s.Classify(context.Background(), msg)
	if err != nil {
		t.Fatalf("Classify() error = %v, fallback must absorb model failures", err)
	}

	wantLabel, wantPriority, _ := NewHeuristic().Classify(context.Background(), msg)
	if label != wantLabel || priority != wantPriority {
		t.Errorf("Classify() = (%s, %d), want heuristic result (%s, %d)",
			label, priority, wantLabel, wantPriority)
	}
}

func TestModelStrategyPassesThroughOnSuccess(t *testing.T) {
	msg := &model.Message{ID: uuid.New(), Sender: "alice@example.com", Snippet: "hello"}

	s := &ModelStrategy{
		fallback: NewHeuristic(),
		logger:   zap.NewNop(),
		call: func(context.Context, *model.Message) (model.Label, int, error) {
			return model.LabelFollowup, 4, nil
		},
	}

	label, priority, err := s.Classify(context.Background(), msg)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if label != model.LabelFollowup || priority != 4 {
		t.Errorf("Classify() = (%s, %d), want (followup, 4)", label, priority)
	}
}
