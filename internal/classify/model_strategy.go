package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"briefdesk/internal/model"
	"briefdesk/pkg/metrics"
)

const systemPrompt = `You are a message triage assistant. Classify the message into exactly one label:
- "todo": requires a concrete action from the recipient
- "followup": needs a later check-in or reminder
- "noise": newsletters, marketing, anything ignorable
Also assign an integer priority from 1 (lowest) to 10 (highest).
Respond with JSON only: {"label": "...", "priority": N, "reasoning": "..."}`

// modelVerdict is the structured output the model must return. Any deviation
// from this shape triggers the heuristic fallback.
type modelVerdict struct {
	Label     string `json:"label"`
	Priority  int    `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// ModelStrategy classifies via a language-model call using the same
// label/priority taxonomy as the heuristic. On any failure (network, HTTP,
// parse, invalid label, out-of-range priority) it falls back to the heuristic
// unconditionally; the fallback is part of the contract, not best-effort.
type ModelStrategy struct {
	client   openai.Client
	model    string
	fallback Strategy
	logger   *zap.Logger

	// call is the model invocation, split out so the fallback contract can
	// be exercised without a live endpoint.
	call func(ctx context.Context, msg *model.Message) (model.Label, int, error)
}

func NewModelStrategy(apiKey, modelName string, fallback Strategy, logger *zap.Logger) *ModelStrategy {
	if modelName == "" {
		modelName = openai.ChatModelGPT4oMini
	}
	s := &ModelStrategy{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    modelName,
		fallback: fallback,
		logger:   logger,
	}
	s.call = s.callModel
	return s
}

func (s *ModelStrategy) Classify(ctx context.Context, msg *model.Message) (model.Label, int, error) {
	label, priority, err := s.call(ctx, msg)
	if err != nil {
		metrics.ClassifierFallbackCount.Inc()
		s.logger.Warn("Model classification failed, falling back to heuristic",
			zap.String("msg_id", msg.ID.String()),
			zap.Error(err),
		)
		return s.fallback.Classify(ctx, msg)
	}
	return label, priority, nil
}

func (s *ModelStrategy) callModel(ctx context.Context, msg *model.Message) (model.Label, int, error) {
	prompt := fmt.Sprintf("Sender: %s\nSubject: %s\nMessage: %s", msg.Sender, msg.SubjectText(), msg.Snippet)

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		metrics.RecordModelCallLatency("error", time.Since(start))
		return "", 0, fmt.Errorf("model call failed: %w", err)
	}
	metrics.RecordModelCallLatency("ok", time.Since(start))

	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("model returned no choices")
	}

	var verdict modelVerdict
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return "", 0, fmt.Errorf("failed to parse model output: %w", err)
	}

	label := model.Label(strings.ToLower(verdict.Label))
	if !model.ValidLabel(label) {
		return "", 0, fmt.Errorf("model returned invalid label %q", verdict.Label)
	}
	if verdict.Priority < model.MinPriority || verdict.Priority > model.MaxPriority {
		return "", 0, fmt.Errorf("model returned out-of-range priority %d", verdict.Priority)
	}

	return label, verdict.Priority, nil
}
