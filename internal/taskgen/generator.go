// Package taskgen derives task records from classified messages: title and
// description from the message text, due date from keyword inference with a
// label/priority default cascade.
package taskgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/internal/model"
	"briefdesk/pkg/metrics"
)

const titleSnippetLimit = 50

// Result is the outcome of one generation batch. TotalGenerated counts input
// classifications, matching the API contract, not the number of tasks.
type Result struct {
	Tasks          []model.Task `json:"tasks"`
	TotalGenerated int          `json:"total_generated"`
	SuccessCount   int          `json:"success_count"`
	ErrorCount     int          `json:"error_count"`
}

// Generator builds tasks from (classification, message) pairs. The clock is
// injectable so due-date inference is deterministic under test.
type Generator struct {
	logger *zap.Logger
	now    func() time.Time
}

func New(logger *zap.Logger) *Generator {
	return &Generator{
		logger: logger,
		now:    time.Now,
	}
}

// NewWithClock builds a generator with a fixed clock, for tests.
func NewWithClock(logger *zap.Logger, now func() time.Time) *Generator {
	return &Generator{logger: logger, now: now}
}

// Generate walks classifications in input order. Only TODO and FOLLOWUP yield
// a task; NOISE is silently skipped. A classification whose message cannot be
// found is counted as an error and skipped; the batch continues.
func (g *Generator) Generate(_ context.Context, classifications []model.Classification, messages []model.Message, userID string) Result {
	res := Result{TotalGenerated: len(classifications)}

	msgByID := make(map[uuid.UUID]*model.Message, len(messages))
	for i := range messages {
		msgByID[messages[i].ID] = &messages[i]
	}

	for i := range classifications {
		cls := &classifications[i]

		msg, ok := msgByID[cls.MessageID]
		if !ok {
			g.logger.Error("Message not found for classification",
				zap.String("cls_id", cls.ID.String()),
				zap.String("msg_id", cls.MessageID.String()),
			)
			res.ErrorCount++
			continue
		}

		if cls.Label != model.LabelTodo && cls.Label != model.LabelFollowup {
			continue
		}

		task := g.buildTask(cls, msg, userID)
		metrics.IncrementTaskGeneration(string(cls.Label))
		res.Tasks = append(res.Tasks, task)
		res.SuccessCount++
	}

	return res
}

func (g *Generator) buildTask(cls *model.Classification, msg *model.Message, userID string) model.Task {
	srcID := msg.ID
	return model.Task{
		ID:              uuid.New(),
		UserID:          userID,
		SourceMessageID: &srcID,
		Title:           taskTitle(msg),
		Description:     taskDescription(msg, cls),
		Status:          model.TaskStatusOpen,
		Priority:        cls.Priority,
		DueDate:         g.inferDueDate(cls, msg),
		CreatedAt:       g.now().UTC(),
	}
}

// taskTitle prefers the subject, then a truncated snippet, then a synthesized
// fallback naming the sender.
func taskTitle(msg *model.Message) string {
	if subj := msg.SubjectText(); subj != "" {
		return subj
	}
	if msg.Snippet != "" {
		// Truncate on runes so a multi-byte character at the boundary is
		// kept whole instead of split into invalid UTF-8.
		if runes := []rune(msg.Snippet); len(runes) > titleSnippetLimit {
			return string(runes[:titleSnippetLimit]) + "..."
		}
		return msg.Snippet
	}
	return fmt.Sprintf("Task from %s", msg.Sender)
}

func taskDescription(msg *model.Message, cls *model.Classification) string {
	var parts []string

	if subj := msg.SubjectText(); subj != "" {
		parts = append(parts, fmt.Sprintf("Subject: %s", subj))
	}

	parts = append(parts, fmt.Sprintf("From: %s", msg.Sender))
	parts = append(parts, fmt.Sprintf("Channel: %s", msg.Channel))
	parts = append(parts, fmt.Sprintf("Received: %s", msg.ReceivedAt.Format("2006-01-02 15:04")))

	if msg.Snippet != "" {
		parts = append(parts, fmt.Sprintf("\nMessage:\n%s", msg.Snippet))
	}

	parts = append(parts, fmt.Sprintf("\nClassification: %s (Priority: %d)", cls.Label, cls.Priority))

	return strings.Join(parts, "\n")
}

// inferDueDate evaluates the date-keyword cascade over the lowercased
// subject+snippet text, first match wins, then falls through to the
// label/priority defaults. Nil means no due date.
func (g *Generator) inferDueDate(cls *model.Classification, msg *model.Message) *time.Time {
	content := strings.ToLower(msg.SubjectText() + " " + msg.Snippet)
	today := midnight(g.now())

	switch {
	case strings.Contains(content, "eod today") || strings.Contains(content, "end of day today"):
		return &today
	case strings.Contains(content, "eod tomorrow") || strings.Contains(content, "tomorrow") || strings.Contains(content, "by tomorrow"):
		return datePtr(today.AddDate(0, 0, 1))
	case strings.Contains(content, "this week"):
		return datePtr(today.AddDate(0, 0, daysUntilFriday(today)))
	case strings.Contains(content, "next week"):
		return datePtr(today.AddDate(0, 0, daysUntilFriday(today)+7))
	case cls.Label == model.LabelTodo && cls.Priority >= 8:
		return datePtr(today.AddDate(0, 0, 1))
	case cls.Label == model.LabelTodo:
		return datePtr(today.AddDate(0, 0, 3))
	case cls.Label == model.LabelFollowup:
		return datePtr(today.AddDate(0, 0, 5))
	}

	return nil
}

// daysUntilFriday computes (4 - weekday + 7) mod 7 with Monday=0 weekday
// numbering, so a Friday maps to 0 (today), a Saturday to 6.
func daysUntilFriday(today time.Time) int {
	weekday := (int(today.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return (4 - weekday + 7) % 7
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}
