package taskgen

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/internal/model"
)

// Wednesday afternoon.
var testClock = func() time.Time {
	return time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pair(label model.Label, priority int, subject, snippet string) (model.Classification, model.Message) {
	m := model.Message{
		ID:         uuid.New(),
		Channel:    model.ChannelGmail,
		Sender:     "alice@example.com",
		Snippet:    snippet,
		ReceivedAt: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
	}
	if subject != "" {
		m.Subject = &subject
	}
	c := model.Classification{
		ID:        uuid.New(),
		MessageID: m.ID,
		UserID:    "user-1",
		Label:     label,
		Priority:  priority,
	}
	return c, m
}

func TestGenerateDueDateCascade(t *testing.T) {
	tests := []struct {
		name     string
		label    model.Label
		priority int
		snippet  string
		want     *time.Time
	}{
		{"eod today", model.LabelTodo, 5, "need this eod today", ptr(date(2026, 3, 4))},
		{"end of day today", model.LabelTodo, 5, "wrap up by end of day today", ptr(date(2026, 3, 4))},
		{"tomorrow", model.LabelTodo, 5, "send it by tomorrow", ptr(date(2026, 3, 5))},
		{"this week lands on friday", model.LabelTodo, 5, "finish this week", ptr(date(2026, 3, 6))},
		{"next week lands on next friday", model.LabelTodo, 5, "plan for next week", ptr(date(2026, 3, 13))},
		{"keyword wins over label default", model.LabelFollowup, 3, "check in tomorrow", ptr(date(2026, 3, 5))},
		{"high priority todo default", model.LabelTodo, 8, "just do it", ptr(date(2026, 3, 5))},
		{"todo default", model.LabelTodo, 5, "just do it", ptr(date(2026, 3, 7))},
		{"followup default", model.LabelFollowup, 4, "circle back", ptr(date(2026, 3, 9))},
	}

	g := NewWithClock(zap.NewNop(), testClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, msg := pair(tt.label, tt.priority, "subject", tt.snippet)
			res := g.Generate(context.Background(), []model.Classification{cls}, []model.Message{msg}, "user-1")

			if len(res.Tasks) != 1 {
				t.Fatalf("got %d tasks, want 1", len(res.Tasks))
			}
			got := res.Tasks[0].DueDate
			if got == nil {
				t.Fatal("DueDate is nil")
			}
			if !got.Equal(*tt.want) {
				t.Errorf("DueDate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGenerateDueDateOnFriday(t *testing.T) {
	friday := func() time.Time { return time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC) }
	g := NewWithClock(zap.NewNop(), friday)

	cls, msg := pair(model.LabelTodo, 5, "subject", "finish this week")
	res := g.Generate(context.Background(), []model.Classification{cls}, []model.Message{msg}, "user-1")

	// On a Friday, "this week" means today.
	if got := res.Tasks[0].DueDate; !got.Equal(date(2026, 3, 6)) {
		t.Errorf("DueDate = %s, want 2026-03-06", got)
	}
}

func TestGenerateTitle(t *testing.T) {
	longSnippet := strings.Repeat("a", 80)
	wideSnippet := strings.Repeat("ä", 60)

	tests := []struct {
		name    string
		subject string
		snippet string
		sender  string
		want    string
	}{
		{"subject preferred", "Quarterly report", "some snippet", "alice@example.com", "Quarterly report"},
		{"short snippet as is", "", "fix the build", "alice@example.com", "fix the build"},
		{"long snippet truncated", "", longSnippet, "alice@example.com", longSnippet[:50] + "..."},
		{"multibyte snippet truncated on runes", "", wideSnippet, "alice@example.com", strings.Repeat("ä", 50) + "..."},
		{"fallback names sender", "", "", "bob@example.com", "Task from bob@example.com"},
	}

	g := NewWithClock(zap.NewNop(), testClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, msg := pair(model.LabelTodo, 5, tt.subject, tt.snippet)
			msg.Sender = tt.sender
			res := g.Generate(context.Background(), []model.Classification{cls}, []model.Message{msg}, "user-1")

			if got := res.Tasks[0].Title; got != tt.want {
				t.Errorf("Title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateDescription(t *testing.T) {
	g := NewWithClock(zap.NewNop(), testClock)
	cls, msg := pair(model.LabelTodo, 7, "Budget review", "numbers attached")

	res := g.Generate(context.Background(), []model.Classification{cls}, []model.Message{msg}, "user-1")

	want := strings.Join([]string{
		"Subject: Budget review",
		"From: alice@example.com",
		"Channel: gmail",
		"Received: 2026-03-04 09:00",
		"\nMessage:\nnumbers attached",
		"\nClassification: todo (Priority: 7)",
	}, "\n")

	if diff := cmp.Diff(want, res.Tasks[0].Description); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateSkipsNoiseAndCountsMissing(t *testing.T) {
	g := NewWithClock(zap.NewNop(), testClock)

	todoCls, todoMsg := pair(model.LabelTodo, 6, "do this", "")
	noiseCls, noiseMsg := pair(model.LabelNoise, 3, "newsletter", "")
	orphanCls, _ := pair(model.LabelTodo, 5, "lost", "")

	res := g.Generate(
		context.Background(),
		[]model.Classification{todoCls, noiseCls, orphanCls},
		[]model.Message{todoMsg, noiseMsg},
		"user-1",
	)

	if res.TotalGenerated != 3 {
		t.Errorf("TotalGenerated = %d, want 3 (counts inputs)", res.TotalGenerated)
	}
	if res.SuccessCount != 1 {
		t.Errorf("SuccessCount = %d, want 1", res.SuccessCount)
	}
	if res.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", res.ErrorCount)
	}
	if len(res.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(res.Tasks))
	}

	task := res.Tasks[0]
	if task.SourceMessageID == nil || *task.SourceMessageID != todoMsg.ID {
		t.Errorf("task source message = %v, want %s", task.SourceMessageID, todoMsg.ID)
	}
	if task.Status != model.TaskStatusOpen {
		t.Errorf("task status = %q, want open", task.Status)
	}
	if task.Priority != 6 {
		t.Errorf("task priority = %d, want 6", task.Priority)
	}
	if task.UserID != "user-1" {
		t.Errorf("task user = %q, want user-1", task.UserID)
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
