package brief

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"briefdesk/internal/model"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
}

func fixtures(n int, priority func(i int) int, label func(i int) model.Label) ([]model.Classification, []model.Message) {
	classifications := make([]model.Classification, n)
	messages := make([]model.Message, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		subj := fmt.Sprintf("message %d", i)
		messages[i] = model.Message{
			ID:         id,
			Channel:    model.ChannelGmail,
			Sender:     "alice@example.com",
			Subject:    &subj,
			Snippet:    fmt.Sprintf("snippet %d", i),
			ReceivedAt: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
		}
		classifications[i] = model.Classification{
			ID:        uuid.New(),
			MessageID: id,
			UserID:    "user-1",
			Label:     label(i),
			Priority:  priority(i),
		}
	}
	return classifications, messages
}

func TestBuildCapsAndRanks(t *testing.T) {
	// 60 classifications with priorities cycling 1..10; top 50 survive.
	classifications, messages := fixtures(60,
		func(i int) int { return i%10 + 1 },
		func(i int) model.Label { return model.LabelTodo },
	)

	b := NewBuilderWithClock(testClock)
	brief := b.Build("user-1", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), classifications, messages, 0)

	if brief.TotalItems != 50 {
		t.Errorf("TotalItems = %d, want 50", brief.TotalItems)
	}
	if len(brief.Items) != 50 {
		t.Fatalf("got %d items, want 50", len(brief.Items))
	}

	// Descending by priority.
	for i := 1; i < len(brief.Items); i++ {
		if brief.Items[i].PriorityScore > brief.Items[i-1].PriorityScore {
			t.Fatalf("items not sorted: item %d (%d) above item %d (%d)",
				i, brief.Items[i].PriorityScore, i-1, brief.Items[i-1].PriorityScore)
		}
	}

	// Every priority-10 and priority-1 boundary check: all six 10s included,
	// and the 50-item cap cut the lowest priorities, so no priority-1 entries.
	for _, item := range brief.Items {
		if item.PriorityScore < 2 {
			t.Errorf("item with priority %d survived the cap", item.PriorityScore)
		}
	}
}

func TestBuildStableSortKeepsInputOrderOnTies(t *testing.T) {
	classifications, messages := fixtures(5,
		func(i int) int { return 7 },
		func(i int) model.Label { return model.LabelTodo },
	)

	b := NewBuilderWithClock(testClock)
	brief := b.Build("user-1", testClock(), classifications, messages, 0)

	for i, item := range brief.Items {
		if item.ClassificationID != classifications[i].ID {
			t.Errorf("item %d = %s, want input-order %s", i, item.ClassificationID, classifications[i].ID)
		}
	}
}

func TestBuildCounts(t *testing.T) {
	labels := []model.Label{
		model.LabelTodo, model.LabelTodo, model.LabelFollowup, model.LabelNoise, model.LabelTodo,
	}
	priorities := []int{9, 7, 6, 3, 8}

	classifications, messages := fixtures(5,
		func(i int) int { return priorities[i] },
		func(i int) model.Label { return labels[i] },
	)

	b := NewBuilderWithClock(testClock)
	brief := b.Build("user-1", testClock(), classifications, messages, 0)

	if brief.TotalItems != 5 {
		t.Errorf("TotalItems = %d, want 5", brief.TotalItems)
	}
	if brief.HighPriorityCount != 3 {
		t.Errorf("HighPriorityCount = %d, want 3 (priorities 9, 8, 7)", brief.HighPriorityCount)
	}
	if brief.TodoCount != 3 {
		t.Errorf("TodoCount = %d, want 3", brief.TodoCount)
	}
	if brief.FollowupCount != 1 {
		t.Errorf("FollowupCount = %d, want 1", brief.FollowupCount)
	}
}

func TestBuildDropsUnresolvableMessages(t *testing.T) {
	classifications, messages := fixtures(3,
		func(i int) int { return 5 },
		func(i int) model.Label { return model.LabelTodo },
	)
	// Orphan the middle classification.
	classifications[1].MessageID = uuid.New()

	b := NewBuilderWithClock(testClock)
	brief := b.Build("user-1", testClock(), classifications, messages, 0)

	if brief.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", brief.TotalItems)
	}
	if brief.TodoCount != 2 {
		t.Errorf("TodoCount = %d, want 2 (counts included items only)", brief.TodoCount)
	}
}

func TestBuildItemSnapshot(t *testing.T) {
	classifications, messages := fixtures(1,
		func(i int) int { return 8 },
		func(i int) model.Label { return model.LabelTodo },
	)

	b := NewBuilderWithClock(testClock)
	brief := b.Build("user-1", testClock(), classifications, messages, 10)

	want := model.BriefItem{
		ClassificationID: classifications[0].ID,
		MessageID:        messages[0].ID,
		Title:            "message 0",
		Description:      "snippet 0",
		PriorityScore:    8,
		Channel:          "gmail",
		Sender:           "alice@example.com",
		ReceivedAt:       messages[0].ReceivedAt,
	}

	if diff := cmp.Diff(want, brief.Items[0]); diff != "" {
		t.Errorf("item snapshot mismatch (-want +got):\n%s", diff)
	}
	if brief.CreatedAt != testClock().UTC() {
		t.Errorf("CreatedAt = %s, want clock time", brief.CreatedAt)
	}
}
