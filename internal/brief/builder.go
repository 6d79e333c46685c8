// Package brief aggregates a user's classifications into a ranked daily
// digest.
package brief

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"briefdesk/internal/model"
	"briefdesk/pkg/metrics"
)

const (
	// DefaultMaxItems caps a brief when the request does not say otherwise.
	DefaultMaxItems = 50

	// highPriorityThreshold marks an included item as high priority.
	highPriorityThreshold = 7
)

// Builder assembles briefs from classification/message snapshots.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock builds a builder with a fixed clock, for tests.
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build sorts classifications by priority descending (stable, so ties keep
// their input order), takes the top maxItems, drops entries whose message is
// not resolvable, and computes counts over the included items only.
func (b *Builder) Build(userID string, briefDate time.Time, classifications []model.Classification, messages []model.Message, maxItems int) model.Brief {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	msgByID := make(map[uuid.UUID]*model.Message, len(messages))
	for i := range messages {
		msgByID[messages[i].ID] = &messages[i]
	}

	ranked := make([]model.Classification, len(classifications))
	copy(ranked, classifications)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	if len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}

	var items []model.BriefItem
	var highPriority, todo, followup int

	for i := range ranked {
		cls := &ranked[i]

		msg, ok := msgByID[cls.MessageID]
		if !ok {
			// unresolvable message, drop silently
			continue
		}

		items = append(items, model.BriefItem{
			ClassificationID: cls.ID,
			MessageID:        msg.ID,
			Title:            itemTitle(msg),
			Description:      msg.Snippet,
			PriorityScore:    cls.Priority,
			Channel:          string(msg.Channel),
			Sender:           msg.Sender,
			ReceivedAt:       msg.ReceivedAt,
		})

		if cls.Priority >= highPriorityThreshold {
			highPriority++
		}
		switch cls.Label {
		case model.LabelTodo:
			todo++
		case model.LabelFollowup:
			followup++
		}
	}

	now := b.now().UTC()
	metrics.BriefGenerationCount.Inc()

	return model.Brief{
		ID:                uuid.New(),
		UserID:            userID,
		BriefDate:         briefDate,
		TotalItems:        len(items),
		HighPriorityCount: highPriority,
		TodoCount:         todo,
		FollowupCount:     followup,
		Items:             items,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func itemTitle(msg *model.Message) string {
	if subj := msg.SubjectText(); subj != "" {
		return subj
	}
	return msg.Snippet
}
