package classify

import (
	"context"
	"strings"

	"briefdesk/internal/model"
)

// Fixed vocabularies for the keyword heuristic. Matching is substring
// presence over the lowercased subject+snippet text, so "update" also hits
// "updates".
var (
	urgencyWords  = []string{"urgent", "asap", "deadline", "due tomorrow", "critical", "immediately"}
	actionWords   = []string{"need to", "should", "must", "please", "can you", "action", "task", "todo"}
	followupWords = []string{"follow up", "follow-up", "reminder", "check", "status", "update"}
	noiseWords    = []string{"newsletter", "unsubscribe", "marketing", "promotion", "sale"}
)

// Heuristic is the deterministic keyword classifier. It is a pure function of
// message content and sender: same input, same verdict.
type Heuristic struct{}

func NewHeuristic() Heuristic {
	return Heuristic{}
}

func (Heuristic) Classify(_ context.Context, msg *model.Message) (model.Label, int, error) {
	content := strings.ToLower(msg.SubjectText() + " " + msg.Snippet)

	urgency := countPresent(content, urgencyWords)
	action := countPresent(content, actionWords)
	followup := countPresent(content, followupWords)
	noise := countPresent(content, noiseWords)

	// Label cascade, first match wins. The final followup>=1 branch is
	// shadowed by the rule above it, which already turns any followup hit
	// into TODO; the ordering is kept as-is pending a product decision.
	var label model.Label
	switch {
	case noise > 0 && action == 0:
		label = model.LabelNoise
	case urgency >= 2 || (urgency >= 1 && action >= 2):
		label = model.LabelTodo
	case action >= 2 || followup >= 1:
		label = model.LabelTodo
	case followup >= 1:
		label = model.LabelFollowup
	default:
		label = model.LabelNoise
	}

	base := 3
	switch {
	case urgency >= 2:
		base = 9
	case urgency >= 1:
		base = 7
	case action >= 2:
		base = 6
	case action >= 1:
		base = 5
	}

	priority := adjustForSender(msg.Sender, base)

	return label, model.ClampPriority(priority), nil
}

// countPresent counts how many words from the vocabulary appear in the text.
// Presence, not frequency: each word contributes at most 1.
func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

// adjustForSender applies the sender business rules on top of the base
// priority. Rules stack additively and each application caps at 10.
func adjustForSender(sender string, base int) int {
	p := base
	s := strings.ToLower(sender)

	if strings.Contains(s, "ceo") || strings.Contains(s, "boss") {
		p = min(model.MaxPriority, p+3)
	}
	if strings.Contains(s, "legal") {
		p = min(model.MaxPriority, p+2)
	}
	if strings.Contains(s, "manager") {
		p = min(model.MaxPriority, p+1)
	}

	return p
}
