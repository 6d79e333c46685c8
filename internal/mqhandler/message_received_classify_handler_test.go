package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "briefdesk/contracts/mq"
	"briefdesk/internal/classify"
	"briefdesk/internal/model"
	"briefdesk/internal/service"
	"briefdesk/internal/taskgen"
)

type fakeDedupe struct {
	held     map[string]bool
	released []string
}

func newFakeDedupe() *fakeDedupe {
	return &fakeDedupe{held: map[string]bool{}}
}

func (f *fakeDedupe) AcquireOnce(_ context.Context, handler string, id string) bool {
	key := handler + ":" + id
	if f.held[key] {
		return false
	}
	f.held[key] = true
	return true
}

func (f *fakeDedupe) Release(_ context.Context, handler string, id string) {
	key := handler + ":" + id
	delete(f.held, key)
	f.released = append(f.released, key)
}

type fakeRetryTracker struct {
	counts map[string]int64
	resets []string
}

func newFakeRetryTracker() *fakeRetryTracker {
	return &fakeRetryTracker{counts: map[string]int64{}}
}

func (f *fakeRetryTracker) IncrementAndGet(_ context.Context, key string) (int64, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRetryTracker) Reset(_ context.Context, key string) error {
	f.counts[key] = 0
	f.resets = append(f.resets, key)
	return nil
}

type fakeClassifyRunner struct {
	res   classify.Result
	err   error
	calls int
}

func (f *fakeClassifyRunner) ClassifyBatch(_ context.Context, _ service.ClassifyRequest) (classify.Result, error) {
	f.calls++
	if f.err != nil {
		return classify.Result{}, f.err
	}
	return f.res, nil
}

type fakeTaskDeriver struct {
	ids   []uuid.UUID
	users []string
	err   error
}

func (f *fakeTaskDeriver) GenerateFromClassifications(_ context.Context, ids []uuid.UUID, userID string) (taskgen.Result, error) {
	if f.err != nil {
		return taskgen.Result{}, f.err
	}
	f.ids = append(f.ids, ids...)
	f.users = append(f.users, userID)
	return taskgen.Result{Tasks: []model.Task{{ID: uuid.New()}}}, nil
}

type fakeDLQ struct {
	keys     []string
	payloads [][]byte
	reasons  []string
}

func (f *fakeDLQ) PublishToDLQ(routingKey string, payload []byte, originalError string) error {
	f.keys = append(f.keys, routingKey)
	f.payloads = append(f.payloads, payload)
	f.reasons = append(f.reasons, originalError)
	return nil
}

func classifyPayload(t *testing.T, msgID uuid.UUID) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(mqcontracts.MessageReceivedPayload{
		MessageID:  msgID,
		UserID:     "alice",
		Channel:    "gmail",
		Sender:     "bob@example.com",
		Snippet:    "urgent deadline",
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func newClassifyHandler(runner *fakeClassifyRunner, deriver *fakeTaskDeriver, dlq *fakeDLQ, rt *fakeRetryTracker, dd *fakeDedupe) *MessageReceivedClassifyHandler {
	return &MessageReceivedClassifyHandler{
		clsService:   runner,
		taskService:  deriver,
		publisher:    dlq,
		retryCounter: rt,
		deduper:      dd,
		logger:       zap.NewNop(),
	}
}

func TestClassifyHandlerParksMalformedPayloadOnDLQ(t *testing.T) {
	runner := &fakeClassifyRunner{}
	dlq := &fakeDLQ{}
	h := newClassifyHandler(runner, &fakeTaskDeriver{}, dlq, newFakeRetryTracker(), newFakeDedupe())

	err := h.HandleMessageReceived(context.Background(), json.RawMessage(`{not json`))
	if err != nil {
		t.Fatalf("malformed payload must be acked, got err %v", err)
	}
	if len(dlq.keys) != 1 || dlq.keys[0] != "message.received" {
		t.Errorf("DLQ keys = %v, want [message.received]", dlq.keys)
	}
	if string(dlq.payloads[0]) != `{not json` {
		t.Errorf("DLQ payload = %q, want original raw bytes", dlq.payloads[0])
	}
	if runner.calls != 0 {
		t.Errorf("classifier called %d times for malformed payload", runner.calls)
	}
}

func TestClassifyHandlerSkipsDuplicateDelivery(t *testing.T) {
	msgID := uuid.New()
	runner := &fakeClassifyRunner{}
	dd := newFakeDedupe()
	dd.held["classify:"+msgID.String()] = true
	h := newClassifyHandler(runner, &fakeTaskDeriver{}, &fakeDLQ{}, newFakeRetryTracker(), dd)

	if err := h.HandleMessageReceived(context.Background(), classifyPayload(t, msgID)); err != nil {
		t.Fatalf("duplicate must be acked, got err %v", err)
	}
	if runner.calls != 0 {
		t.Errorf("classifier called %d times for duplicate", runner.calls)
	}
}

func TestClassifyHandlerRetryableErrorReleasesDedupe(t *testing.T) {
	msgID := uuid.New()
	runner := &fakeClassifyRunner{err: errors.New("dial tcp: connection refused")}
	dd := newFakeDedupe()
	h := newClassifyHandler(runner, &fakeTaskDeriver{}, &fakeDLQ{}, newFakeRetryTracker(), dd)

	raw := classifyPayload(t, msgID)
	if err := h.HandleMessageReceived(context.Background(), raw); err == nil {
		t.Fatal("retryable error must be returned for a nack")
	}
	if len(dd.released) != 1 {
		t.Fatalf("dedup lock not released on retryable error, released = %v", dd.released)
	}

	// The requeued delivery must be processed, not swallowed as a duplicate.
	if err := h.HandleMessageReceived(context.Background(), raw); err == nil {
		t.Fatal("redelivery should hit the classifier and fail again")
	}
	if runner.calls != 2 {
		t.Errorf("classifier calls = %d, want 2 across delivery and redelivery", runner.calls)
	}
}

func TestClassifyHandlerDropsAfterMaxRetries(t *testing.T) {
	msgID := uuid.New()
	runner := &fakeClassifyRunner{err: errors.New("dial tcp: connection refused")}
	rt := newFakeRetryTracker()
	dd := newFakeDedupe()
	h := newClassifyHandler(runner, &fakeTaskDeriver{}, &fakeDLQ{}, rt, dd)

	raw := classifyPayload(t, msgID)
	for i := 0; i < maxRetries; i++ {
		if err := h.HandleMessageReceived(context.Background(), raw); err == nil {
			t.Fatalf("delivery %d should nack for retry", i+1)
		}
	}

	if err := h.HandleMessageReceived(context.Background(), raw); err != nil {
		t.Fatalf("delivery beyond maxRetries must be acked, got err %v", err)
	}
	if len(rt.resets) == 0 {
		t.Error("retry counter not reset after the event was dropped")
	}
}

func TestClassifyHandlerNonRetryableErrorIsAcked(t *testing.T) {
	runner := &fakeClassifyRunner{err: errors.New("boom")}
	h := newClassifyHandler(runner, &fakeTaskDeriver{}, &fakeDLQ{}, newFakeRetryTracker(), newFakeDedupe())

	if err := h.HandleMessageReceived(context.Background(), classifyPayload(t, uuid.New())); err != nil {
		t.Fatalf("non-retryable error must be acked, got err %v", err)
	}
}

func TestClassifyHandlerDerivesTasksFromClassification(t *testing.T) {
	msgID := uuid.New()
	clsID := uuid.New()
	runner := &fakeClassifyRunner{res: classify.Result{
		Classifications: []model.Classification{
			{ID: clsID, MessageID: msgID, UserID: "alice", Label: model.LabelTodo, Priority: 8},
		},
	}}
	deriver := &fakeTaskDeriver{}
	h := newClassifyHandler(runner, deriver, &fakeDLQ{}, newFakeRetryTracker(), newFakeDedupe())

	if err := h.HandleMessageReceived(context.Background(), classifyPayload(t, msgID)); err != nil {
		t.Fatalf("HandleMessageReceived() error = %v", err)
	}
	if len(deriver.ids) != 1 || deriver.ids[0] != clsID {
		t.Errorf("derived from ids %v, want [%s]", deriver.ids, clsID)
	}
	if len(deriver.users) != 1 || deriver.users[0] != "alice" {
		t.Errorf("derived for users %v, want [alice]", deriver.users)
	}
}
