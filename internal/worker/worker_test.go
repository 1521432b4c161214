package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"shopfloor/internal/infra"
	"shopfloor/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestMain(m *testing.M) {
	retryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeMailer struct {
	mu   sync.Mutex
	sent []EmailJobPayload
	err  error
}

func (m *fakeMailer) Send(to, subject, body, attachmentPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, AttachmentPath: attachmentPath})
	return nil
}

type fakeTravelers struct {
	data *infra.TravelerData
	err  error
}

func (f *fakeTravelers) TravelerData(_ context.Context, _ uint) (*infra.TravelerData, error) {
	return f.data, f.err
}

type fakeEmailQueue struct {
	queued []EmailJobPayload
}

func (q *fakeEmailQueue) EnqueueEmail(_ context.Context, p EmailJobPayload) error {
	q.queued = append(q.queued, p)
	return nil
}

type countingHandler struct {
	calls   int
	failFor int
}

func (h *countingHandler) Process(_ context.Context, _ json.RawMessage) error {
	h.calls++
	if h.calls <= h.failFor {
		return errFlaky
	}
	return nil
}

// ── Retry / routing ──────────────────────────────────────────────────────────

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		return errFlaky
	})
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 3, func(int) error {
		calls++
		cancel()
		return errFlaky
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRunJob_RoutesByType(t *testing.T) {
	orders := &countingHandler{failFor: 1}
	emails := &countingHandler{}
	handlers := &WorkerHandlers{OrderCompleted: orders, Email: emails}

	require.NoError(t, runJob(context.Background(), handlers, Job{Type: JobOrderCompleted, Payload: mustJSON(OrderCompletedPayload{OrderID: 1})}))
	assert.Equal(t, 2, orders.calls)
	assert.Equal(t, 0, emails.calls)

	err := runJob(context.Background(), handlers, Job{Type: "unknown"})
	assert.Error(t, err)
}

// ── Email worker ─────────────────────────────────────────────────────────────

func TestEmailWorker_Sends(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewEmailWorker(mailer, infra.NewBreaker("smtp", infra.BreakerConfig{}))

	err := w.Process(context.Background(), mustJSON(EmailJobPayload{ToEmail: "ops@example.com", Subject: "hi", Body: "body"}))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ops@example.com", mailer.sent[0].ToEmail)
}

func TestEmailWorker_SkipsWithoutRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewEmailWorker(mailer, infra.NewBreaker("smtp", infra.BreakerConfig{}))

	require.NoError(t, w.Process(context.Background(), mustJSON(EmailJobPayload{Subject: "hi"})))
	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{not json`)))
	assert.Empty(t, mailer.sent)
}

func TestEmailWorker_BreakerOpensAndFailsFast(t *testing.T) {
	mailer := &fakeMailer{err: errFlaky}
	cb := infra.NewBreaker("smtp", infra.BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	w := NewEmailWorker(mailer, cb)
	job := mustJSON(EmailJobPayload{ToEmail: "ops@example.com"})

	assert.ErrorIs(t, w.Process(context.Background(), job), errFlaky)
	assert.ErrorIs(t, w.Process(context.Background(), job), errFlaky)
	assert.Equal(t, infra.CBOpen, cb.State())
	assert.ErrorIs(t, w.Process(context.Background(), job), infra.ErrCircuitOpen)
}

// ── Order completed worker ───────────────────────────────────────────────────

func sampleTravelerData() *infra.TravelerData {
	return &infra.TravelerData{
		WorkOrderNo: "WO-3",
		ProductCode: "P1",
		Status:      "COMPLETED",
		TargetQty:   2,
		CurrentQty:  2,
		OKCount:     2,
		YieldPct:    decimal.NewFromInt(100),
		GeneratedAt: time.Now(),
		Units: []infra.TravelerUnit{
			{SerialNo: "P1-00000001", Result: "OK", MachineID: "M1", ProducedAt: time.Now()},
			{SerialNo: "P1-00000002", Result: "OK", MachineID: "M1", ProducedAt: time.Now()},
		},
	}
}

func TestOrderCompletedWorker_GeneratesTravelerAndQueuesEmail(t *testing.T) {
	dir := t.TempDir()
	queue := &fakeEmailQueue{}
	w := NewOrderCompletedWorker(&fakeTravelers{data: sampleTravelerData()}, queue, dir, "ops@example.com")

	require.NoError(t, w.Process(context.Background(), mustJSON(OrderCompletedPayload{OrderID: 3})))

	require.Len(t, queue.queued, 1)
	mail := queue.queued[0]
	assert.Equal(t, "ops@example.com", mail.ToEmail)
	assert.Contains(t, mail.Subject, "WO-3")
	assert.Contains(t, mail.Body, "yield 100.00%")
	_, err := os.Stat(mail.AttachmentPath)
	assert.NoError(t, err)
}

func TestOrderCompletedWorker_NoRecipientOnlyWritesTraveler(t *testing.T) {
	dir := t.TempDir()
	queue := &fakeEmailQueue{}
	w := NewOrderCompletedWorker(&fakeTravelers{data: sampleTravelerData()}, queue, dir, "")

	require.NoError(t, w.Process(context.Background(), mustJSON(OrderCompletedPayload{OrderID: 3})))
	assert.Empty(t, queue.queued)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOrderCompletedWorker_MissingOrderIsDropped(t *testing.T) {
	w := NewOrderCompletedWorker(&fakeTravelers{err: service.ErrOrderNotFound}, nil, t.TempDir(), "ops@example.com")
	assert.NoError(t, w.Process(context.Background(), mustJSON(OrderCompletedPayload{OrderID: 9})))
}

func TestOrderCompletedWorker_StoreErrorIsRetried(t *testing.T) {
	w := NewOrderCompletedWorker(&fakeTravelers{err: errFlaky}, nil, t.TempDir(), "")
	assert.ErrorIs(t, w.Process(context.Background(), mustJSON(OrderCompletedPayload{OrderID: 9})), errFlaky)
}

func TestOrderCompletedWorker_InvalidPayload(t *testing.T) {
	w := NewOrderCompletedWorker(&fakeTravelers{data: sampleTravelerData()}, nil, t.TempDir(), "")
	assert.NotPanics(t, func() {
		assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"order_id":"x"}`)))
	})
}
