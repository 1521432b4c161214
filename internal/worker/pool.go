package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueOrderCompleted = "jobs:order_completed"
	QueueEmail          = "jobs:email"

	JobOrderCompleted = "order_completed"
	JobEmail          = "email"

	// maxJobAttempts is how many times a handler runs before the job is
	// parked in the dead letter queue.
	maxJobAttempts = 3
)

// retryBaseDelay is the first backoff step; each further attempt doubles it.
var retryBaseDelay = time.Second

// Job is the generic envelope for all async tasks. Attempts carries the
// number of failed runs across DLQ replays.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueOrderCompleted schedules traveler generation and notification for a
// work order that just reached its target.
func (d *Dispatcher) EnqueueOrderCompleted(ctx context.Context, orderID uint) error {
	return d.enqueue(ctx, QueueOrderCompleted, JobOrderCompleted, OrderCompletedPayload{OrderID: orderID}, 0)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload, 0)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}, attempts int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data, Attempts: attempts})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers wires job types to their processors.
type WorkerHandlers struct {
	OrderCompleted Handler
	Email          Handler
}

func (h *WorkerHandlers) forType(jobType string) Handler {
	switch jobType {
	case JobOrderCompleted:
		return h.OrderCompleted
	case JobEmail:
		return h.Email
	}
	return nil
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, idle until a job arrives.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueOrderCompleted, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	if err := runJob(ctx, handlers, job); err != nil {
		attempts := job.Attempts + maxJobAttempts
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), attempts)
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// runJob routes job to its handler and retries with exponential backoff.
func runJob(ctx context.Context, handlers *WorkerHandlers, job Job) error {
	h := handlers.forType(job.Type)
	if h == nil {
		return fmt.Errorf("no handler for job type %q", job.Type)
	}
	return withRetry(ctx, maxJobAttempts, func(attempt int) error {
		err := h.Process(ctx, job.Payload)
		if err != nil {
			log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempt+1).Msg("job attempt failed")
		}
		return err
	})
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := retryBaseDelay * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
