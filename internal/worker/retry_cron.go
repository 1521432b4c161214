package worker

// retry_cron.go
// Background goroutine that periodically replays email jobs from the dead
// letter queue while the SMTP breaker is not open. Entries that have used up
// their replay budget are parked in dlq:jobs:email:parked.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shopfloor/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	// MaxEmailAttempts caps total runs of one email across replays.
	MaxEmailAttempts = 3 * maxJobAttempts
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	CB  *infra.Breaker
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// replays dead-lettered email jobs. It respects the context for graceful
// shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				replayEmails(ctx, cfg)
			}
		}
	}()
}

// replayEmails moves up to retryBatchSize entries from the email DLQ back onto
// the email queue. It returns the number replayed.
func replayEmails(ctx context.Context, cfg RetryCronConfig) int {
	// Don't hammer a relay that is known to be down
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	dlqKey := DLQPrefix + QueueEmail
	replayed := 0
	for i := 0; i < retryBatchSize; i++ {
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			break
		}

		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to read email DLQ")
			break
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: dropping malformed DLQ entry")
			continue
		}

		if entry.Attempts >= MaxEmailAttempts {
			pushDLQ(ctx, cfg.RDB, dlqKey+parkedSuffix, entry)
			log.Error().Int("attempts", entry.Attempts).Msg("retry_cron: email exceeded replay budget, parked")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		if err := pushJob(ctx, cfg.RDB, QueueEmail, job); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to requeue email, returning to DLQ")
			pushDLQ(ctx, cfg.RDB, dlqKey, entry)
			break
		}
		replayed++
	}

	if replayed > 0 {
		log.Info().Int("count", replayed).Msg("retry_cron: replayed email jobs")
	}
	return replayed
}
