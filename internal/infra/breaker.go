package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Breaker guards an unreliable downstream (the SMTP relay) with the
// closed → open → half-open cycle. While open, calls fail fast with
// ErrCircuitOpen; after OpenTimeout a limited number of probes go through.

// CBState is a breaker state.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig holds tunable parameters. Zero values take the defaults.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the breaker (5)
	SuccessThreshold int           // half-open successes that close it again (2)
	OpenTimeout      time.Duration // time spent open before probing (60s)
}

type Breaker struct {
	name string
	cfg  BreakerConfig
	now  func() time.Time

	mu        sync.Mutex
	state     CBState
	failures  int
	successes int
	openedAt  time.Time
}

func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &Breaker{name: name, cfg: cfg, now: time.Now, state: CBClosed}
}

// State reports the current state, moving open → half-open once the
// timeout has elapsed.
func (b *Breaker) State() CBState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// Execute runs fn unless the breaker is open.
func (b *Breaker) Execute(fn func() error) error {
	if b.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

func (b *Breaker) refresh() {
	if b.state == CBOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.transition(CBHalfOpen)
	}
}

func (b *Breaker) recordFailure() {
	b.failures++
	switch b.state {
	case CBClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(CBOpen)
		}
	case CBHalfOpen:
		b.transition(CBOpen)
	}
}

func (b *Breaker) recordSuccess() {
	switch b.state {
	case CBClosed:
		b.failures = 0
	case CBHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.transition(CBClosed)
		}
	}
}

// transition must be called under lock.
func (b *Breaker) transition(to CBState) {
	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == CBOpen {
		b.openedAt = b.now()
	}
	log.Warn().Str("breaker", b.name).Str("from", from.String()).Str("to", to.String()).
		Msg("circuit breaker state change")
}
