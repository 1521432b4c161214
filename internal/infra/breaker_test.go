package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("smtp unavailable")

func newTestBreaker(clock *time.Time) *Breaker {
	b := NewBreaker("smtp", BreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	b.now = func() time.Time { return *clock }
	return b
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock)
	fail := func() error { return errDownstream }

	assert.ErrorIs(t, b.Execute(fail), errDownstream)
	assert.Equal(t, CBClosed, b.State())
	assert.ErrorIs(t, b.Execute(fail), errDownstream)
	assert.Equal(t, CBOpen, b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock)
	fail := func() error { return errDownstream }
	_ = b.Execute(fail)
	_ = b.Execute(fail)
	require.Equal(t, CBOpen, b.State())

	clock = clock.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, b.State())
	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, b.State())
}

func TestBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock)
	fail := func() error { return errDownstream }
	_ = b.Execute(fail)
	_ = b.Execute(fail)

	clock = clock.Add(2 * time.Minute)
	assert.ErrorIs(t, b.Execute(fail), errDownstream)
	assert.Equal(t, CBOpen, b.State())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock)
	fail := func() error { return errDownstream }

	_ = b.Execute(fail)
	require.NoError(t, b.Execute(func() error { return nil }))
	_ = b.Execute(fail)
	assert.Equal(t, CBClosed, b.State())
}
