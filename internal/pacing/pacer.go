// Package pacing throttles writes against rate-limited providers.
package pacing

import (
	"context"
	"time"
)

// Pacer blocks between top-level writes. It is a fixed-rate limiter,
// not an adaptive backoff: every write pays the same pause.
type Pacer interface {
	Wait(ctx context.Context) error
}

type fixedPacer struct {
	interval time.Duration
}

// NewFixed returns a Pacer that pauses for interval on every Wait.
// A non-positive interval yields without sleeping.
func NewFixed(interval time.Duration) Pacer {
	return &fixedPacer{interval: interval}
}

func (p *fixedPacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
