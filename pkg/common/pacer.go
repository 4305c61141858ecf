package common

import (
	"context"
	"time"
)

// Pacer runs tasks strictly one at a time with a fixed delay between them.
// Upstream completion APIs throttle aggressively, so the chunked summarizer
// serializes its calls through one of these instead of sleeping ad hoc at
// call sites.
type Pacer struct {
	delay time.Duration
}

// NewPacer creates a pacer with the given inter-task delay
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Run executes each task in order, waiting delay between consecutive tasks
// (not before the first or after the last). It stops on the first task error
// or on context cancellation.
func (p *Pacer) Run(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	for i, task := range tasks {
		if i > 0 && p.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay):
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := task(ctx); err != nil {
			return err
		}
	}
	return nil
}
