package backoff

import (
	"context"
	"time"
)

// Strategy maps the number of waits so far to the next wait
type Strategy interface {
	Duration(attempts int, start time.Duration) time.Duration
}

// Backoff is not safe for concurrent use. Each worker loop owns one.
type Backoff struct {
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	attempts     int
	strategy     Strategy
}

// NewBackoff caps every wait at limit; a zero limit means uncapped
func NewBackoff(strategy Strategy, start, limit time.Duration) *Backoff {
	b := &Backoff{strategy: strategy, start: start, limit: limit}
	b.Reset()
	return b
}

func (b *Backoff) Reset() {
	b.attempts = 0
	b.NextDuration = b.next()
}

// Attempts is the number of completed waits since the last Reset
func (b *Backoff) Attempts() int {
	return b.attempts
}

// Backoff sleeps for NextDuration and grows it. It returns ctx.Err() early
// when ctx is done, leaving the schedule untouched.
func (b *Backoff) Backoff(ctx context.Context) error {
	timer := time.NewTimer(b.NextDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	b.attempts++
	b.NextDuration = b.next()
	return nil
}

func (b *Backoff) next() time.Duration {
	d := b.strategy.Duration(b.attempts, b.start)
	if b.limit > 0 && (d > b.limit || d < 0) {
		d = b.limit
	}
	return d
}

type exponential struct{}

func (exponential) Duration(attempts int, start time.Duration) time.Duration {
	if attempts > 62 {
		attempts = 62
	}
	return start << uint(attempts)
}

// NewExponential doubles the wait each time: start, 2*start, 4*start...
func NewExponential(start, limit time.Duration) *Backoff {
	return NewBackoff(exponential{}, start, limit)
}

type linear struct{}

func (linear) Duration(attempts int, start time.Duration) time.Duration {
	return time.Duration(attempts+1) * start
}

// NewLinear waits start, 2*start, 3*start...
func NewLinear(start, limit time.Duration) *Backoff {
	return NewBackoff(linear{}, start, limit)
}
