package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	req.Equal(time.Millisecond, b.NextDuration)

	for _, want := range []time.Duration{2, 4, 4} {
		req.NoError(b.Backoff(context.Background()))
		req.Equal(want*time.Millisecond, b.NextDuration)
	}
	req.Equal(3, b.Attempts())

	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
	req.Zero(b.Attempts())
}

func TestLinear(t *testing.T) {
	req := require.New(t)
	b := NewLinear(time.Millisecond, 0)
	for _, want := range []time.Duration{1, 2, 3} {
		req.Equal(want*time.Millisecond, b.NextDuration)
		req.NoError(b.Backoff(context.Background()))
	}
}

func TestBackoffCancelled(t *testing.T) {
	req := require.New(t)
	b := NewLinear(time.Hour, 0)
	c, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(b.Backoff(c), context.Canceled)
	req.Equal(time.Hour, b.NextDuration)
	req.Zero(b.Attempts())
}
