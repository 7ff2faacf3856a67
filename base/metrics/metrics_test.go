package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	s := New("settlement").(*service)
	tags := s.tags([]string{"action", "listing_buy", "result", "ok"})
	req := require.New(t)
	req.Contains(tags, "action:listing_buy")
	req.Contains(tags, "result:ok")
	req.Panics(func() { s.tags([]string{"odd"}) })
}

func TestBumpWithoutAgent(t *testing.T) {
	s := New("settlement")
	require.NotPanics(t, func() {
		s.BumpSum("settle.err", 1, "action", "auction_finalize")
		s.BumpHistogram("verify.latency", 12.5)
		s.BumpTime("settle.time").End()
		Nop().BumpTime("x").End()
	})
}
