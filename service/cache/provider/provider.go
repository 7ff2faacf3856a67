package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
)

var ErrNotFound = errors.New("cache provider: not found")

// Provider is a raw byte cache. Get returns the remaining ttl, zero when the
// entry does not expire.
type Provider interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
