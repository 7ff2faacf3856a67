package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
	// ErrNoTTL is returned by TTL when the key has no expire
	ErrNoTTL = errors.New("redis key has no ttl")
)

// Service is the subset of redis commands the marketplace needs
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	// Set sets key with a ttl, ttl <= 0 means no expire
	Set(c ctx.Ctx, key string, val []byte, ttl time.Duration) error
	Del(c ctx.Ctx, ks ...string) (int, error)
	// TTL returns the remaining seconds of key
	TTL(c ctx.Ctx, key string) (int, error)
	Ping(c ctx.Ctx) error
}
