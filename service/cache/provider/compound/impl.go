package compound

import (
	"errors"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/service/cache/provider"
)

type impl struct {
	layers []provider.Provider
}

// NewCompound reads layers front to back and stops at the first hit,
// back-filling the layers in front of it. Put the cheapest layer first.
func NewCompound(layers []provider.Provider) provider.Provider {
	return &impl{layers}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	for idx, lyr := range im.layers {
		val, ttl, err := lyr.Get(c, key)
		if errors.Is(err, provider.ErrNotFound) {
			continue
		} else if err != nil {
			// a broken layer reads as a miss so the next one can answer
			c.WithFields(log.Fields{"err": err, "key": key, "layer": idx}).Warn("layer Get failed")
			continue
		}

		for front, lyr := range im.layers[:idx] {
			if err := lyr.Set(c, key, val, ttl); err != nil {
				c.WithFields(log.Fields{"err": err, "key": key, "layer": front}).Warn("layer fill failed")
			}
		}
		return val, ttl, nil
	}
	return nil, 0, provider.ErrNotFound
}

// Set writes every layer and returns the first failure
func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Set(c, key, value, ttl); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Del clears every layer and returns the first failure
func (im *impl) Del(c ctx.Ctx, key string) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}
