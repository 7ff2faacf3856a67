package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/marketcore/base/log"
)

type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

// Detach keeps the logger fields of parent but drops its deadline and
// cancellation, for work that outlives the request that started it.
func Detach(parent Ctx) Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  parent.Logger,
	}
}

func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent, key, val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}

const keyAccountId = "accountId"

// WithAccount tags ctx and its logger with the authenticated account
func WithAccount(parent Ctx, accountId string) Ctx {
	return WithValue(parent, keyAccountId, accountId)
}

// AccountId returns the account set by WithAccount, or ""
func AccountId(c Ctx) string {
	id, _ := c.Value(keyAccountId).(string)
	return id
}
