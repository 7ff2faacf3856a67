package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
	"github.com/x-xyz/marketcore/service/cache"
	"github.com/x-xyz/marketcore/service/cache/provider"
	"github.com/x-xyz/marketcore/service/cache/provider/compound"
	"github.com/x-xyz/marketcore/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/marketcore/service/cache/provider/redis"
	"github.com/x-xyz/marketcore/service/query"
	"github.com/x-xyz/marketcore/service/redis"
)

var timeNow = time.Now

type impl struct {
	query        query.Mongo
	accountCache cache.Service
}

// New creates new account repo. Accounts are read on every settlement and
// change rarely, so reads go through an in-process cache, backed by redis
// when one is given.
func New(query query.Mongo, redis redis.Service) account.Repo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("account", 32),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		query: query,
		accountCache: cache.New(cache.ServiceConfig{
			Ttl:   10 * time.Minute,
			Pfx:   "account",
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) FindOne(c ctx.Ctx, id domain.AccountId) (*account.Account, error) {
	res := &account.Account{}

	if err := im.accountCache.GetByFunc(c, string(id), res, func() (interface{}, error) {
		return im.findOne(c, id)
	}); err == domain.ErrNotFound {
		return nil, err
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"accountId": id,
		}).Error("accountCache.GetByFunc failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) findOne(c ctx.Ctx, id domain.AccountId) (*account.Account, error) {
	a := &account.Account{}
	err := im.query.FindOne(c, domain.TableAccounts, bson.M{"_id": id}, a)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"accountId": id,
			"err":       err,
		}).Error("find account failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) LinkPayout(c ctx.Ctx, id domain.AccountId, address domain.Address) (*account.Account, error) {
	now := timeNow()
	update := bson.M{
		"$set": bson.M{
			"payoutAddress": address.ToLower(),
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	if err := im.query.CustomPatch(c, domain.TableAccounts, bson.M{"_id": id}, update, true); err != nil {
		c.WithFields(log.Fields{
			"accountId": id,
			"err":       err,
		}).Error("upsert account failed")
		return nil, err
	}

	if err := im.accountCache.Del(c, string(id)); err != nil {
		c.WithFields(log.Fields{
			"accountId": id,
			"err":       err,
		}).Warn("accountCache.Del failed")
	}

	return im.findOne(c, id)
}
