package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/pricing"
	"github.com/x-xyz/marketcore/service/cache"
)

const (
	DefaultTtl = 30 * time.Second
	priceKey   = "usd"
)

type OracleCfg struct {
	Source pricing.Source
	// Cache keeps the last quote; shared through redis when the provider is
	Cache cache.Service
	Ttl   time.Duration
	// Override pins the price and skips the source entirely
	Override      decimal.Decimal
	TokenDecimals int32
	Clock         domain.Clock
}

type quote struct {
	Price     decimal.Decimal `json:"price"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

type oracleImpl struct {
	source   pricing.Source
	cache    cache.Service
	ttl      time.Duration
	override decimal.Decimal
	unit     decimal.Decimal
	clock    domain.Clock

	// serializes refreshes so one stale quote triggers one source call
	mutex sync.Mutex
}

func NewOracle(cfg *OracleCfg) pricing.Oracle {
	ttl := cfg.Ttl
	if ttl == 0 {
		ttl = DefaultTtl
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &oracleImpl{
		source:   cfg.Source,
		cache:    cfg.Cache,
		ttl:      ttl,
		override: cfg.Override,
		unit:     decimal.New(1, cfg.TokenDecimals),
		clock:    clock,
	}
}

func (im *oracleImpl) Price(c ctx.Ctx) (decimal.Decimal, error) {
	if im.override.IsPositive() {
		return im.override, nil
	}

	im.mutex.Lock()
	defer im.mutex.Unlock()

	now := im.clock()
	q := &quote{}
	if err := im.cache.Get(c, priceKey, q); err == nil && now.Sub(q.FetchedAt) < im.ttl {
		return q.Price, nil
	} else if err != nil && err != cache.ErrNotFound {
		c.WithField("err", err).Warn("failed to read cached price")
	}

	price, err := im.source.UsdPrice(c)
	if err != nil {
		c.WithField("err", err).Error("source.UsdPrice failed")
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		c.WithField("price", price).Error("non-positive price")
		return decimal.Zero, pricing.ErrInvalidPrice
	}

	if err := im.cache.Set(c, priceKey, &quote{Price: price, FetchedAt: now}); err != nil {
		c.WithField("err", err).Warn("failed to cache price")
	}
	return price, nil
}

func (im *oracleImpl) UsdToToken(c ctx.Ctx, usd decimal.Decimal) (*big.Int, error) {
	if usd.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	price, err := im.Price(c)
	if err != nil {
		return nil, err
	}
	// whole base units, remainder dropped
	amount, _ := usd.Mul(im.unit).QuoRem(price, 0)
	c.WithFields(log.Fields{
		"usd":    usd,
		"price":  price,
		"amount": amount,
	}).Debug("usd converted")
	return amount.BigInt(), nil
}
