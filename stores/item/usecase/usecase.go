package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/item"
)

type Cfg struct {
	Repo item.Repo
	// HoldPeriod applies to items granted with hold
	HoldPeriod time.Duration
	Clock      domain.Clock
}

type impl struct {
	repo       item.Repo
	holdPeriod time.Duration
	clock      domain.Clock
}

func New(cfg *Cfg) item.Usecase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		repo:       cfg.Repo,
		holdPeriod: cfg.HoldPeriod,
		clock:      clock,
	}
}

func (im *impl) Get(c ctx.Ctx, id string) (*item.Item, error) {
	return im.repo.FindOne(c, id)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...item.FindAllOptionsFunc) ([]*item.Item, error) {
	return im.repo.FindAll(c, opts...)
}

func (im *impl) Grant(c ctx.Ctx, owner domain.AccountId, itemTypes []string, hold bool) ([]*item.Item, error) {
	now := im.clock()
	var holdUntil *time.Time
	if hold && im.holdPeriod > 0 {
		t := now.Add(im.holdPeriod)
		holdUntil = &t
	}

	res := make([]*item.Item, 0, len(itemTypes))
	for _, itemType := range itemTypes {
		i := &item.Item{
			Id:         uuid.NewString(),
			OwnerId:    owner,
			ItemType:   itemType,
			AcquiredAt: now,
			HoldUntil:  holdUntil,
		}
		if err := im.repo.Insert(c, i); err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"owner":    owner,
				"itemType": itemType,
			}).Error("failed to repo.Insert")
			return nil, err
		}
		res = append(res, i)
	}
	return res, nil
}
