package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/service/query"
)

const defaultLimit = 100

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) item.Repo {
	return &impl{q: q}
}

func (im *impl) FindOne(c ctx.Ctx, id string) (*item.Item, error) {
	res := &item.Item{}
	if err := im.q.FindOne(c, domain.TableItems, bson.M{"_id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to find item")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAll(c ctx.Ctx, optFns ...item.FindAllOptionsFunc) ([]*item.Item, error) {
	opts, err := item.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("failed to get find all options")
		return nil, err
	}

	qry := bson.M{}
	if opts.OwnerId != nil {
		qry["ownerId"] = *opts.OwnerId
	}

	offset, limit := 0, defaultLimit
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*item.Item{}
	if err := im.q.Search(c, domain.TableItems, offset, limit, "-acquiredAt,_id", qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"opts": opts,
		}).Error("failed to search items")
		return nil, err
	}
	return res, nil
}

func (im *impl) Insert(c ctx.Ctx, i *item.Item) error {
	if err := im.q.Insert(c, domain.TableItems, i); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  i.Id,
		}).Error("failed to insert item")
		return err
	}
	return nil
}

func (im *impl) Save(c ctx.Ctx, i *item.Item) error {
	next := *i
	next.Version++
	if err := im.q.Replace(c, domain.TableItems, bson.M{"_id": i.Id, "version": i.Version}, &next); err == query.ErrNotFound {
		return domain.ErrConcurrentUpdate
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  i.Id,
		}).Error("failed to save item")
		return err
	}
	i.Version = next.Version
	return nil
}
