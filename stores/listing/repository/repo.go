package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/listing"
	"github.com/x-xyz/marketcore/service/query"
)

const defaultLimit = 100

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) listing.Repo {
	return &impl{q: q}
}

func (im *impl) FindOne(c ctx.Ctx, id string) (*listing.Listing, error) {
	res := &listing.Listing{}
	if err := im.q.FindOne(c, domain.TableListings, bson.M{"_id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to find listing")
		return nil, err
	}
	return res, nil
}

func toQuery(opts listing.FindAllOptions) bson.M {
	qry := bson.M{}
	if opts.Status != nil {
		qry["status"] = *opts.Status
	}
	if opts.SellerId != nil {
		qry["sellerId"] = *opts.SellerId
	}
	if opts.ItemId != nil {
		qry["itemId"] = *opts.ItemId
	}
	return qry
}

func (im *impl) FindAll(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("failed to get find all options")
		return nil, err
	}

	offset, limit := 0, defaultLimit
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*listing.Listing{}
	if err := im.q.Search(c, domain.TableListings, offset, limit, "-createdAt,_id", toQuery(opts), &res); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"opts": opts,
		}).Error("failed to search listings")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) (int, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("failed to get find all options")
		return 0, err
	}
	n, err := im.q.Count(c, domain.TableListings, toQuery(opts))
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"opts": opts,
		}).Error("failed to count listings")
		return 0, err
	}
	return n, nil
}

func (im *impl) Insert(c ctx.Ctx, l *listing.Listing) error {
	if err := im.q.Insert(c, domain.TableListings, l); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.Id,
		}).Error("failed to insert listing")
		return err
	}
	return nil
}

func (im *impl) Save(c ctx.Ctx, l *listing.Listing) error {
	next := *l
	next.Version++
	if err := im.q.Replace(c, domain.TableListings, bson.M{"_id": l.Id, "version": l.Version}, &next); err == query.ErrNotFound {
		return domain.ErrConcurrentUpdate
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.Id,
		}).Error("failed to save listing")
		return err
	}
	l.Version = next.Version
	return nil
}
