package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/auction"
	"github.com/x-xyz/marketcore/service/query"
)

const defaultLimit = 100

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) auction.Repo {
	return &impl{q: q}
}

func (im *impl) FindOne(c ctx.Ctx, id string) (*auction.Auction, error) {
	res := &auction.Auction{}
	if err := im.q.FindOne(c, domain.TableAuctions, bson.M{"_id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to find auction")
		return nil, err
	}
	return res, nil
}

func toQuery(opts auction.FindAllOptions) bson.M {
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
	if opts.EndsBefore != nil {
		qry["endsAt"] = bson.M{"$lt": *opts.EndsBefore}
	}
	if opts.After != nil {
		qry["$or"] = bson.A{
			bson.M{"endsAt": bson.M{"$gt": opts.After.EndsAt}},
			bson.M{"endsAt": opts.After.EndsAt, "_id": bson.M{"$gt": opts.After.Id}},
		}
	}
	if opts.HasBid != nil {
		qry["topBidderId"] = bson.M{"$exists": *opts.HasBid}
	}
	return qry
}

func (im *impl) FindAll(c ctx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
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

	res := []*auction.Auction{}
	if err := im.q.Search(c, domain.TableAuctions, offset, limit, "endsAt,_id", toQuery(opts), &res); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"opts": opts,
		}).Error("failed to search auctions")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c ctx.Ctx, optFns ...auction.FindAllOptionsFunc) (int, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("failed to get find all options")
		return 0, err
	}
	n, err := im.q.Count(c, domain.TableAuctions, toQuery(opts))
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"opts": opts,
		}).Error("failed to count auctions")
		return 0, err
	}
	return n, nil
}

func (im *impl) Insert(c ctx.Ctx, a *auction.Auction) error {
	if err := im.q.Insert(c, domain.TableAuctions, a); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  a.Id,
		}).Error("failed to insert auction")
		return err
	}
	return nil
}

func (im *impl) Save(c ctx.Ctx, a *auction.Auction) error {
	next := *a
	next.Version++
	if err := im.q.Replace(c, domain.TableAuctions, bson.M{"_id": a.Id, "version": a.Version}, &next); err == query.ErrNotFound {
		return domain.ErrConcurrentUpdate
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  a.Id,
		}).Error("failed to save auction")
		return err
	}
	a.Version = next.Version
	return nil
}

type bidRepoImpl struct {
	q query.Mongo
}

// NewBidRepo stores the append-only bid history
func NewBidRepo(q query.Mongo) auction.BidRepo {
	return &bidRepoImpl{q: q}
}

func (im *bidRepoImpl) Insert(c ctx.Ctx, bid *auction.Bid) error {
	if err := im.q.Insert(c, domain.TableBids, bid); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": bid.AuctionId,
		}).Error("failed to insert bid")
		return err
	}
	return nil
}

func (im *bidRepoImpl) FindAll(c ctx.Ctx, auctionId string) ([]*auction.Bid, error) {
	res := []*auction.Bid{}
	if err := im.q.Search(c, domain.TableBids, 0, 0, "-placedAt", bson.M{"auctionId": auctionId}, &res); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
		}).Error("failed to search bids")
		return nil, err
	}
	return res, nil
}
