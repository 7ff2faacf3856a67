package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/service/query"
)

type inboxRepoImpl struct {
	q query.Mongo
}

func NewInboxRepo(q query.Mongo) notification.InboxRepo {
	return &inboxRepoImpl{q: q}
}

func (im *inboxRepoImpl) Insert(c ctx.Ctx, msg *notification.InboxMessage) error {
	if err := im.q.Insert(c, domain.TableInbox, msg); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"accountId": msg.AccountId,
			"kind":      msg.Kind,
		}).Error("failed to insert inbox message")
		return err
	}
	return nil
}

func (im *inboxRepoImpl) FindAll(c ctx.Ctx, accountId domain.AccountId, unreadOnly bool, offset, limit int32) ([]*notification.InboxMessage, error) {
	qry := bson.M{"accountId": accountId}
	if unreadOnly {
		qry["readAt"] = bson.M{"$exists": false}
	}
	res := []*notification.InboxMessage{}
	if err := im.q.Search(c, domain.TableInbox, int(offset), int(limit), "-createdAt,_id", qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"accountId": accountId,
		}).Error("failed to search inbox")
		return nil, err
	}
	return res, nil
}

func (im *inboxRepoImpl) MarkRead(c ctx.Ctx, accountId domain.AccountId, id string, at time.Time) error {
	selector := bson.M{"_id": id, "accountId": accountId}
	if err := im.q.Patch(c, domain.TableInbox, selector, bson.M{"readAt": at}); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mark inbox message read")
		return err
	}
	return nil
}
