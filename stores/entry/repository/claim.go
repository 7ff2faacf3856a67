package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/entry"
	"github.com/x-xyz/marketcore/service/query"
)

type claimRepoImpl struct {
	q query.Mongo
}

// NewClaimRepo keys claims by account id so each account claims once
func NewClaimRepo(q query.Mongo) entry.ClaimRepo {
	return &claimRepoImpl{q: q}
}

func (im *claimRepoImpl) Insert(c ctx.Ctx, claim *entry.Claim) error {
	if err := im.q.Insert(c, domain.TableEntryClaims, claim); err == query.ErrDuplicateKey {
		return domain.ErrAlreadyClaimed
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"accountId": claim.AccountId,
		}).Error("failed to insert entry claim")
		return err
	}
	return nil
}

func (im *claimRepoImpl) FindOne(c ctx.Ctx, accountId domain.AccountId) (*entry.Claim, error) {
	claim := &entry.Claim{}
	if err := im.q.FindOne(c, domain.TableEntryClaims, bson.M{"_id": accountId}, claim); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"accountId": accountId,
		}).Error("failed to find entry claim")
		return nil, err
	}
	return claim, nil
}
