package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
	"github.com/x-xyz/marketcore/service/query"
)

type txRecordRepoImpl struct {
	q query.Mongo
}

// NewTxRecordRepo stores consumed transaction references. txRef is the
// document _id, so the collection's primary key is the replay guard.
func NewTxRecordRepo(q query.Mongo) settlement.TxRecordRepo {
	return &txRecordRepoImpl{q: q}
}

func (im *txRecordRepoImpl) Insert(c ctx.Ctx, record *settlement.TxRecord) error {
	record.TxRef = record.TxRef.ToLower()
	if err := im.q.Insert(c, domain.TableSettlementTxs, record); err == query.ErrDuplicateKey {
		return domain.ErrAlreadyConsumed
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"txRef":  record.TxRef,
			"action": record.ConsumedForAction,
		}).Error("failed to insert tx record")
		return err
	}
	return nil
}

func (im *txRecordRepoImpl) FindOne(c ctx.Ctx, txRef domain.TxHash) (*settlement.TxRecord, error) {
	record := &settlement.TxRecord{}
	if err := im.q.FindOne(c, domain.TableSettlementTxs, bson.M{"_id": txRef.ToLower()}, record); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"txRef": txRef,
		}).Error("failed to find tx record")
		return nil, err
	}
	return record, nil
}
