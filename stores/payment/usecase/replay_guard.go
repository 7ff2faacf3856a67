package usecase

import (
	"errors"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
)

type replayGuardImpl struct {
	repo  settlement.TxRecordRepo
	clock domain.Clock
}

func NewReplayGuard(repo settlement.TxRecordRepo, clock domain.Clock) settlement.ReplayGuard {
	return &replayGuardImpl{repo: repo, clock: clock}
}

func (im *replayGuardImpl) IsConsumed(c ctx.Ctx, txRef domain.TxHash) (bool, error) {
	_, err := im.repo.FindOne(c, txRef)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"txRef": txRef,
		}).Error("failed to repo.FindOne")
		return false, err
	}
	return true, nil
}

func (im *replayGuardImpl) Consume(c ctx.Ctx, txRef domain.TxHash, accountId domain.AccountId, action settlement.Action, subjectId string) (*settlement.TxRecord, error) {
	record := &settlement.TxRecord{
		TxRef:             txRef.ToLower(),
		ConsumedById:      accountId,
		ConsumedForAction: action,
		SubjectId:         subjectId,
		ConsumedAt:        im.clock(),
	}
	if err := im.repo.Insert(c, record); err != nil {
		if !errors.Is(err, domain.ErrAlreadyConsumed) {
			c.WithFields(log.Fields{
				"err":   err,
				"txRef": txRef,
			}).Error("failed to repo.Insert")
		}
		return nil, err
	}
	return record, nil
}
