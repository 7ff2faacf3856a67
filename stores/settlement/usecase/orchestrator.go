package usecase

import (
	"errors"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/settlement"
)

type Cfg struct {
	Verifier    settlement.Verifier
	ReplayGuard settlement.ReplayGuard
	Transactor  domain.Transactor
	Sink        notification.Sink
	Clock       domain.Clock
	Metrics     metrics.Service
}

type impl struct {
	verifier settlement.Verifier
	guard    settlement.ReplayGuard
	tx       domain.Transactor
	sink     notification.Sink
	clock    domain.Clock
	met      metrics.Service
}

func New(cfg *Cfg) settlement.Orchestrator {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("settlement")
	}
	return &impl{
		verifier: cfg.Verifier,
		guard:    cfg.ReplayGuard,
		tx:       cfg.Transactor,
		sink:     cfg.Sink,
		clock:    clock,
		met:      met,
	}
}

func (im *impl) Settle(c ctx.Ctx, req settlement.Request, gate settlement.Gate) (*settlement.Receipt, error) {
	defer im.met.BumpTime("time", "action", string(req.Action)).End()

	c = ctx.WithValues(c, map[string]interface{}{
		"action":    req.Action,
		"txRef":     req.TxRef,
		"subjectId": req.SubjectId,
	})

	receipt, err := im.settle(c, req, gate)
	if err != nil {
		im.met.BumpSum("err", 1, "action", string(req.Action), "reason", errTag(err))
		return nil, err
	}
	im.met.BumpSum("success", 1, "action", string(req.Action))
	return receipt, nil
}

func (im *impl) settle(c ctx.Ctx, req settlement.Request, gate settlement.Gate) (*settlement.Receipt, error) {
	if !req.TxRef.IsValid() {
		return nil, domain.ErrInvalidTxRef
	}
	if req.AccountId.IsEmpty() {
		return nil, domain.ErrUnauthorized
	}
	req.TxRef = req.TxRef.ToLower()

	// fast path, Consume below is what actually guards replays
	if consumed, err := im.guard.IsConsumed(c, req.TxRef); err != nil {
		return nil, err
	} else if consumed {
		return nil, domain.ErrAlreadyConsumed
	}

	payment, err := gate.Prepare(c, req)
	if err != nil {
		return nil, im.replayed(c, req.TxRef, err)
	}

	v, err := im.verifier.Verify(c, req.TxRef, *payment)
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		c.WithFields(log.Fields{
			"reason":        v.Reason,
			"confirmations": v.Confirmations,
		}).Info("payment rejected")
		if v.Reason == settlement.ReasonUnconfirmed {
			return nil, domain.ErrUnconfirmed
		}
		return nil, xerrors.Errorf("%w: %s", domain.ErrPaymentInvalid, v.Reason)
	}

	var outcome *settlement.Outcome
	if err := im.tx.RunWithTransaction(c, func(tc ctx.Ctx) error {
		if _, err := im.guard.Consume(tc, req.TxRef, req.AccountId, req.Action, req.SubjectId); err != nil {
			return err
		}
		o, err := gate.Commit(tc, req)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	}); err != nil {
		if !errors.Is(err, domain.ErrAlreadyConsumed) {
			c.WithField("err", err).Error("failed to commit settlement")
		}
		return nil, im.replayed(c, req.TxRef, err)
	}

	receipt := &settlement.Receipt{
		Action:    req.Action,
		TxRef:     req.TxRef,
		SubjectId: req.SubjectId,
		SettledAt: im.clock(),
	}
	if outcome != nil {
		receipt.ItemIds = outcome.ItemIds
		if len(outcome.Facts) > 0 && im.sink != nil {
			im.sink.Notify(ctx.Detach(c), outcome.Facts...)
		}
	}
	return receipt, nil
}

// replayed turns a rejection into ErrAlreadyConsumed when a concurrent
// settlement spent txRef first, so every loser of a same-reference race
// sees the same error whichever step it lost at.
func (im *impl) replayed(c ctx.Ctx, txRef domain.TxHash, err error) error {
	if errors.Is(err, domain.ErrAlreadyConsumed) {
		return err
	}
	consumed, cerr := im.guard.IsConsumed(c, txRef)
	if cerr != nil {
		c.WithField("err", cerr).Warn("failed to recheck tx reference")
		return err
	}
	if consumed {
		return domain.ErrAlreadyConsumed
	}
	return err
}

var errTags = []struct {
	err error
	tag string
}{
	{domain.ErrAlreadyConsumed, "already_consumed"},
	{domain.ErrAlreadyClaimed, "already_claimed"},
	{domain.ErrPaymentInvalid, "payment_invalid"},
	{domain.ErrUnconfirmed, "unconfirmed"},
	{domain.ErrLedgerUnavailable, "ledger_unavailable"},
	{domain.ErrConcurrentUpdate, "concurrent_update"},
	{domain.ErrInvalidTxRef, "bad_param"},
	{domain.ErrBadParamInput, "bad_param"},
	{domain.ErrNotFound, "not_found"},
}

func errTag(err error) string {
	for _, t := range errTags {
		if errors.Is(err, t.err) {
			return t.tag
		}
	}
	return "rejected"
}
