package usecase

import (
	"errors"
	"math/big"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
)

const DefaultMinConfirmations = 10

type VerifierCfg struct {
	Ledger settlement.Ledger
	// Token is the ERC-20 contract payments are made in
	Token            domain.Address
	MinConfirmations uint64
	Metrics          metrics.Service
}

type verifierImpl struct {
	ledger           settlement.Ledger
	token            domain.Address
	minConfirmations uint64
	met              metrics.Service
}

func NewVerifier(cfg *VerifierCfg) settlement.Verifier {
	min := cfg.MinConfirmations
	if min == 0 {
		min = DefaultMinConfirmations
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.Nop()
	}
	return &verifierImpl{
		ledger:           cfg.Ledger,
		token:            cfg.Token.ToLower(),
		minConfirmations: min,
		met:              met,
	}
}

func (im *verifierImpl) VerifyExactTransfer(c ctx.Ctx, txRef domain.TxHash, from, to domain.Address, amount *big.Int) (*settlement.Verification, error) {
	return im.Verify(c, txRef, settlement.Payment{From: from, To: to, Amount: amount, Mode: settlement.VerifyModeExact})
}

func (im *verifierImpl) VerifyApproximateTransfer(c ctx.Ctx, txRef domain.TxHash, from, to domain.Address, amount *big.Int) (*settlement.Verification, error) {
	return im.Verify(c, txRef, settlement.Payment{From: from, To: to, Amount: amount, Mode: settlement.VerifyModeTolerant})
}

func (im *verifierImpl) Verify(c ctx.Ctx, txRef domain.TxHash, p settlement.Payment) (*settlement.Verification, error) {
	defer im.met.BumpTime("verify.time", "mode", string(p.Mode)).End()

	c = ctx.WithValues(c, map[string]interface{}{
		"txRef": txRef,
		"mode":  p.Mode,
	})

	tx, err := im.ledger.GetTransaction(c, txRef)
	if errors.Is(err, settlement.ErrTxNotFound) {
		return reject(settlement.ReasonNotFound, 0), nil
	} else if err != nil {
		c.WithField("err", err).Error("failed to ledger.GetTransaction")
		return nil, domain.ErrLedgerUnavailable
	}

	if !tx.Succeeded {
		return reject(settlement.ReasonTransactionFailed, 0), nil
	}

	height, err := im.ledger.CurrentHeight(c)
	if err != nil {
		c.WithField("err", err).Error("failed to ledger.CurrentHeight")
		return nil, domain.ErrLedgerUnavailable
	}
	confirmations := uint64(0)
	if height > tx.BlockNumber {
		confirmations = height - tx.BlockNumber
	}
	if confirmations < im.minConfirmations {
		return reject(settlement.ReasonUnconfirmed, confirmations), nil
	}

	matched := false
	for i := range tx.Transfers {
		t := tx.Transfers[i]
		if !t.Token.Equals(im.token) || !t.From.Equals(p.From) || !t.To.Equals(p.To) {
			continue
		}
		matched = true
		if amountAccepted(t.Amount, p.Amount, p.Mode) {
			return &settlement.Verification{
				Valid:         true,
				Transfer:      &t,
				Confirmations: confirmations,
			}, nil
		}
	}
	if !matched {
		return reject(settlement.ReasonNoMatchingTransfer, confirmations), nil
	}
	return reject(settlement.ReasonAmountMismatch, confirmations), nil
}

// amountAccepted applies the declared mode. Tolerant accepts a deviation of
// expected/100 (integer division) either way.
func amountAccepted(got, expected *big.Int, mode settlement.VerifyMode) bool {
	if got == nil || expected == nil {
		return false
	}
	if got.Cmp(expected) == 0 {
		return true
	}
	if mode != settlement.VerifyModeTolerant {
		return false
	}
	diff := new(big.Int).Sub(got, expected)
	diff.Abs(diff)
	tolerance := new(big.Int).Quo(expected, domain.Big100)
	return diff.Cmp(tolerance) <= 0
}

func reject(reason settlement.Reason, confirmations uint64) *settlement.Verification {
	return &settlement.Verification{Reason: reason, Confirmations: confirmations}
}
