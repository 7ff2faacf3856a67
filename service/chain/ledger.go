package chain

import (
	"errors"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/marketcore/base/abi"
	bCtx "github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
)

type ledger struct {
	client domain.EthClientRepo
}

// NewLedger reads settlement transactions from an evm chain. Only ERC-20
// Transfer logs are reported; ERC-721 transfers share the event signature
// and are skipped.
func NewLedger(client domain.EthClientRepo) settlement.Ledger {
	return &ledger{client: client}
}

func (l *ledger) GetTransaction(ctx bCtx.Ctx, txRef domain.TxHash) (*settlement.LedgerTx, error) {
	receipt, err := l.client.TransactionReceipt(ctx, common.HexToHash(string(txRef)))
	if errors.Is(err, goethereum.NotFound) {
		return nil, settlement.ErrTxNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"txRef": txRef,
		}).Error("client.TransactionReceipt failed")
		return nil, err
	}

	tx := &settlement.LedgerTx{
		TxRef:     txRef.ToLower(),
		Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
	}
	if receipt.BlockNumber != nil {
		tx.BlockNumber = receipt.BlockNumber.Uint64()
	}
	for _, lg := range receipt.Logs {
		if !abi.IsErc20TransferLog(lg) {
			continue
		}
		transfer, err := abi.ToErc20TransferLog(lg)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":      err,
				"txRef":    txRef,
				"logIndex": lg.Index,
			}).Warn("failed to decode transfer log")
			continue
		}
		tx.Transfers = append(tx.Transfers, settlement.Transfer{
			Token:    domain.Address(lg.Address.Hex()).ToLower(),
			From:     domain.Address(transfer.From.Hex()).ToLower(),
			To:       domain.Address(transfer.To.Hex()).ToLower(),
			Amount:   transfer.Value,
			LogIndex: lg.Index,
		})
	}
	return tx, nil
}

func (l *ledger) CurrentHeight(ctx bCtx.Ctx) (uint64, error) {
	height, err := l.client.BlockNumber(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("client.BlockNumber failed")
		return 0, err
	}
	return height, nil
}
