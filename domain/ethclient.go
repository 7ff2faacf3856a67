package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthClientRepo is the slice of go-ethereum/ethclient that settlement reads
type EthClientRepo interface {
	BlockNumber(context.Context) (uint64, error)
	TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error)
}
