package chain

import (
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/ethereum"
	"github.com/x-xyz/marketcore/base/log"
)

type ClientCfg struct {
	RpcUrl string
	// Concurrency caps in-flight rpc calls
	Concurrency int
}

// Dial connects to the node and wraps it with a ThrottledClient
func Dial(ctx bCtx.Ctx, cfg *ClientCfg) (*ethereum.ThrottledClient, error) {
	client, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": cfg.RpcUrl,
		}).Error("failed to dial rpc")
		return nil, err
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return ethereum.NewThrottledClient(client, concurrency), nil
}
