package pricing

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketcore/base/ctx"
)

var ErrInvalidPrice = errors.New("invalid token price")

// Source quotes the USD price of one whole token
type Source interface {
	UsdPrice(ctx ctx.Ctx) (decimal.Decimal, error)
}

type Oracle interface {
	Price(ctx ctx.Ctx) (decimal.Decimal, error)
	// UsdToToken converts a USD amount into token base units, truncated
	UsdToToken(ctx ctx.Ctx, usd decimal.Decimal) (*big.Int, error)
}
