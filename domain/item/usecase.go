package item

import (
	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
)

type Usecase interface {
	Get(ctx ctx.Ctx, id string) (*Item, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Item, error)
	// Grant creates new items owned by `owner`. A positive hold keeps them
	// out of listings and auctions until it passes.
	Grant(ctx ctx.Ctx, owner domain.AccountId, itemTypes []string, hold bool) ([]*Item, error)
}
