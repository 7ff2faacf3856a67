package auction

import (
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
)

type FindAllOptions struct {
	Status     *Status
	SellerId   *domain.AccountId
	ItemId     *string
	EndsBefore *time.Time
	After      *Cursor
	HasBid     *bool
	Offset     *int32
	Limit      *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// WithStatus filters by stored status, so only active and finalized are meaningful
func WithStatus(status Status) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		if status != StatusActive && status != StatusFinalized {
			return domain.ErrBadParamInput
		}
		opts.Status = &status
		return nil
	}
}

func WithSeller(seller domain.AccountId) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.SellerId = &seller
		return nil
	}
}

func WithItem(itemId string) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.ItemId = &itemId
		return nil
	}
}

func WithEndsBefore(t time.Time) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.EndsBefore = &t
		return nil
	}
}

// Cursor is a position in the (endsAt, id) order
type Cursor struct {
	EndsAt time.Time
	Id     string
}

// WithAfter keeps auctions strictly after c in the (endsAt, id) order
func WithAfter(c Cursor) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.After = &c
		return nil
	}
}

func WithHasBid(hasBid bool) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.HasBid = &hasBid
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.Offset = &offset
		opts.Limit = &limit
		return nil
	}
}

type SearchResult struct {
	Items []*View `json:"items"`
	Count int     `json:"count"`
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id string) (*Auction, error)
	// FindAll orders by (endsAt, id)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	// Count ignores pagination
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	Insert(ctx ctx.Ctx, auction *Auction) error
	// Save writes auction back if its version is unchanged in store, then bumps the version
	Save(ctx ctx.Ctx, auction *Auction) error
}

type BidRepo interface {
	Insert(ctx ctx.Ctx, bid *Bid) error
	FindAll(ctx ctx.Ctx, auctionId string) ([]*Bid, error)
}

type Usecase interface {
	Create(ctx ctx.Ctx, seller domain.AccountId, itemId string, reserve domain.Amount, durationSeconds int64, buyNow domain.Amount) (*View, error)
	PlaceBid(ctx ctx.Ctx, auctionId string, bidder domain.AccountId, amount domain.Amount) (*BidResult, error)
	BuyNow(ctx ctx.Ctx, auctionId string, buyer domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error)
	Finalize(ctx ctx.Ctx, auctionId string, winner domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error)
	Reclaim(ctx ctx.Ctx, auctionId string, caller domain.AccountId) (*View, error)
	// ReclaimExpired closes every ended auction without bids and returns how many it closed
	ReclaimExpired(ctx ctx.Ctx) (int, error)
	Get(ctx ctx.Ctx, auctionId string) (*View, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (*SearchResult, error)
	Bids(ctx ctx.Ctx, auctionId string) ([]*Bid, error)
}
