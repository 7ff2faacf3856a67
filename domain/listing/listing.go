package listing

import (
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/settlement"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
)

type Listing struct {
	Id          string           `json:"id" bson:"_id"`
	SellerId    domain.AccountId `json:"sellerId" bson:"sellerId"`
	ItemId      string           `json:"itemId" bson:"itemId"`
	PriceAmount domain.Amount    `json:"priceAmount" bson:"priceAmount"`
	Status      Status           `json:"status" bson:"status"`
	BuyerId     domain.AccountId `json:"buyerId,omitempty" bson:"buyerId,omitempty"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
	ClosedAt    *time.Time       `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
	Version     int64            `json:"-" bson:"version"`
}

func (l *Listing) Lock() item.Lock {
	return item.NewLock(item.LockKindListing, l.Id)
}

// CheckBuy validates that buyer may purchase the listing right now
func (l *Listing) CheckBuy(buyer domain.AccountId) error {
	if l.Status != StatusActive {
		return domain.ErrNotActive
	}
	if buyer == l.SellerId {
		return domain.ErrSelfTrade
	}
	return nil
}

func (l *Listing) MarkSold(buyer domain.AccountId, now time.Time) error {
	if err := l.CheckBuy(buyer); err != nil {
		return err
	}
	l.Status = StatusSold
	l.BuyerId = buyer
	l.ClosedAt = &now
	return nil
}

func (l *Listing) Cancel(caller domain.AccountId, now time.Time) error {
	if caller != l.SellerId {
		return domain.ErrNotOwner
	}
	if l.Status != StatusActive {
		return domain.ErrNotActive
	}
	l.Status = StatusCancelled
	l.ClosedAt = &now
	return nil
}

type FindAllOptions struct {
	Status   *Status
	SellerId *domain.AccountId
	ItemId   *string
	Offset   *int32
	Limit    *int32
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

func WithStatus(status Status) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
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

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.Offset = &offset
		opts.Limit = &limit
		return nil
	}
}

type SearchResult struct {
	Items []*Listing `json:"items"`
	Count int        `json:"count"`
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id string) (*Listing, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	// Count ignores pagination
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	Insert(ctx ctx.Ctx, listing *Listing) error
	Save(ctx ctx.Ctx, listing *Listing) error
}

type Usecase interface {
	Create(ctx ctx.Ctx, seller domain.AccountId, itemId string, price domain.Amount) (*Listing, error)
	Buy(ctx ctx.Ctx, listingId string, buyer domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error)
	Cancel(ctx ctx.Ctx, listingId string, seller domain.AccountId) (*Listing, error)
	Get(ctx ctx.Ctx, listingId string) (*Listing, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (*SearchResult, error)
}
