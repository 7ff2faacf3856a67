package item

import (
	"fmt"
	"strings"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
)

type LockKind string

const (
	LockKindListing LockKind = "listing"
	LockKindAuction LockKind = "auction"
)

// Lock names the listing or auction an item is currently committed to
type Lock string

func NewLock(kind LockKind, id string) Lock {
	return Lock(fmt.Sprintf("%s:%s", kind, id))
}

func (l Lock) Kind() LockKind {
	return LockKind(strings.SplitN(string(l), ":", 2)[0])
}

type Item struct {
	Id         string           `json:"id" bson:"_id"`
	OwnerId    domain.AccountId `json:"ownerId" bson:"ownerId"`
	ItemType   string           `json:"itemType" bson:"itemType"`
	AcquiredAt time.Time        `json:"acquiredAt" bson:"acquiredAt"`
	HoldUntil  *time.Time       `json:"holdUntil,omitempty" bson:"holdUntil,omitempty"`
	LockedBy   Lock             `json:"lockedBy,omitempty" bson:"lockedBy"`
	Version    int64            `json:"-" bson:"version"`
}

func (i *Item) OnHold(now time.Time) bool {
	return i.HoldUntil != nil && now.Before(*i.HoldUntil)
}

// Lock commits the item to a listing or auction of its owner
func (i *Item) Lock(owner domain.AccountId, lock Lock, now time.Time) error {
	if i.OwnerId != owner {
		return domain.ErrNotOwner
	}
	if i.LockedBy != "" {
		return domain.ErrAlreadyListed
	}
	if i.OnHold(now) {
		return domain.ErrItemOnHold
	}
	i.LockedBy = lock
	return nil
}

// Release drops the lock if it is held by `lock`
func (i *Item) Release(lock Lock) error {
	if i.LockedBy != lock {
		return fmt.Errorf("%w: item %s locked by %q", domain.ErrConcurrentUpdate, i.Id, i.LockedBy)
	}
	i.LockedBy = ""
	return nil
}

// TransferTo moves ownership as the effect of a settlement holding `lock`
func (i *Item) TransferTo(newOwner domain.AccountId, lock Lock, now time.Time) error {
	if err := i.Release(lock); err != nil {
		return err
	}
	i.OwnerId = newOwner
	i.AcquiredAt = now
	i.HoldUntil = nil
	return nil
}

type FindAllOptions struct {
	OwnerId *domain.AccountId
	Offset  *int32
	Limit   *int32
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

func WithOwner(owner domain.AccountId) FindAllOptionsFunc {
	return func(opts *FindAllOptions) error {
		opts.OwnerId = &owner
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

type Repo interface {
	FindOne(ctx ctx.Ctx, id string) (*Item, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Item, error)
	Insert(ctx ctx.Ctx, item *Item) error
	// Save writes item back if nobody else did since it was read, and bumps its version
	Save(ctx ctx.Ctx, item *Item) error
}
