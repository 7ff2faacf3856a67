package account

import (
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
)

// Account is user's account stored in database
type Account struct {
	Id            domain.AccountId `json:"id" bson:"_id"`
	PayoutAddress domain.Address   `json:"payoutAddress" bson:"payoutAddress"`
	CreatedAt     time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// HasPayout tells whether the account linked a wallet to send and receive payments
func (a *Account) HasPayout() bool {
	return !a.PayoutAddress.IsEmpty()
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id domain.AccountId) (*Account, error)
	// LinkPayout creates the account when missing and sets its payout address
	LinkPayout(ctx ctx.Ctx, id domain.AccountId, address domain.Address) (*Account, error)
}

type Usecase interface {
	Get(ctx ctx.Ctx, id domain.AccountId) (*Account, error)
	LinkPayout(ctx ctx.Ctx, id domain.AccountId, address domain.Address) (*Account, error)
	// PayoutAddress returns the linked wallet or domain.ErrMissingPayout
	PayoutAddress(ctx ctx.Ctx, id domain.AccountId) (domain.Address, error)
}
