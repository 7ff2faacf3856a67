package entry

import (
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
)

// Claim records that an account bought its starter pack
type Claim struct {
	AccountId domain.AccountId `json:"accountId" bson:"_id"`
	TxRef     domain.TxHash    `json:"txRef" bson:"txRef"`
	Amount    domain.Amount    `json:"amount" bson:"amount"`
	ItemIds   []string         `json:"itemIds" bson:"itemIds"`
	ClaimedAt time.Time        `json:"claimedAt" bson:"claimedAt"`
}

type Quote struct {
	UsdAmount   string         `json:"usdAmount"`
	TokenAmount domain.Amount  `json:"tokenAmount"`
	Treasury    domain.Address `json:"treasury"`
	PackSize    int            `json:"packSize"`
}

type ClaimRepo interface {
	// Insert returns domain.ErrAlreadyClaimed when the account claimed before
	Insert(ctx ctx.Ctx, claim *Claim) error
	FindOne(ctx ctx.Ctx, accountId domain.AccountId) (*Claim, error)
}

type Usecase interface {
	Quote(ctx ctx.Ctx) (*Quote, error)
	Claim(ctx ctx.Ctx, accountId domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error)
	// Status returns the account's claim, or domain.ErrNotFound before it claimed
	Status(ctx ctx.Ctx, accountId domain.AccountId) (*Claim, error)
}
