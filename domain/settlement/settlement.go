package settlement

import (
	"errors"
	"math/big"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
)

// Action is a payment-gated operation. All actions share one replay namespace.
type Action string

const (
	ActionListingBuy      Action = "listing_buy"
	ActionAuctionBuyNow   Action = "auction_buy_now"
	ActionAuctionFinalize Action = "auction_finalize"
	ActionEntryClaim      Action = "entry_claim"
)

// VerifyMode is declared by the caller, never inferred
type VerifyMode string

const (
	// VerifyModeExact requires bit-exact sender, recipient and amount
	VerifyModeExact VerifyMode = "exact"
	// VerifyModeTolerant accepts amounts within 1% of the expected one
	VerifyModeTolerant VerifyMode = "tolerant"
)

type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNotFound           Reason = "not_found"
	ReasonTransactionFailed  Reason = "transaction_failed"
	ReasonUnconfirmed        Reason = "unconfirmed"
	ReasonNoMatchingTransfer Reason = "no_matching_transfer"
	ReasonAmountMismatch     Reason = "amount_mismatch"
)

// ErrTxNotFound is returned by Ledger when the ledger has no such transaction
var ErrTxNotFound = errors.New("ledger transaction not found")

// Payment is what a settlement expects to find on the ledger
type Payment struct {
	From   domain.Address
	To     domain.Address
	Amount *big.Int
	Mode   VerifyMode
}

// Transfer is one token transfer event
type Transfer struct {
	Token    domain.Address
	From     domain.Address
	To       domain.Address
	Amount   *big.Int
	LogIndex uint
}

// LedgerTx is a ledger transaction reduced to what verification needs
type LedgerTx struct {
	TxRef       domain.TxHash
	Succeeded   bool
	BlockNumber uint64
	Transfers   []Transfer
}

type Verification struct {
	Valid         bool
	Reason        Reason
	Transfer      *Transfer
	Confirmations uint64
}

type Ledger interface {
	// GetTransaction returns ErrTxNotFound for unknown references
	GetTransaction(ctx ctx.Ctx, txRef domain.TxHash) (*LedgerTx, error)
	CurrentHeight(ctx ctx.Ctx) (uint64, error)
}

// Verifier confirms payments against the ledger. It never mutates anything.
// Rejections come back as a Verification with Valid=false; an error means the
// ledger could not be asked.
type Verifier interface {
	VerifyExactTransfer(ctx ctx.Ctx, txRef domain.TxHash, from, to domain.Address, amount *big.Int) (*Verification, error)
	VerifyApproximateTransfer(ctx ctx.Ctx, txRef domain.TxHash, from, to domain.Address, amount *big.Int) (*Verification, error)
	Verify(ctx ctx.Ctx, txRef domain.TxHash, payment Payment) (*Verification, error)
}

// TxRecord marks a transaction reference as spent
type TxRecord struct {
	TxRef             domain.TxHash    `json:"txRef" bson:"_id"`
	ConsumedById      domain.AccountId `json:"consumedById" bson:"consumedById"`
	ConsumedForAction Action           `json:"consumedForAction" bson:"consumedForAction"`
	SubjectId         string           `json:"subjectId" bson:"subjectId"`
	ConsumedAt        time.Time        `json:"consumedAt" bson:"consumedAt"`
}

type TxRecordRepo interface {
	// Insert returns domain.ErrAlreadyConsumed when the reference exists
	Insert(ctx ctx.Ctx, record *TxRecord) error
	FindOne(ctx ctx.Ctx, txRef domain.TxHash) (*TxRecord, error)
}

type ReplayGuard interface {
	IsConsumed(ctx ctx.Ctx, txRef domain.TxHash) (bool, error)
	// Consume fails with domain.ErrAlreadyConsumed if txRef was consumed before
	Consume(ctx ctx.Ctx, txRef domain.TxHash, accountId domain.AccountId, action Action, subjectId string) (*TxRecord, error)
}

type Request struct {
	Action    Action
	AccountId domain.AccountId
	TxRef     domain.TxHash
	SubjectId string
}

type Outcome struct {
	ItemIds []string
	Facts   []notification.Fact
}

// Gate plugs a state machine into the orchestrator.
//
// Prepare runs the domain checks against the current entity and names the
// payment that unlocks the transition. Commit runs inside the store
// transaction right after the transaction reference was consumed; it must
// re-check the entity and apply the transition, or fail and roll back.
type Gate interface {
	Prepare(ctx ctx.Ctx, req Request) (*Payment, error)
	Commit(ctx ctx.Ctx, req Request) (*Outcome, error)
}

type GateFuncs struct {
	PrepareFunc func(ctx.Ctx, Request) (*Payment, error)
	CommitFunc  func(ctx.Ctx, Request) (*Outcome, error)
}

func (g GateFuncs) Prepare(c ctx.Ctx, req Request) (*Payment, error) {
	return g.PrepareFunc(c, req)
}

func (g GateFuncs) Commit(c ctx.Ctx, req Request) (*Outcome, error) {
	return g.CommitFunc(c, req)
}

type Receipt struct {
	Action    Action        `json:"action"`
	TxRef     domain.TxHash `json:"txRef"`
	SubjectId string        `json:"subjectId"`
	ItemIds   []string      `json:"itemIds"`
	SettledAt time.Time     `json:"settledAt"`
}

type Orchestrator interface {
	Settle(ctx ctx.Ctx, req Request, gate Gate) (*Receipt, error)
}
