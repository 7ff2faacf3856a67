package auction

import (
	"errors"
	"math/big"
	"time"

	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/item"
)

var (
	ErrNoBuyNow        = errors.New("auction has no buy now price")
	ErrInvalidDuration = errors.New("auction duration out of range")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusFinalized Status = "finalized"

	// computed views, never stored
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusAbandoned       Status = "abandoned"
)

type Policy struct {
	MinDuration     time.Duration
	MaxDuration     time.Duration
	DefaultDuration time.Duration

	AntiSnipeWindow    time.Duration
	AntiSnipeExtension time.Duration

	// next bid must beat the top by max(top*MinIncrementPercent/100, MinIncrementFloor), rounded up
	MinIncrementPercent int64
	MinIncrementFloor   *big.Int
}

func DefaultPolicy() Policy {
	return Policy{
		MinDuration:         time.Hour,
		MaxDuration:         168 * time.Hour,
		DefaultDuration:     48 * time.Hour,
		AntiSnipeWindow:     3 * time.Minute,
		AntiSnipeExtension:  3 * time.Minute,
		MinIncrementPercent: 2,
		MinIncrementFloor:   big.NewInt(1),
	}
}

// Duration converts a requested length in seconds, zero meaning the
// default. Seconds are bounded before scaling so huge values cannot wrap.
func (p Policy) Duration(seconds int64) (time.Duration, error) {
	if seconds == 0 {
		return p.DefaultDuration, nil
	}
	if seconds < 0 || seconds > int64(p.MaxDuration/time.Second) {
		return 0, ErrInvalidDuration
	}
	return time.Duration(seconds) * time.Second, nil
}

type Auction struct {
	Id            string           `json:"id" bson:"_id"`
	SellerId      domain.AccountId `json:"sellerId" bson:"sellerId"`
	ItemId        string           `json:"itemId" bson:"itemId"`
	ReserveAmount domain.Amount    `json:"reserveAmount" bson:"reserveAmount"`
	BuyNowAmount  domain.Amount    `json:"buyNowAmount,omitempty" bson:"buyNowAmount,omitempty"`
	TopBidAmount  domain.Amount    `json:"topBidAmount,omitempty" bson:"topBidAmount,omitempty"`
	TopBidderId   domain.AccountId `json:"topBidderId,omitempty" bson:"topBidderId,omitempty"`
	EndsAt        time.Time        `json:"endsAt" bson:"endsAt"`
	AntiSnipeUsed bool             `json:"antiSnipeUsed" bson:"antiSnipeUsed"`
	Status        Status           `json:"status" bson:"status"`
	WinnerId      domain.AccountId `json:"winnerId,omitempty" bson:"winnerId,omitempty"`
	CreatedAt     time.Time        `json:"createdAt" bson:"createdAt"`
	ClosedAt      *time.Time       `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
	Version       int64            `json:"-" bson:"version"`
}

// New opens an auction. A zero duration picks the policy default.
func New(id string, seller domain.AccountId, itemId string, reserve, buyNow domain.Amount, duration time.Duration, now time.Time, policy Policy) (*Auction, error) {
	if duration == 0 {
		duration = policy.DefaultDuration
	}
	if duration < policy.MinDuration || duration > policy.MaxDuration {
		return nil, ErrInvalidDuration
	}
	r, err := reserve.ToBig()
	if err != nil {
		return nil, err
	}
	if r.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !buyNow.IsEmpty() {
		b, err := buyNow.ToBig()
		if err != nil {
			return nil, err
		}
		if b.Cmp(r) < 0 {
			return nil, domain.ErrInvalidAmount
		}
	}
	return &Auction{
		Id:            id,
		SellerId:      seller,
		ItemId:        itemId,
		ReserveAmount: reserve,
		BuyNowAmount:  buyNow,
		EndsAt:        now.Add(duration),
		Status:        StatusActive,
		CreatedAt:     now,
	}, nil
}

func (a *Auction) Lock() item.Lock {
	return item.NewLock(item.LockKindAuction, a.Id)
}

func (a *Auction) HasBid() bool {
	return !a.TopBidderId.IsEmpty()
}

func (a *Auction) HasBuyNow() bool {
	return !a.BuyNowAmount.IsEmpty()
}

// Expired is true strictly after EndsAt; a bid landing exactly at EndsAt still counts
func (a *Auction) Expired(now time.Time) bool {
	return now.After(a.EndsAt)
}

// StatusAt is the status observed at `now`. Only active and finalized are
// stored; awaiting payment and abandoned follow from EndsAt and the top bid.
func (a *Auction) StatusAt(now time.Time) Status {
	if a.Status == StatusFinalized {
		return StatusFinalized
	}
	if !a.Expired(now) {
		return StatusActive
	}
	if a.HasBid() {
		return StatusAwaitingPayment
	}
	return StatusAbandoned
}

// MinimumBid is the smallest amount the next bid may carry
func (a *Auction) MinimumBid(policy Policy) *big.Int {
	if !a.HasBid() {
		return a.ReserveAmount.MustBig()
	}
	top := a.TopBidAmount.MustBig()
	return new(big.Int).Add(top, MinIncrement(top, policy))
}

// MinIncrement is max(ceil(top*percent/100), floor)
func MinIncrement(top *big.Int, policy Policy) *big.Int {
	inc := new(big.Int).Mul(top, big.NewInt(policy.MinIncrementPercent))
	inc.Add(inc, big.NewInt(99))
	inc.Quo(inc, domain.Big100)
	if policy.MinIncrementFloor != nil && inc.Cmp(policy.MinIncrementFloor) < 0 {
		inc.Set(policy.MinIncrementFloor)
	}
	return inc
}

type BidOutcome struct {
	PreviousBidderId   domain.AccountId
	PreviousAmount     domain.Amount
	AntiSnipeTriggered bool
}

// PlaceBid applies a bid to the auction or explains why it cannot
func (a *Auction) PlaceBid(bidder domain.AccountId, amount *big.Int, now time.Time, policy Policy) (*BidOutcome, error) {
	if a.Status != StatusActive || a.Expired(now) {
		return nil, domain.ErrNotActive
	}
	if bidder == a.SellerId {
		return nil, domain.ErrSelfBid
	}
	if a.HasBuyNow() && amount.Cmp(a.BuyNowAmount.MustBig()) >= 0 {
		return nil, domain.ErrUseBuyNowFlow
	}
	if amount.Cmp(a.MinimumBid(policy)) < 0 {
		return nil, domain.ErrBelowMinimum
	}

	out := &BidOutcome{
		PreviousBidderId: a.TopBidderId,
		PreviousAmount:   a.TopBidAmount,
	}
	a.TopBidAmount = domain.NewAmount(amount)
	a.TopBidderId = bidder

	if !a.AntiSnipeUsed && a.EndsAt.Sub(now) <= policy.AntiSnipeWindow {
		a.EndsAt = a.EndsAt.Add(policy.AntiSnipeExtension)
		a.AntiSnipeUsed = true
		out.AntiSnipeTriggered = true
	}
	return out, nil
}

func (a *Auction) CheckBuyNow(buyer domain.AccountId, now time.Time) error {
	if a.Status != StatusActive || a.Expired(now) {
		return domain.ErrNotActive
	}
	if !a.HasBuyNow() {
		return ErrNoBuyNow
	}
	if buyer == a.SellerId {
		return domain.ErrSelfTrade
	}
	return nil
}

func (a *Auction) CompleteBuyNow(buyer domain.AccountId, now time.Time) error {
	if err := a.CheckBuyNow(buyer, now); err != nil {
		return err
	}
	a.close(buyer, now)
	return nil
}

func (a *Auction) CheckFinalize(winner domain.AccountId, now time.Time) error {
	if a.Status == StatusFinalized {
		return domain.ErrNotActive
	}
	if !a.Expired(now) {
		return domain.ErrNotEnded
	}
	if winner == a.SellerId {
		return domain.ErrSelfTrade
	}
	if !a.HasBid() || winner != a.TopBidderId {
		return domain.ErrNotWinner
	}
	return nil
}

func (a *Auction) CompleteFinalize(winner domain.AccountId, now time.Time) error {
	if err := a.CheckFinalize(winner, now); err != nil {
		return err
	}
	a.close(winner, now)
	return nil
}

// Reclaim closes an auction that ended without bids
func (a *Auction) Reclaim(now time.Time) error {
	if a.Status == StatusFinalized {
		return domain.ErrNotActive
	}
	if !a.Expired(now) {
		return domain.ErrNotEnded
	}
	if a.HasBid() {
		return domain.ErrHasBids
	}
	a.close("", now)
	return nil
}

func (a *Auction) close(winner domain.AccountId, now time.Time) {
	a.Status = StatusFinalized
	a.WinnerId = winner
	a.ClosedAt = &now
}

// SettlementAmount is what the winner pays in a payment-gated close
func (a *Auction) SettlementAmount(action BuyPath) (*big.Int, error) {
	switch action {
	case BuyPathBuyNow:
		if !a.HasBuyNow() {
			return nil, ErrNoBuyNow
		}
		return a.BuyNowAmount.ToBig()
	default:
		if !a.HasBid() {
			return nil, domain.ErrNotWinner
		}
		return a.TopBidAmount.ToBig()
	}
}

type BuyPath int

const (
	BuyPathFinalize BuyPath = iota
	BuyPathBuyNow
)

type Bid struct {
	Id                 string           `json:"id" bson:"_id"`
	AuctionId          string           `json:"auctionId" bson:"auctionId"`
	BidderId           domain.AccountId `json:"bidderId" bson:"bidderId"`
	Amount             domain.Amount    `json:"amount" bson:"amount"`
	AntiSnipeTriggered bool             `json:"antiSnipeTriggered" bson:"antiSnipeTriggered"`
	PlacedAt           time.Time        `json:"placedAt" bson:"placedAt"`
}

// View is an auction as callers see it at a point in time
type View struct {
	*Auction
	Status     Status        `json:"status"`
	MinimumBid domain.Amount `json:"minimumBid,omitempty"`
}

func NewView(a *Auction, now time.Time, policy Policy) *View {
	v := &View{
		Auction: a,
		Status:  a.StatusAt(now),
	}
	if v.Status == StatusActive {
		v.MinimumBid = domain.NewAmount(a.MinimumBid(policy))
	}
	return v
}

type BidResult struct {
	Accepted           bool          `json:"accepted"`
	AntiSnipeTriggered bool          `json:"antiSnipeTriggered"`
	TopBidAmount       domain.Amount `json:"topBidAmount"`
	EndsAt             time.Time     `json:"endsAt"`
}
