package auction

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketcore/domain"
)

var (
	seller = domain.AccountId("seller")
	alice  = domain.AccountId("alice")
	bob    = domain.AccountId("bob")
	carol  = domain.AccountId("carol")

	t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

type testsuite struct {
	suite.Suite
	policy Policy
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) SetupTest() {
	ts.policy = DefaultPolicy()
}

func (ts *testsuite) newAuction(reserve, buyNow string, duration time.Duration) *Auction {
	a, err := New("a1", seller, "item-1", domain.Amount(reserve), domain.Amount(buyNow), duration, t0, ts.policy)
	ts.Require().NoError(err)
	return a
}

func (ts *testsuite) TestNew() {
	a := ts.newAuction("100", "500", 0)
	ts.Equal(t0.Add(48*time.Hour), a.EndsAt)
	ts.Equal(StatusActive, a.Status)
	ts.False(a.AntiSnipeUsed)

	_, err := New("a2", seller, "item-1", "100", "", 30*time.Minute, t0, ts.policy)
	ts.ErrorIs(err, ErrInvalidDuration)

	_, err = New("a2", seller, "item-1", "100", "", 169*time.Hour, t0, ts.policy)
	ts.ErrorIs(err, ErrInvalidDuration)

	_, err = New("a2", seller, "item-1", "100", "99", time.Hour, t0, ts.policy)
	ts.ErrorIs(err, domain.ErrInvalidAmount)

	_, err = New("a2", seller, "item-1", "0", "", time.Hour, t0, ts.policy)
	ts.ErrorIs(err, domain.ErrInvalidAmount)

	_, err = New("a2", seller, "item-1", "1e3", "", time.Hour, t0, ts.policy)
	ts.ErrorIs(err, domain.ErrInvalidAmount)
}

func (ts *testsuite) TestPolicyDuration() {
	d, err := ts.policy.Duration(0)
	ts.Require().NoError(err)
	ts.Equal(48*time.Hour, d)

	d, err = ts.policy.Duration(168 * 60 * 60)
	ts.Require().NoError(err)
	ts.Equal(168*time.Hour, d)

	// these would wrap around when scaled to nanoseconds
	for _, seconds := range []int64{math.MaxInt64, math.MaxInt64 / 1000, -1} {
		_, err = ts.policy.Duration(seconds)
		ts.ErrorIs(err, ErrInvalidDuration, seconds)
	}
}

// reserve 100, buy now 500, 3 minute window and extension
func (ts *testsuite) TestExampleScenario() {
	a := ts.newAuction("100", "500", time.Hour)
	end := a.EndsAt

	out, err := a.PlaceBid(alice, big.NewInt(100), end.Add(-10*time.Minute), ts.policy)
	ts.NoError(err)
	ts.False(out.AntiSnipeTriggered)
	ts.Equal(end, a.EndsAt)

	out, err = a.PlaceBid(bob, big.NewInt(103), end.Add(-2*time.Minute), ts.policy)
	ts.NoError(err)
	ts.True(out.AntiSnipeTriggered)
	ts.Equal(alice, out.PreviousBidderId)
	ts.Equal(end.Add(3*time.Minute), a.EndsAt)
	ts.True(a.AntiSnipeUsed)

	newEnd := a.EndsAt
	out, err = a.PlaceBid(alice, big.NewInt(106), newEnd.Add(-2*time.Minute), ts.policy)
	ts.NoError(err)
	ts.False(out.AntiSnipeTriggered)
	ts.Equal(newEnd, a.EndsAt)

	_, err = a.PlaceBid(carol, big.NewInt(500), newEnd.Add(-time.Minute), ts.policy)
	ts.ErrorIs(err, domain.ErrUseBuyNowFlow)
	ts.Equal(domain.Amount("106"), a.TopBidAmount)
	ts.Equal(alice, a.TopBidderId)

	ts.NoError(a.CompleteBuyNow(carol, newEnd.Add(-time.Minute)))
	ts.Equal(StatusFinalized, a.Status)
	ts.Equal(carol, a.WinnerId)
	ts.ErrorIs(a.CompleteBuyNow(bob, newEnd.Add(-time.Minute)), domain.ErrNotActive)
}

func (ts *testsuite) TestPlaceBidRules() {
	policy := ts.policy
	tests := []struct {
		name    string
		prepare func(a *Auction)
		bidder  domain.AccountId
		amount  int64
		at      time.Duration
		wantErr error
	}{
		{name: "first bid below reserve", bidder: alice, amount: 99, wantErr: domain.ErrBelowMinimum},
		{name: "first bid at reserve", bidder: alice, amount: 100},
		{name: "seller bids", bidder: seller, amount: 200, wantErr: domain.ErrSelfBid},
		{name: "bid after end", bidder: alice, amount: 200, at: time.Hour + time.Second, wantErr: domain.ErrNotActive},
		{name: "bid exactly at end", bidder: alice, amount: 200, at: time.Hour},
		{
			name:    "finalized auction",
			prepare: func(a *Auction) { a.Status = StatusFinalized },
			bidder:  alice, amount: 200, wantErr: domain.ErrNotActive,
		},
		{
			name:    "increment floor applies to small tops",
			prepare: func(a *Auction) { a.ReserveAmount = "10"; a.TopBidAmount = "10"; a.TopBidderId = bob },
			bidder:  alice, amount: 10, wantErr: domain.ErrBelowMinimum,
		},
		{
			name:    "increment rounds up",
			prepare: func(a *Auction) { a.TopBidAmount = "103"; a.TopBidderId = bob },
			bidder:  alice, amount: 105, wantErr: domain.ErrBelowMinimum,
		},
		{
			name:    "self outbid is allowed",
			prepare: func(a *Auction) { a.TopBidAmount = "100"; a.TopBidderId = alice },
			bidder:  alice, amount: 102,
		},
		{name: "bid at buy now", bidder: alice, amount: 500, wantErr: domain.ErrUseBuyNowFlow},
		{name: "bid above buy now", bidder: alice, amount: 900, wantErr: domain.ErrUseBuyNowFlow},
	}

	for _, tt := range tests {
		ts.Run(tt.name, func() {
			req := require.New(ts.T())
			a := ts.newAuction("100", "500", time.Hour)
			if tt.prepare != nil {
				tt.prepare(a)
			}
			before := *a
			_, err := a.PlaceBid(tt.bidder, big.NewInt(tt.amount), t0.Add(tt.at), policy)
			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
				req.Equal(before, *a)
				return
			}
			req.NoError(err)
			req.Equal(domain.Amount(big.NewInt(tt.amount).String()), a.TopBidAmount)
			req.Equal(tt.bidder, a.TopBidderId)
		})
	}
}

func (ts *testsuite) TestMinIncrement() {
	tests := []struct {
		top  int64
		want int64
	}{
		{top: 1, want: 1},
		{top: 49, want: 1},
		{top: 50, want: 1},
		{top: 51, want: 2},
		{top: 100, want: 2},
		{top: 103, want: 3},
		{top: 1000, want: 20},
	}
	for _, tt := range tests {
		ts.Equal(big.NewInt(tt.want).String(), MinIncrement(big.NewInt(tt.top), ts.policy).String(), "top %d", tt.top)
	}

	floor := ts.policy
	floor.MinIncrementFloor = big.NewInt(1_000_000)
	ts.Equal("1000000", MinIncrement(big.NewInt(100), floor).String())
}

// random bid streams never break monotonicity, the increment rule or the single extension
func (ts *testsuite) TestBidStreamProperties() {
	rnd := rand.New(rand.NewSource(42))
	bidders := []domain.AccountId{alice, bob, carol, seller}

	for round := 0; round < 200; round++ {
		a := ts.newAuction("100", "", time.Hour)
		originalEnd := a.EndsAt
		extensions := 0
		var prevTop *big.Int
		now := t0

		for i := 0; i < 40; i++ {
			now = now.Add(time.Duration(rnd.Int63n(int64(4 * time.Minute))))
			bidder := bidders[rnd.Intn(len(bidders))]
			base := int64(100)
			if prevTop != nil {
				base = prevTop.Int64()
			}
			amount := big.NewInt(base + rnd.Int63n(base/10+3) - 1)
			endBefore := a.EndsAt

			out, err := a.PlaceBid(bidder, amount, now, ts.policy)
			if err != nil {
				continue
			}
			if prevTop != nil {
				inc := new(big.Int).Mul(prevTop, big.NewInt(2))
				// amount*100 >= prev*100 + max(2*prev, 100)
				lhs := new(big.Int).Mul(amount, domain.Big100)
				rhs := new(big.Int).Mul(prevTop, domain.Big100)
				if inc.Cmp(domain.Big100) < 0 {
					inc = big.NewInt(100)
				}
				rhs.Add(rhs, inc)
				ts.True(lhs.Cmp(rhs) >= 0, "increment violated: prev %s amount %s", prevTop, amount)
				ts.True(amount.Cmp(prevTop) > 0)
			}
			if out.AntiSnipeTriggered {
				extensions++
				ts.True(endBefore.Sub(now) <= ts.policy.AntiSnipeWindow)
				ts.Equal(endBefore.Add(ts.policy.AntiSnipeExtension), a.EndsAt)
			} else {
				ts.Equal(endBefore, a.EndsAt)
			}
			ts.NotEqual(seller, a.TopBidderId)
			prevTop = amount
		}
		ts.LessOrEqual(extensions, 1)
		ts.True(a.EndsAt.Equal(originalEnd) || a.EndsAt.Equal(originalEnd.Add(ts.policy.AntiSnipeExtension)))
	}
}

func (ts *testsuite) TestStatusAt() {
	a := ts.newAuction("100", "", time.Hour)
	ts.Equal(StatusActive, a.StatusAt(t0))
	ts.Equal(StatusActive, a.StatusAt(a.EndsAt))
	ts.Equal(StatusAbandoned, a.StatusAt(a.EndsAt.Add(time.Second)))

	_, err := a.PlaceBid(alice, big.NewInt(100), t0, ts.policy)
	ts.NoError(err)
	ts.Equal(StatusAwaitingPayment, a.StatusAt(a.EndsAt.Add(time.Second)))

	ts.NoError(a.CompleteFinalize(alice, a.EndsAt.Add(time.Second)))
	ts.Equal(StatusFinalized, a.StatusAt(a.EndsAt.Add(time.Hour)))
}

func (ts *testsuite) TestFinalize() {
	a := ts.newAuction("100", "", time.Hour)
	_, err := a.PlaceBid(alice, big.NewInt(150), t0, ts.policy)
	ts.NoError(err)

	after := a.EndsAt.Add(time.Second)
	ts.ErrorIs(a.CheckFinalize(alice, a.EndsAt), domain.ErrNotEnded)
	ts.ErrorIs(a.CheckFinalize(bob, after), domain.ErrNotWinner)
	ts.ErrorIs(a.CheckFinalize(seller, after), domain.ErrSelfTrade)
	ts.NoError(a.CompleteFinalize(alice, after))
	ts.Equal(alice, a.WinnerId)
	ts.ErrorIs(a.CheckFinalize(alice, after), domain.ErrNotActive)

	amount, err := a.SettlementAmount(BuyPathFinalize)
	ts.NoError(err)
	ts.Equal("150", amount.String())
}

func (ts *testsuite) TestAbandoned() {
	a := ts.newAuction("100", "", time.Hour)
	after := a.EndsAt.Add(time.Second)

	ts.ErrorIs(a.CheckFinalize(alice, after), domain.ErrNotWinner)
	ts.ErrorIs(a.Reclaim(a.EndsAt), domain.ErrNotEnded)
	ts.NoError(a.Reclaim(after))
	ts.Equal(StatusFinalized, a.Status)
	ts.True(a.WinnerId.IsEmpty())
	ts.ErrorIs(a.Reclaim(after), domain.ErrNotActive)

	b := ts.newAuction("100", "", time.Hour)
	_, err := b.PlaceBid(alice, big.NewInt(100), t0, ts.policy)
	ts.NoError(err)
	ts.ErrorIs(b.Reclaim(after), domain.ErrHasBids)
}

func (ts *testsuite) TestBuyNowChecks() {
	noBuyNow := ts.newAuction("100", "", time.Hour)
	ts.ErrorIs(noBuyNow.CheckBuyNow(alice, t0), ErrNoBuyNow)

	a := ts.newAuction("100", "500", time.Hour)
	ts.ErrorIs(a.CheckBuyNow(seller, t0), domain.ErrSelfTrade)
	ts.ErrorIs(a.CheckBuyNow(alice, a.EndsAt.Add(time.Second)), domain.ErrNotActive)
	ts.NoError(a.CheckBuyNow(alice, a.EndsAt))
}

func (ts *testsuite) TestView() {
	a := ts.newAuction("100", "", time.Hour)
	v := NewView(a, t0, ts.policy)
	ts.Equal(StatusActive, v.Status)
	ts.Equal(domain.Amount("100"), v.MinimumBid)

	v = NewView(a, a.EndsAt.Add(time.Minute), ts.policy)
	ts.Equal(StatusAbandoned, v.Status)
	ts.True(v.MinimumBid.IsEmpty())
}
