package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
	"github.com/x-xyz/marketcore/domain/auction"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/settlement"
)

const defaultReclaimBatch = 100

type Cfg struct {
	Repo         auction.Repo
	BidRepo      auction.BidRepo
	ItemRepo     item.Repo
	Account      account.Usecase
	Orchestrator settlement.Orchestrator
	Transactor   domain.Transactor
	Sink         notification.Sink
	Policy       auction.Policy
	Clock        domain.Clock
	Metrics      metrics.Service
	// ReclaimBatch bounds one ReclaimExpired pass
	ReclaimBatch int
}

type impl struct {
	repo         auction.Repo
	bidRepo      auction.BidRepo
	itemRepo     item.Repo
	account      account.Usecase
	orchestrator settlement.Orchestrator
	tx           domain.Transactor
	sink         notification.Sink
	policy       auction.Policy
	clock        domain.Clock
	met          metrics.Service
	reclaimBatch int

	// reclaimMu guards reclaimAfter, the position the next sweep pass resumes from
	reclaimMu    sync.Mutex
	reclaimAfter *auction.Cursor
}

func New(cfg *Cfg) auction.Usecase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("auction")
	}
	batch := cfg.ReclaimBatch
	if batch <= 0 {
		batch = defaultReclaimBatch
	}
	return &impl{
		repo:         cfg.Repo,
		bidRepo:      cfg.BidRepo,
		itemRepo:     cfg.ItemRepo,
		account:      cfg.Account,
		orchestrator: cfg.Orchestrator,
		tx:           cfg.Transactor,
		sink:         cfg.Sink,
		policy:       cfg.Policy,
		clock:        clock,
		met:          met,
		reclaimBatch: batch,
	}
}

func (im *impl) Create(c ctx.Ctx, seller domain.AccountId, itemId string, reserve domain.Amount, durationSeconds int64, buyNow domain.Amount) (*auction.View, error) {
	if !reserve.IsPositive() {
		return nil, domain.ErrBadParamInput
	}
	if !buyNow.IsEmpty() && !buyNow.IsPositive() {
		return nil, domain.ErrBadParamInput
	}
	if _, err := im.account.PayoutAddress(c, seller); err != nil {
		return nil, err
	}

	duration, err := im.policy.Duration(durationSeconds)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}

	now := im.clock()
	a, err := auction.New(uuid.NewString(), seller, itemId, reserve, buyNow, duration, now, im.policy)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}

	if err := im.tx.RunWithTransaction(c, func(tc ctx.Ctx) error {
		i, err := im.itemRepo.FindOne(tc, itemId)
		if err != nil {
			return err
		}
		if err := i.Lock(seller, a.Lock(), now); err != nil {
			return err
		}
		if err := im.itemRepo.Save(tc, i); err != nil {
			return err
		}
		return im.repo.Insert(tc, a)
	}); err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"seller": seller,
			"itemId": itemId,
		}).Info("failed to create auction")
		return nil, err
	}
	return auction.NewView(a, now, im.policy), nil
}

func (im *impl) PlaceBid(c ctx.Ctx, auctionId string, bidder domain.AccountId, amount domain.Amount) (*auction.BidResult, error) {
	amt, err := amount.ToBig()
	if err != nil {
		return nil, err
	}
	if amt.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	c = ctx.WithValues(c, map[string]interface{}{
		"auctionId": auctionId,
		"bidder":    bidder,
		"amount":    amount,
	})

	now := im.clock()
	var (
		a   *auction.Auction
		out *auction.BidOutcome
	)
	if err := im.tx.RunWithTransaction(c, func(tc ctx.Ctx) error {
		var err error
		if a, err = im.repo.FindOne(tc, auctionId); err != nil {
			return err
		}
		if out, err = a.PlaceBid(bidder, amt, now, im.policy); err != nil {
			return err
		}
		if err := im.repo.Save(tc, a); err != nil {
			return err
		}
		return im.bidRepo.Insert(tc, &auction.Bid{
			Id:                 uuid.NewString(),
			AuctionId:          auctionId,
			BidderId:           bidder,
			Amount:             domain.NewAmount(amt),
			AntiSnipeTriggered: out.AntiSnipeTriggered,
			PlacedAt:           now,
		})
	}); err != nil {
		im.met.BumpSum("bid.rejected", 1)
		c.WithField("err", err).Info("bid rejected")
		return nil, err
	}
	im.met.BumpSum("bid.accepted", 1)

	if !out.PreviousBidderId.IsEmpty() && out.PreviousBidderId != bidder {
		im.notify(c, notification.Fact{
			AccountId: out.PreviousBidderId,
			Kind:      notification.KindOutbid,
			SubjectId: auctionId,
			Payload: map[string]interface{}{
				"previousAmount": out.PreviousAmount,
				"topBidAmount":   a.TopBidAmount,
				"endsAt":         a.EndsAt,
			},
			OccurredAt: now,
		})
	}

	return &auction.BidResult{
		Accepted:           true,
		AntiSnipeTriggered: out.AntiSnipeTriggered,
		TopBidAmount:       a.TopBidAmount,
		EndsAt:             a.EndsAt,
	}, nil
}

func (im *impl) BuyNow(c ctx.Ctx, auctionId string, buyer domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error) {
	return im.orchestrator.Settle(c, settlement.Request{
		Action:    settlement.ActionAuctionBuyNow,
		AccountId: buyer,
		TxRef:     txRef,
		SubjectId: auctionId,
	}, &closeGate{impl: im, path: auction.BuyPathBuyNow})
}

func (im *impl) Finalize(c ctx.Ctx, auctionId string, winner domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error) {
	return im.orchestrator.Settle(c, settlement.Request{
		Action:    settlement.ActionAuctionFinalize,
		AccountId: winner,
		TxRef:     txRef,
		SubjectId: auctionId,
	}, &closeGate{impl: im, path: auction.BuyPathFinalize})
}

// closeGate plugs the two paid ways of closing an auction into the
// settlement orchestrator
type closeGate struct {
	*impl
	path auction.BuyPath
}

func (g *closeGate) check(a *auction.Auction, payer domain.AccountId, now time.Time) error {
	if g.path == auction.BuyPathBuyNow {
		return a.CheckBuyNow(payer, now)
	}
	return a.CheckFinalize(payer, now)
}

func (g *closeGate) Prepare(c ctx.Ctx, req settlement.Request) (*settlement.Payment, error) {
	a, err := g.repo.FindOne(c, req.SubjectId)
	if err != nil {
		return nil, err
	}
	if err := g.check(a, req.AccountId, g.clock()); err != nil {
		return nil, err
	}
	amount, err := a.SettlementAmount(g.path)
	if err != nil {
		return nil, err
	}
	from, err := g.account.PayoutAddress(c, req.AccountId)
	if err != nil {
		return nil, err
	}
	to, err := g.account.PayoutAddress(c, a.SellerId)
	if err != nil {
		return nil, err
	}
	return &settlement.Payment{
		From:   from,
		To:     to,
		Amount: amount,
		Mode:   settlement.VerifyModeExact,
	}, nil
}

func (g *closeGate) Commit(c ctx.Ctx, req settlement.Request) (*settlement.Outcome, error) {
	now := g.clock()
	a, err := g.repo.FindOne(c, req.SubjectId)
	if err != nil {
		return nil, err
	}
	amount, err := a.SettlementAmount(g.path)
	if err != nil {
		return nil, err
	}
	displaced := a.TopBidderId
	if g.path == auction.BuyPathBuyNow {
		err = a.CompleteBuyNow(req.AccountId, now)
	} else {
		err = a.CompleteFinalize(req.AccountId, now)
	}
	if err != nil {
		return nil, err
	}
	if err := g.repo.Save(c, a); err != nil {
		return nil, err
	}

	i, err := g.itemRepo.FindOne(c, a.ItemId)
	if err != nil {
		return nil, err
	}
	if err := i.TransferTo(req.AccountId, a.Lock(), now); err != nil {
		return nil, err
	}
	if err := g.itemRepo.Save(c, i); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"itemId": a.ItemId,
		"amount": domain.NewAmount(amount),
		"txRef":  req.TxRef,
	}
	facts := []notification.Fact{
		{AccountId: a.SellerId, Kind: notification.KindSold, SubjectId: a.Id, Payload: payload, OccurredAt: now},
		{AccountId: req.AccountId, Kind: notification.KindWon, SubjectId: a.Id, Payload: payload, OccurredAt: now},
	}
	if !displaced.IsEmpty() && displaced != req.AccountId {
		facts = append(facts, notification.Fact{AccountId: displaced, Kind: notification.KindLost, SubjectId: a.Id, Payload: payload, OccurredAt: now})
	}
	return &settlement.Outcome{
		ItemIds: []string{a.ItemId},
		Facts:   facts,
	}, nil
}

func (im *impl) Reclaim(c ctx.Ctx, auctionId string, caller domain.AccountId) (*auction.View, error) {
	a, err := im.reclaim(c, auctionId, func(a *auction.Auction) error {
		if a.SellerId != caller {
			return domain.ErrNotOwner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return auction.NewView(a, im.clock(), im.policy), nil
}

// ReclaimExpired walks expired bidless auctions in (endsAt, id) order, one
// page per call. Rows that fail stay behind the cursor until the walk reaches
// the end and starts over, so they cannot hold back the rest.
func (im *impl) ReclaimExpired(c ctx.Ctx) (int, error) {
	im.reclaimMu.Lock()
	defer im.reclaimMu.Unlock()

	opts := []auction.FindAllOptionsFunc{
		auction.WithStatus(auction.StatusActive),
		auction.WithEndsBefore(im.clock()),
		auction.WithHasBid(false),
		auction.WithPagination(0, int32(im.reclaimBatch)),
	}
	if im.reclaimAfter != nil {
		opts = append(opts, auction.WithAfter(*im.reclaimAfter))
	}
	expired, err := im.repo.FindAll(c, opts...)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, a := range expired {
		if _, err := im.reclaim(c, a.Id, nil); err != nil {
			// a late bid or a seller reclaim got there first
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": a.Id,
			}).Warn("failed to reclaim auction")
			continue
		}
		n++
	}

	if len(expired) < im.reclaimBatch {
		im.reclaimAfter = nil
	} else {
		last := expired[len(expired)-1]
		im.reclaimAfter = &auction.Cursor{EndsAt: last.EndsAt, Id: last.Id}
	}

	if n > 0 {
		im.met.BumpSum("reclaimed", float64(n))
	}
	return n, nil
}

func (im *impl) reclaim(c ctx.Ctx, auctionId string, authorize func(*auction.Auction) error) (*auction.Auction, error) {
	now := im.clock()
	var res *auction.Auction
	if err := im.tx.RunWithTransaction(c, func(tc ctx.Ctx) error {
		a, err := im.repo.FindOne(tc, auctionId)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(a); err != nil {
				return err
			}
		}
		if err := a.Reclaim(now); err != nil {
			return err
		}
		if err := im.repo.Save(tc, a); err != nil {
			return err
		}
		i, err := im.itemRepo.FindOne(tc, a.ItemId)
		if err != nil {
			return err
		}
		if err := i.Release(a.Lock()); err != nil {
			return err
		}
		if err := im.itemRepo.Save(tc, i); err != nil {
			return err
		}
		res = a
		return nil
	}); err != nil {
		if !errors.Is(err, domain.ErrNotEnded) && !errors.Is(err, domain.ErrHasBids) {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": auctionId,
			}).Info("failed to reclaim auction")
		}
		return nil, err
	}

	im.notify(c, notification.Fact{
		AccountId:  res.SellerId,
		Kind:       notification.KindAuctionAbandoned,
		SubjectId:  res.Id,
		Payload:    map[string]interface{}{"itemId": res.ItemId},
		OccurredAt: now,
	})
	return res, nil
}

func (im *impl) notify(c ctx.Ctx, facts ...notification.Fact) {
	if im.sink == nil {
		return
	}
	im.sink.Notify(ctx.Detach(c), facts...)
}

func (im *impl) Get(c ctx.Ctx, auctionId string) (*auction.View, error) {
	a, err := im.repo.FindOne(c, auctionId)
	if err != nil {
		return nil, err
	}
	return auction.NewView(a, im.clock(), im.policy), nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) (*auction.SearchResult, error) {
	as, err := im.repo.FindAll(c, opts...)
	if err != nil {
		return nil, err
	}
	n, err := im.repo.Count(c, opts...)
	if err != nil {
		return nil, err
	}
	now := im.clock()
	res := &auction.SearchResult{Items: make([]*auction.View, 0, len(as)), Count: n}
	for _, a := range as {
		res.Items = append(res.Items, auction.NewView(a, now, im.policy))
	}
	return res, nil
}

func (im *impl) Bids(c ctx.Ctx, auctionId string) ([]*auction.Bid, error) {
	if _, err := im.repo.FindOne(c, auctionId); err != nil {
		return nil, err
	}
	return im.bidRepo.FindAll(c, auctionId)
}
