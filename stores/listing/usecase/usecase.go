package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/listing"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/settlement"
)

type Cfg struct {
	Repo         listing.Repo
	ItemRepo     item.Repo
	Account      account.Usecase
	Orchestrator settlement.Orchestrator
	Transactor   domain.Transactor
	Clock        domain.Clock
}

type impl struct {
	repo         listing.Repo
	itemRepo     item.Repo
	account      account.Usecase
	orchestrator settlement.Orchestrator
	tx           domain.Transactor
	clock        domain.Clock
}

func New(cfg *Cfg) listing.Usecase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		repo:         cfg.Repo,
		itemRepo:     cfg.ItemRepo,
		account:      cfg.Account,
		orchestrator: cfg.Orchestrator,
		tx:           cfg.Transactor,
		clock:        clock,
	}
}

func (im *impl) Create(c ctx.Ctx, seller domain.AccountId, itemId string, price domain.Amount) (*listing.Listing, error) {
	if !price.IsPositive() {
		return nil, domain.ErrBadParamInput
	}
	// buyers pay the seller's wallet directly
	if _, err := im.account.PayoutAddress(c, seller); err != nil {
		return nil, err
	}

	now := im.clock()
	l := &listing.Listing{
		Id:          uuid.NewString(),
		SellerId:    seller,
		ItemId:      itemId,
		PriceAmount: price,
		Status:      listing.StatusActive,
		CreatedAt:   now,
	}

	if err := im.tx.RunWithTransaction(c, func(tc ctx.Ctx) error {
		i, err := im.itemRepo.FindOne(tc, itemId)
		if err != nil {
			return err
		}
		if err := i.Lock(seller, l.Lock(), now); err != nil {
			return err
		}
		if err := im.itemRepo.Save(tc, i); err != nil {
			return err
		}
		return im.repo.Insert(tc, l)
	}); err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"seller": seller,
			"itemId": itemId,
		}).Info("failed to create listing")
		return nil, err
	}
	return l, nil
}

func (im *impl) Buy(c ctx.Ctx, listingId string, buyer domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error) {
	return im.orchestrator.Settle(c, settlement.Request{
		Action:    settlement.ActionListingBuy,
		AccountId: buyer,
		TxRef:     txRef,
		SubjectId: listingId,
	}, &buyGate{im})
}

// buyGate plugs listing purchase into the settlement orchestrator
type buyGate struct {
	*impl
}

func (g *buyGate) Prepare(c ctx.Ctx, req settlement.Request) (*settlement.Payment, error) {
	l, err := g.repo.FindOne(c, req.SubjectId)
	if err != nil {
		return nil, err
	}
	if err := l.CheckBuy(req.AccountId); err != nil {
		return nil, err
	}
	from, err := g.account.PayoutAddress(c, req.AccountId)
	if err != nil {
		return nil, err
	}
	to, err := g.account.PayoutAddress(c, l.SellerId)
	if err != nil {
		return nil, err
	}
	amount, err := l.PriceAmount.ToBig()
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

func (g *buyGate) Commit(c ctx.Ctx, req settlement.Request) (*settlement.Outcome, error) {
	now := g.clock()
	l, err := g.repo.FindOne(c, req.SubjectId)
	if err != nil {
		return nil, err
	}
	if err := l.MarkSold(req.AccountId, now); err != nil {
		return nil, err
	}
	if err := g.repo.Save(c, l); err != nil {
		return nil, err
	}

	i, err := g.itemRepo.FindOne(c, l.ItemId)
	if err != nil {
		return nil, err
	}
	if err := i.TransferTo(req.AccountId, l.Lock(), now); err != nil {
		return nil, err
	}
	if err := g.itemRepo.Save(c, i); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"itemId":      l.ItemId,
		"priceAmount": l.PriceAmount,
		"txRef":       req.TxRef,
	}
	return &settlement.Outcome{
		ItemIds: []string{l.ItemId},
		Facts: []notification.Fact{
			{AccountId: l.SellerId, Kind: notification.KindListingSold, SubjectId: l.Id, Payload: payload, OccurredAt: now},
			{AccountId: req.AccountId, Kind: notification.KindPurchased, SubjectId: l.Id, Payload: payload, OccurredAt: now},
		},
	}, nil
}

func (im *impl) Cancel(c ctx.Ctx, listingId string, seller domain.AccountId) (*listing.Listing, error) {
	var res *listing.Listing
	if err := im.tx.RunWithTransaction(c, func(tc ctx.Ctx) error {
		l, err := im.repo.FindOne(tc, listingId)
		if err != nil {
			return err
		}
		if err := l.Cancel(seller, im.clock()); err != nil {
			return err
		}
		if err := im.repo.Save(tc, l); err != nil {
			return err
		}
		i, err := im.itemRepo.FindOne(tc, l.ItemId)
		if err != nil {
			return err
		}
		if err := i.Release(l.Lock()); err != nil {
			return err
		}
		if err := im.itemRepo.Save(tc, i); err != nil {
			return err
		}
		res = l
		return nil
	}); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Info("failed to cancel listing")
		return nil, err
	}
	return res, nil
}

func (im *impl) Get(c ctx.Ctx, listingId string) (*listing.Listing, error) {
	return im.repo.FindOne(c, listingId)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) (*listing.SearchResult, error) {
	ls, err := im.repo.FindAll(c, opts...)
	if err != nil {
		return nil, err
	}
	n, err := im.repo.Count(c, opts...)
	if err != nil {
		return nil, err
	}
	return &listing.SearchResult{Items: ls, Count: n}, nil
}
