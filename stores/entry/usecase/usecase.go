package usecase

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
	"github.com/x-xyz/marketcore/domain/entry"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/pricing"
	"github.com/x-xyz/marketcore/domain/settlement"
)

const (
	DefaultPackSize = 18
	DefaultItemType = "player"
)

type Cfg struct {
	ClaimRepo    entry.ClaimRepo
	Items        item.Usecase
	Account      account.Usecase
	Oracle       pricing.Oracle
	Orchestrator settlement.Orchestrator
	PriceUsd     decimal.Decimal
	Treasury     domain.Address
	PackSize     int
	ItemType     string
	Clock        domain.Clock
}

type impl struct {
	claimRepo    entry.ClaimRepo
	items        item.Usecase
	account      account.Usecase
	oracle       pricing.Oracle
	orchestrator settlement.Orchestrator
	priceUsd     decimal.Decimal
	treasury     domain.Address
	pack         []string
	clock        domain.Clock
}

func New(cfg *Cfg) entry.Usecase {
	size := cfg.PackSize
	if size <= 0 {
		size = DefaultPackSize
	}
	itemType := cfg.ItemType
	if itemType == "" {
		itemType = DefaultItemType
	}
	pack := make([]string, size)
	for i := range pack {
		pack[i] = itemType
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		claimRepo:    cfg.ClaimRepo,
		items:        cfg.Items,
		account:      cfg.Account,
		oracle:       cfg.Oracle,
		orchestrator: cfg.Orchestrator,
		priceUsd:     cfg.PriceUsd,
		treasury:     cfg.Treasury.ToLower(),
		pack:         pack,
		clock:        clock,
	}
}

func (im *impl) Quote(c ctx.Ctx) (*entry.Quote, error) {
	amount, err := im.oracle.UsdToToken(c, im.priceUsd)
	if err != nil {
		c.WithField("err", err).Error("oracle.UsdToToken failed")
		return nil, err
	}
	return &entry.Quote{
		UsdAmount:   im.priceUsd.String(),
		TokenAmount: domain.NewAmount(amount),
		Treasury:    im.treasury,
		PackSize:    len(im.pack),
	}, nil
}

func (im *impl) Status(c ctx.Ctx, accountId domain.AccountId) (*entry.Claim, error) {
	return im.claimRepo.FindOne(c, accountId)
}

func (im *impl) Claim(c ctx.Ctx, accountId domain.AccountId, txRef domain.TxHash) (*settlement.Receipt, error) {
	return im.orchestrator.Settle(c, settlement.Request{
		Action:    settlement.ActionEntryClaim,
		AccountId: accountId,
		TxRef:     txRef,
		SubjectId: string(accountId),
	}, &claimGate{impl: im})
}

// claimGate is single use: Prepare keeps the quoted amount for Commit
type claimGate struct {
	*impl
	amount *big.Int
}

func (g *claimGate) Prepare(c ctx.Ctx, req settlement.Request) (*settlement.Payment, error) {
	if _, err := g.claimRepo.FindOne(c, req.AccountId); err == nil {
		return nil, domain.ErrAlreadyClaimed
	} else if err != domain.ErrNotFound {
		return nil, err
	}
	from, err := g.account.PayoutAddress(c, req.AccountId)
	if err != nil {
		return nil, err
	}
	amount, err := g.oracle.UsdToToken(c, g.priceUsd)
	if err != nil {
		return nil, err
	}
	g.amount = amount
	return &settlement.Payment{
		From:   from,
		To:     g.treasury,
		Amount: amount,
		Mode:   settlement.VerifyModeTolerant,
	}, nil
}

func (g *claimGate) Commit(c ctx.Ctx, req settlement.Request) (*settlement.Outcome, error) {
	now := g.clock()
	items, err := g.items.Grant(c, req.AccountId, g.pack, true)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.Id)
	}
	if err := g.claimRepo.Insert(c, &entry.Claim{
		AccountId: req.AccountId,
		TxRef:     req.TxRef,
		Amount:    domain.NewAmount(g.amount),
		ItemIds:   ids,
		ClaimedAt: now,
	}); err != nil {
		return nil, err
	}
	return &settlement.Outcome{
		ItemIds: ids,
		Facts: []notification.Fact{{
			AccountId:  req.AccountId,
			Kind:       notification.KindEntryGranted,
			SubjectId:  string(req.AccountId),
			Payload:    map[string]interface{}{"itemIds": ids, "txRef": req.TxRef},
			OccurredAt: now,
		}},
	}, nil
}
