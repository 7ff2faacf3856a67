package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
)

type InboxCfg struct {
	Repo  notification.InboxRepo
	Clock domain.Clock
}

type inboxImpl struct {
	repo  notification.InboxRepo
	clock domain.Clock
}

func NewInbox(cfg *InboxCfg) notification.InboxUsecase {
	return newInbox(cfg)
}

// NewInboxPublisher writes every fact to its account's inbox
func NewInboxPublisher(cfg *InboxCfg) notification.Publisher {
	return newInbox(cfg)
}

func newInbox(cfg *InboxCfg) *inboxImpl {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &inboxImpl{repo: cfg.Repo, clock: clock}
}

func (im *inboxImpl) List(c ctx.Ctx, accountId domain.AccountId, unreadOnly bool, offset, limit int32) ([]*notification.InboxMessage, error) {
	if accountId.IsEmpty() {
		return nil, domain.ErrUnauthorized
	}
	return im.repo.FindAll(c, accountId, unreadOnly, offset, limit)
}

func (im *inboxImpl) MarkRead(c ctx.Ctx, accountId domain.AccountId, id string) error {
	if accountId.IsEmpty() {
		return domain.ErrUnauthorized
	}
	return im.repo.MarkRead(c, accountId, id, im.clock())
}

func (im *inboxImpl) Publish(c ctx.Ctx, fact notification.Fact) error {
	title, body := render(fact)
	return im.repo.Insert(c, &notification.InboxMessage{
		Id:        uuid.NewString(),
		AccountId: fact.AccountId,
		Kind:      fact.Kind,
		Title:     title,
		Body:      body,
		SubjectId: fact.SubjectId,
		Payload:   fact.Payload,
		CreatedAt: im.clock(),
	})
}

func render(fact notification.Fact) (string, string) {
	p := func(k string) interface{} { return fact.Payload[k] }
	switch fact.Kind {
	case notification.KindOutbid:
		return "You were outbid", fmt.Sprintf("The top bid is now %v and the auction ends at %v.", p("topBidAmount"), p("endsAt"))
	case notification.KindWon:
		return "Auction won", fmt.Sprintf("Item %v is yours for %v.", p("itemId"), p("amount"))
	case notification.KindLost:
		return "Auction lost", fmt.Sprintf("Item %v went to another buyer for %v.", p("itemId"), p("amount"))
	case notification.KindSold:
		return "Auction sold", fmt.Sprintf("Item %v sold for %v.", p("itemId"), p("amount"))
	case notification.KindListingSold:
		return "Listing sold", fmt.Sprintf("Item %v sold for %v.", p("itemId"), p("amount"))
	case notification.KindPurchased:
		return "Purchase complete", fmt.Sprintf("Item %v is yours for %v.", p("itemId"), p("amount"))
	case notification.KindEntryGranted:
		ids, _ := fact.Payload["itemIds"].([]string)
		return "Starter pack granted", fmt.Sprintf("%d items were added to your squad.", len(ids))
	case notification.KindAuctionAbandoned:
		return "Auction ended without bids", fmt.Sprintf("Item %v is back in your squad.", p("itemId"))
	}
	return string(fact.Kind), ""
}
