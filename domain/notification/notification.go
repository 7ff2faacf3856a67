package notification

import (
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
)

type Kind string

const (
	KindOutbid           Kind = "outbid"
	KindWon              Kind = "won"
	KindLost             Kind = "lost"
	KindSold             Kind = "sold"
	KindPurchased        Kind = "purchased"
	KindListingSold      Kind = "listing_sold"
	KindEntryGranted     Kind = "entry_granted"
	KindAuctionAbandoned Kind = "auction_abandoned"
)

// Fact is an outcome the engine produced that somebody should hear about
type Fact struct {
	AccountId  domain.AccountId       `json:"accountId"`
	Kind       Kind                   `json:"kind"`
	SubjectId  string                 `json:"subjectId"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Sink delivers facts. Delivery is best effort and never reports failure
// to the caller.
type Sink interface {
	Notify(ctx ctx.Ctx, facts ...Fact)
}

// Publisher is one delivery channel behind a Sink
type Publisher interface {
	Publish(ctx ctx.Ctx, fact Fact) error
}

type InboxMessage struct {
	Id        string                 `json:"id" bson:"_id"`
	AccountId domain.AccountId       `json:"accountId" bson:"accountId"`
	Kind      Kind                   `json:"kind" bson:"kind"`
	Title     string                 `json:"title" bson:"title"`
	Body      string                 `json:"body" bson:"body"`
	SubjectId string                 `json:"subjectId" bson:"subjectId"`
	Payload   map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
	ReadAt    *time.Time             `json:"readAt,omitempty" bson:"readAt,omitempty"`
}

type InboxRepo interface {
	Insert(ctx ctx.Ctx, msg *InboxMessage) error
	FindAll(ctx ctx.Ctx, accountId domain.AccountId, unreadOnly bool, offset, limit int32) ([]*InboxMessage, error)
	MarkRead(ctx ctx.Ctx, accountId domain.AccountId, id string, at time.Time) error
}

type InboxUsecase interface {
	List(ctx ctx.Ctx, accountId domain.AccountId, unreadOnly bool, offset, limit int32) ([]*InboxMessage, error)
	MarkRead(ctx ctx.Ctx, accountId domain.AccountId, id string) error
}
