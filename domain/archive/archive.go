package archive

import (
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
)

// Record is one settlement fact as kept in the archive
type Record struct {
	EventId    string
	Kind       notification.Kind
	AccountId  domain.AccountId
	SubjectId  string
	Payload    []byte
	OccurredAt time.Time
	ArchivedAt time.Time
}

type Repo interface {
	InitSchema(ctx ctx.Ctx) error
	// Insert ignores a record whose EventId is already archived
	Insert(ctx ctx.Ctx, r *Record) (inserted bool, err error)
}

type Usecase interface {
	Archive(ctx ctx.Ctx, eventId string, fact notification.Fact) error
}
