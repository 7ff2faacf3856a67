package usecase

import (
	"encoding/json"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/archive"
	"github.com/x-xyz/marketcore/domain/notification"
)

type Cfg struct {
	Repo    archive.Repo
	Clock   domain.Clock
	Metrics metrics.Service
}

type impl struct {
	repo  archive.Repo
	clock domain.Clock
	met   metrics.Service
}

func New(cfg *Cfg) archive.Usecase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("archive")
	}
	return &impl{repo: cfg.Repo, clock: clock, met: met}
}

// Archive stores the fact once per event id; redelivered events are counted and dropped
func (im *impl) Archive(c ctx.Ctx, eventId string, fact notification.Fact) error {
	var payload []byte
	if len(fact.Payload) > 0 {
		b, err := json.Marshal(fact.Payload)
		if err != nil {
			c.WithField("err", err).Error("failed to marshal payload")
			return err
		}
		payload = b
	}

	occurredAt := fact.OccurredAt
	now := im.clock()
	if occurredAt.IsZero() {
		occurredAt = now
	}

	inserted, err := im.repo.Insert(c, &archive.Record{
		EventId:    eventId,
		Kind:       fact.Kind,
		AccountId:  fact.AccountId,
		SubjectId:  fact.SubjectId,
		Payload:    payload,
		OccurredAt: occurredAt,
		ArchivedAt: now,
	})
	if err != nil {
		im.met.BumpSum("err", 1, "kind", string(fact.Kind))
		c.WithFields(log.Fields{
			"err":     err,
			"eventId": eventId,
		}).Error("failed to repo.Insert")
		return err
	}
	if !inserted {
		im.met.BumpSum("duplicate", 1, "kind", string(fact.Kind))
		return nil
	}
	im.met.BumpSum("archived", 1, "kind", string(fact.Kind))
	return nil
}
