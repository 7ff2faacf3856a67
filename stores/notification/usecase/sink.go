package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain/notification"
)

const (
	defaultWorkers  = 16
	defaultQueueLen = 1024
	scheduleTimeout = time.Second
	deliveryTimeout = 10 * time.Second
)

// Channel is a named delivery target
type Channel struct {
	Name      string
	Publisher notification.Publisher
}

type SinkCfg struct {
	Channels []Channel
	Workers  int
	Metrics  metrics.Service
}

// Sink fans facts out to every channel on a bounded worker pool
type Sink struct {
	channels []Channel
	pool     *goroutines.Pool
	met      metrics.Service
}

func NewSink(cfg *SinkCfg) *Sink {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("notification")
	}
	return &Sink{
		channels: cfg.Channels,
		pool:     goroutines.NewPool(workers, goroutines.WithTaskQueueLength(defaultQueueLen), goroutines.WithPreAllocWorkers(workers/4)),
		met:      met,
	}
}

func (s *Sink) Notify(c ctx.Ctx, facts ...notification.Fact) {
	for _, fact := range facts {
		fact := fact
		if err := s.pool.ScheduleWithTimeout(scheduleTimeout, func() {
			s.deliver(c, fact)
		}); err != nil {
			s.met.BumpSum("dropped", 1, "kind", string(fact.Kind))
			c.WithFields(log.Fields{
				"err":       err,
				"kind":      fact.Kind,
				"accountId": fact.AccountId,
			}).Error("failed to schedule notification")
		}
	}
}

func (s *Sink) deliver(c ctx.Ctx, fact notification.Fact) {
	c, cancel := ctx.WithTimeout(c, deliveryTimeout)
	defer cancel()

	for _, ch := range s.channels {
		if err := ch.Publisher.Publish(c, fact); err != nil {
			s.met.BumpSum("err", 1, "kind", string(fact.Kind), "channel", ch.Name)
			c.WithFields(log.Fields{
				"err":       err,
				"channel":   ch.Name,
				"kind":      fact.Kind,
				"accountId": fact.AccountId,
				"subjectId": fact.SubjectId,
			}).Error("failed to deliver notification")
			continue
		}
		s.met.BumpSum("delivered", 1, "kind", string(fact.Kind), "channel", ch.Name)
	}
}

// Close releases the workers; call it once nothing notifies anymore
func (s *Sink) Close() {
	s.pool.Release()
}
