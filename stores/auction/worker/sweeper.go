package worker

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/marketcore/base/backoff"
	bCtx "github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/goroutine"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
)

// Reclaimer is the slice of auction.Usecase the sweeper drives
type Reclaimer interface {
	ReclaimExpired(ctx bCtx.Ctx) (int, error)
}

type SweeperCfg struct {
	Reclaimer Reclaimer
	Interval  time.Duration
	// Batch is the page size of one ReclaimExpired pass; a full page is
	// followed by another pass without waiting
	Batch   int
	Metrics metrics.Service
}

// Sweeper periodically closes auctions that ended without bids
type Sweeper struct {
	reclaimer Reclaimer
	interval  time.Duration
	batch     int
	met       metrics.Service
	backoff   *backoff.Backoff
	stoppedCh chan interface{}
}

func NewSweeper(cfg *SweeperCfg) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("sweeper")
	}
	return &Sweeper{
		reclaimer: cfg.Reclaimer,
		interval:  interval,
		batch:     cfg.Batch,
		met:       met,
		backoff:   backoff.NewExponential(time.Second, interval),
		stoppedCh: make(chan interface{}),
	}
}

func (s *Sweeper) Start(ctx bCtx.Ctx) {
	goroutine.RecoverableGo(func() { s.loop(ctx) }, goroutine.WithName("sweeper"))
}

// Wait blocks until ctx given to Start is done
func (s *Sweeper) Wait() {
	<-s.stoppedCh
}

func (s *Sweeper) loop(ctx bCtx.Ctx) {
	defer close(s.stoppedCh)

	nextTick := time.Duration(0)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(nextTick):
		}

		n, err := s.pass(ctx)
		if err != nil {
			s.met.BumpSum("err", 1)
			ctx.WithFields(log.Fields{
				"err":      err,
				"attempts": s.backoff.Attempts(),
				"backoff":  s.backoff.NextDuration,
			}).Error("failed to ReclaimExpired")
			if err := s.backoff.Backoff(ctx); err != nil {
				return
			}
			nextTick = 0
			continue
		}
		s.backoff.Reset()

		if n > 0 {
			s.met.BumpSum("reclaimed", float64(n))
			ctx.WithField("reclaimed", n).Info("reclaimed expired auctions")
		}
		if s.batch > 0 && n >= s.batch {
			nextTick = 0
		} else {
			nextTick = s.interval
		}
	}
}

// pass runs one ReclaimExpired. A panic comes back as an error so the loop
// backs off and keeps sweeping.
func (s *Sweeper) pass(ctx bCtx.Ctx) (n int, err error) {
	done := goroutine.RecoverableGo(func() {
		n, err = s.reclaimer.ReclaimExpired(ctx)
	}, goroutine.WithName("sweeper.pass"))
	if p, ok := <-done; ok {
		s.met.BumpSum("panic", 1)
		return 0, xerrors.Errorf("ReclaimExpired panicked: %v", p.Panic)
	}
	return n, err
}
