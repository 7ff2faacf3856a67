package usecase

import (
	"errors"
	"time"

	"github.com/x-xyz/marketcore/base/ctx"
	hcdomain "github.com/x-xyz/marketcore/domain/healthcheck"
	"github.com/x-xyz/marketcore/domain/settlement"
)

var ErrUnhealthy = errors.New("unhealthy")

const ledgerTimeout = 3 * time.Second

type impl struct {
	repo   hcdomain.HealthCheckRepo
	ledger settlement.Ledger
}

// New creates the health check usecase. A nil ledger is not probed.
func New(repo hcdomain.HealthCheckRepo, ledger settlement.Ledger) hcdomain.HealthCheckUsecase {
	return &impl{
		repo:   repo,
		ledger: ledger,
	}
}

func (im *impl) Check(context ctx.Ctx) (hcdomain.Report, error) {
	probes := map[string]func(ctx.Ctx) error{
		"mongo": im.repo.PingDB,
		"redis": im.repo.PingCache,
	}
	if im.ledger != nil {
		probes["ledger"] = func(c ctx.Ctx) error {
			c, cancel := ctx.WithTimeout(c, ledgerTimeout)
			defer cancel()
			_, err := im.ledger.CurrentHeight(c)
			return err
		}
	}

	report := hcdomain.Report{}
	var failed bool
	for name, probe := range probes {
		if err := probe(context); err != nil {
			report[name] = err.Error()
			failed = true
			continue
		}
		report[name] = "ok"
	}
	if failed {
		return report, ErrUnhealthy
	}
	return report, nil
}
