package healthcheck

import (
	"github.com/x-xyz/marketcore/base/ctx"
)

// Report maps each dependency to "ok" or the error it returned
type Report map[string]string

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	// Check probes every dependency and fails if any of them is down
	Check(context ctx.Ctx) (Report, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
	// PingCache is a no-op without redis
	PingCache(context ctx.Ctx) error
}
