package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/app/bootstrap"
	"github.com/x-xyz/marketcore/base/config"
	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/goroutine"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/stores/auction/worker"
)

func init() {
	config.Load("infra/configs/config.yaml")
}

func main() {
	defer log.Sync()

	c, cancel := ctx.WithCancel(ctx.Background())
	defer cancel()

	app, err := bootstrap.New(c)
	if err != nil {
		c.WithField("err", err).Panic("bootstrap.New failed")
	}
	defer app.Close(ctx.Background())

	sweeper := worker.NewSweeper(&worker.SweeperCfg{
		Reclaimer: app.Auction,
		Interval:  viper.GetDuration("sweeper.interval"),
		Batch:     viper.GetInt("sweeper.batch"),
	})

	c.Info("starting sweeper")
	panicCh := goroutine.RecoverableGo(func() {
		sweeper.Start(c)
		sweeper.Wait()
	}, goroutine.WithName("sweeper"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		c.WithField("signal", sig).Info("received signal")
		cancel()
		<-panicCh
	case p, ok := <-panicCh:
		if ok {
			c.WithField("panic", p.Panic).Error("sweeper stopped")
		}
	}
	c.Info("sweeper stopped")
}
