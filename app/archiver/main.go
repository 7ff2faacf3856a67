package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/base/backoff"
	"github.com/x-xyz/marketcore/base/config"
	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/database/pgclient"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/service/events"
	archive_repository "github.com/x-xyz/marketcore/stores/archive/repository"
	archive_usecase "github.com/x-xyz/marketcore/stores/archive/usecase"
)

const queueGroup = "archiver"

func init() {
	config.Load("infra/configs/config.yaml")
}

func main() {
	defer log.Sync()

	c, cancel := ctx.WithCancel(ctx.Background())
	defer cancel()

	c.Info("init postgres")
	db := pgclient.MustConnect(pgclient.Config{DSN: viper.GetString("archiver.postgresDsn")})
	defer db.Close()

	repo := archive_repository.NewPostgres(db)
	if err := repo.InitSchema(c); err != nil {
		c.WithField("err", err).Panic("repo.InitSchema failed")
	}
	archiver := archive_usecase.New(&archive_usecase.Cfg{Repo: repo})

	conn := mustConnectNats(c, viper.GetString("nats.url"))
	defer conn.Close()

	sub, err := events.Subscribe(c, conn, queueGroup, func(ec ctx.Ctx, e *events.Event) error {
		return archiver.Archive(ec, e.Id, e.Fact)
	})
	if err != nil {
		c.WithField("err", err).Panic("events.Subscribe failed")
	}
	c.WithField("subject", events.AllSubjects).Info("archiving events")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	c.WithField("signal", sig).Info("received signal")

	// let in-flight handlers finish before the db pool closes
	if err := sub.Drain(); err != nil {
		c.WithField("err", err).Warn("sub.Drain failed")
	}
	if err := conn.Drain(); err != nil {
		c.WithField("err", err).Warn("conn.Drain failed")
	}
	for conn.IsDraining() {
		time.Sleep(100 * time.Millisecond)
	}
}

// mustConnectNats retries the first connect, later disconnects are handled by the client
func mustConnectNats(c ctx.Ctx, url string) *nats.Conn {
	b := backoff.NewExponential(time.Second, 30*time.Second)
	for {
		conn, err := events.Connect(url, viper.GetString("app_name"))
		if err == nil {
			return conn
		}
		c.WithFields(log.Fields{
			"err":     err,
			"url":     url,
			"backoff": b.NextDuration,
		}).Warn("events.Connect failed")
		if err := b.Backoff(c); err != nil {
			c.WithField("err", err).Panic("gave up connecting nats")
		}
	}
}
