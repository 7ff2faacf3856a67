package pgclient

import (
	"context"
	"database/sql"
	"time"

	// registers the "postgres" driver
	_ "github.com/lib/pq"

	"github.com/x-xyz/marketcore/base/log"
)

const pingTimeout = 5 * time.Second

type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// MustConnect returns a postgres pool if it answers a ping, or it will trigger panic
func MustConnect(cfg Config) *sql.DB {
	db, err := Connect(cfg)
	if err != nil {
		log.Log().WithField("err", err).Panic("fail to connect postgres")
	}
	return db
}

func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Log().WithField("err", err).Error("fail to ping postgres")
		_ = db.Close()
		return nil, err
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
