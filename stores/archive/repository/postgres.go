package repository

import (
	"database/sql"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain/archive"
)

const schema = `
CREATE TABLE IF NOT EXISTS settlement_events (
	event_id    VARCHAR(64) PRIMARY KEY,
	kind        VARCHAR(32) NOT NULL,
	account_id  VARCHAR(128) NOT NULL,
	subject_id  VARCHAR(128) NOT NULL,
	payload     JSONB,
	occurred_at TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_settlement_events_subject ON settlement_events(subject_id);
CREATE INDEX IF NOT EXISTS idx_settlement_events_account ON settlement_events(account_id, occurred_at);
`

const insert = `
INSERT INTO settlement_events (event_id, kind, account_id, subject_id, payload, occurred_at, archived_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (event_id) DO NOTHING
`

type pgImpl struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) archive.Repo {
	return &pgImpl{db: db}
}

func (im *pgImpl) InitSchema(c ctx.Ctx) error {
	if _, err := im.db.ExecContext(c, schema); err != nil {
		c.WithField("err", err).Error("failed to create schema")
		return err
	}
	return nil
}

func (im *pgImpl) Insert(c ctx.Ctx, r *archive.Record) (bool, error) {
	var payload interface{}
	if len(r.Payload) > 0 {
		payload = string(r.Payload)
	}
	res, err := im.db.ExecContext(c, insert,
		r.EventId,
		string(r.Kind),
		string(r.AccountId),
		r.SubjectId,
		payload,
		r.OccurredAt,
		r.ArchivedAt,
	)
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"eventId": r.EventId,
		}).Error("db.ExecContext failed")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		c.WithField("err", err).Error("res.RowsAffected failed")
		return false, err
	}
	return n > 0, nil
}
