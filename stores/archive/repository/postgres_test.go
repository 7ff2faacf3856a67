package repository

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/database/pgclient"
	"github.com/x-xyz/marketcore/domain/archive"
	"github.com/x-xyz/marketcore/domain/notification"
)

type postgresSuite struct {
	suite.Suite
	repo archive.Repo
}

func TestPostgresSuite(t *testing.T) {
	if os.Getenv("POSTGRES_TEST_DSN") == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	suite.Run(t, new(postgresSuite))
}

func (s *postgresSuite) SetupSuite() {
	db := pgclient.MustConnect(pgclient.Config{DSN: os.Getenv("POSTGRES_TEST_DSN")})
	s.repo = NewPostgres(db)
	s.Require().NoError(s.repo.InitSchema(ctx.Background()))
}

func (s *postgresSuite) TestInsertOnce() {
	c := ctx.Background()
	r := &archive.Record{
		EventId:    uuid.NewString(),
		Kind:       notification.KindSold,
		AccountId:  "alice",
		SubjectId:  "a1",
		Payload:    []byte(`{"amount":"500"}`),
		OccurredAt: time.Now().UTC(),
		ArchivedAt: time.Now().UTC(),
	}

	inserted, err := s.repo.Insert(c, r)
	s.Require().NoError(err)
	s.True(inserted)

	inserted, err = s.repo.Insert(c, r)
	s.Require().NoError(err)
	s.False(inserted)
}
