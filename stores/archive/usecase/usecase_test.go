package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain/archive"
	"github.com/x-xyz/marketcore/domain/archive/mocks"
	"github.com/x-xyz/marketcore/domain/notification"
)

type archiveSuite struct {
	suite.Suite
	repo *mocks.Repo
	now  time.Time
	im   archive.Usecase
}

func TestArchiveSuite(t *testing.T) {
	suite.Run(t, new(archiveSuite))
}

func (s *archiveSuite) SetupTest() {
	s.repo = &mocks.Repo{}
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.im = New(&Cfg{
		Repo:    s.repo,
		Clock:   func() time.Time { return s.now },
		Metrics: metrics.Nop(),
	})
}

func (s *archiveSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
}

func (s *archiveSuite) TestArchive() {
	occurred := s.now.Add(-time.Minute)
	fact := notification.Fact{
		AccountId:  "alice",
		Kind:       notification.KindSold,
		SubjectId:  "a1",
		Payload:    map[string]interface{}{"amount": "500"},
		OccurredAt: occurred,
	}
	s.repo.On("Insert", mock.Anything, &archive.Record{
		EventId:    "e1",
		Kind:       notification.KindSold,
		AccountId:  "alice",
		SubjectId:  "a1",
		Payload:    []byte(`{"amount":"500"}`),
		OccurredAt: occurred,
		ArchivedAt: s.now,
	}).Return(true, nil).Once()

	s.NoError(s.im.Archive(ctx.Background(), "e1", fact))
}

func (s *archiveSuite) TestDuplicateIsNotAnError() {
	s.repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *archive.Record) bool {
		return r.EventId == "e1" && r.Payload == nil && r.OccurredAt.Equal(s.now)
	})).Return(false, nil).Once()

	s.NoError(s.im.Archive(ctx.Background(), "e1", notification.Fact{Kind: notification.KindOutbid, AccountId: "bob"}))
}

func (s *archiveSuite) TestRepoError() {
	s.repo.On("Insert", mock.Anything, mock.Anything).Return(false, errors.New("conn refused")).Once()

	s.Error(s.im.Archive(ctx.Background(), "e1", notification.Fact{Kind: notification.KindWon}))
}
