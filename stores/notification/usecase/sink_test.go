package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/notification/mocks"
)

var mockCtx = ctx.Background()

// chanPublisher reports each delivered fact on a channel
type chanPublisher chan notification.Fact

func (p chanPublisher) Publish(_ ctx.Ctx, fact notification.Fact) error {
	p <- fact
	return nil
}

type sinkSuite struct {
	suite.Suite
}

func TestSinkSuite(t *testing.T) {
	suite.Run(t, new(sinkSuite))
}

func (s *sinkSuite) receive(ch chanPublisher) notification.Fact {
	select {
	case f := <-ch:
		return f
	case <-time.After(5 * time.Second):
		s.FailNow("fact not delivered")
	}
	return notification.Fact{}
}

func (s *sinkSuite) TestFanOut() {
	a, b := make(chanPublisher, 8), make(chanPublisher, 8)
	sink := NewSink(&SinkCfg{
		Channels: []Channel{{Name: "a", Publisher: a}, {Name: "b", Publisher: b}},
		Workers:  4,
		Metrics:  metrics.Nop(),
	})
	defer sink.Close()

	sink.Notify(mockCtx,
		notification.Fact{AccountId: "alice", Kind: notification.KindOutbid},
		notification.Fact{AccountId: "bob", Kind: notification.KindWon},
	)

	got := map[notification.Kind]int{}
	for i := 0; i < 2; i++ {
		got[s.receive(a).Kind]++
		got[s.receive(b).Kind]++
	}
	s.Equal(map[notification.Kind]int{notification.KindOutbid: 2, notification.KindWon: 2}, got)
}

func (s *sinkSuite) TestFailingChannelDoesNotBlockOthers() {
	failing := &mocks.Publisher{}
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats down"))
	ok := make(chanPublisher, 1)
	sink := NewSink(&SinkCfg{
		Channels: []Channel{{Name: "nats", Publisher: failing}, {Name: "inbox", Publisher: ok}},
		Metrics:  metrics.Nop(),
	})
	defer sink.Close()

	sink.Notify(mockCtx, notification.Fact{AccountId: "alice", Kind: notification.KindSold, SubjectId: "a1"})
	f := s.receive(ok)
	s.Equal("a1", f.SubjectId)
	failing.AssertNumberOfCalls(s.T(), "Publish", 1)
}

func (s *sinkSuite) TestNotifyWithoutFacts() {
	sink := NewSink(&SinkCfg{Metrics: metrics.Nop()})
	defer sink.Close()
	sink.Notify(mockCtx)
}
