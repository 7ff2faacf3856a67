package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/notification/mocks"
)

func TestInboxPublish(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &mocks.InboxRepo{}
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(m *notification.InboxMessage) bool {
		return m.Id != "" &&
			m.AccountId == "alice" &&
			m.Kind == notification.KindOutbid &&
			m.Title == "You were outbid" &&
			m.SubjectId == "a1" &&
			m.CreatedAt.Equal(now) &&
			m.ReadAt == nil
	})).Return(nil).Once()

	pub := NewInboxPublisher(&InboxCfg{Repo: repo, Clock: func() time.Time { return now }})
	req.NoError(pub.Publish(mockCtx, notification.Fact{
		AccountId: "alice",
		Kind:      notification.KindOutbid,
		SubjectId: "a1",
		Payload:   map[string]interface{}{"topBidAmount": "103"},
	}))
	repo.AssertExpectations(t)
}

func TestInboxRender(t *testing.T) {
	req := require.New(t)
	title, body := render(notification.Fact{
		Kind:    notification.KindEntryGranted,
		Payload: map[string]interface{}{"itemIds": []string{"i1", "i2"}},
	})
	req.Equal("Starter pack granted", title)
	req.Equal("2 items were added to your squad.", body)

	title, body = render(notification.Fact{
		Kind:    notification.KindListingSold,
		Payload: map[string]interface{}{"itemId": "i1", "amount": domain.Amount("50")},
	})
	req.Equal("Listing sold", title)
	req.Equal("Item i1 sold for 50.", body)
}

func TestInboxList(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &mocks.InboxRepo{}
	msgs := []*notification.InboxMessage{{Id: "m1", AccountId: "alice"}}
	repo.On("FindAll", mock.Anything, domain.AccountId("alice"), true, int32(0), int32(20)).Return(msgs, nil).Once()
	repo.On("MarkRead", mock.Anything, domain.AccountId("alice"), "m1", now).Return(nil).Once()
	repo.On("MarkRead", mock.Anything, domain.AccountId("alice"), "m2", now).Return(domain.ErrNotFound).Once()
	iu := NewInbox(&InboxCfg{Repo: repo, Clock: func() time.Time { return now }})

	res, err := iu.List(mockCtx, "alice", true, 0, 20)
	req.NoError(err)
	req.Equal(msgs, res)

	req.NoError(iu.MarkRead(mockCtx, "alice", "m1"))
	req.ErrorIs(iu.MarkRead(mockCtx, "alice", "m2"), domain.ErrNotFound)

	_, err = iu.List(mockCtx, "", false, 0, 20)
	req.ErrorIs(err, domain.ErrUnauthorized)
	repo.AssertExpectations(t)
}
