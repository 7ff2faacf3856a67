package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/item/mocks"
)

func TestGrant(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := &mocks.Repo{}
	im := New(&Cfg{Repo: repo, HoldPeriod: 7 * 24 * time.Hour, Clock: func() time.Time { return now }})

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*item.Item")).Return(nil).Times(3)
	items, err := im.Grant(c, "alice", []string{"striker", "keeper", "boots"}, true)
	req.NoError(err)
	req.Len(items, 3)
	ids := map[string]bool{}
	for _, i := range items {
		ids[i.Id] = true
		req.Equal("alice", string(i.OwnerId))
		req.Equal(now, i.AcquiredAt)
		req.Equal(now.Add(7*24*time.Hour), *i.HoldUntil)
		req.True(i.OnHold(now.Add(time.Hour)))
		req.Empty(i.LockedBy)
	}
	req.Len(ids, 3)

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*item.Item")).Return(nil).Once()
	items, err = im.Grant(c, "bob", []string{"striker"}, false)
	req.NoError(err)
	req.Nil(items[0].HoldUntil)

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*item.Item")).Return(errors.New("boom")).Once()
	_, err = im.Grant(c, "bob", []string{"striker"}, false)
	req.Error(err)
	repo.AssertExpectations(t)
}

func TestFindAll(t *testing.T) {
	repo := &mocks.Repo{}
	im := New(&Cfg{Repo: repo})
	repo.On("FindAll", mock.Anything, mock.Anything).Return([]*item.Item{{Id: "i1"}}, nil).Once()

	items, err := im.FindAll(ctx.Background(), item.WithOwner("alice"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	repo.AssertExpectations(t)
}
