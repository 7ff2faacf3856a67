package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/settlement"
	"github.com/x-xyz/marketcore/domain/settlement/mocks"
)

func TestReplayGuard(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := &mocks.TxRecordRepo{}
	guard := NewReplayGuard(repo, func() time.Time { return now })

	repo.On("FindOne", mock.Anything, txRef).Return(nil, domain.ErrNotFound).Once()
	consumed, err := guard.IsConsumed(mockCtx, txRef)
	req.NoError(err)
	req.False(consumed)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *settlement.TxRecord) bool {
		return r.TxRef == txRef && r.ConsumedById == "buyer" && r.ConsumedForAction == settlement.ActionListingBuy &&
			r.SubjectId == "l1" && r.ConsumedAt.Equal(now)
	})).Return(nil).Once()
	record, err := guard.Consume(mockCtx, txRef, "buyer", settlement.ActionListingBuy, "l1")
	req.NoError(err)
	req.Equal("l1", record.SubjectId)

	repo.On("FindOne", mock.Anything, txRef).Return(record, nil).Once()
	consumed, err = guard.IsConsumed(mockCtx, txRef)
	req.NoError(err)
	req.True(consumed)

	repo.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrAlreadyConsumed).Once()
	_, err = guard.Consume(mockCtx, txRef, "other", settlement.ActionAuctionBuyNow, "a1")
	req.ErrorIs(err, domain.ErrAlreadyConsumed)

	boom := errors.New("boom")
	repo.On("FindOne", mock.Anything, txRef).Return(nil, boom).Once()
	_, err = guard.IsConsumed(mockCtx, txRef)
	req.ErrorIs(err, boom)

	repo.AssertExpectations(t)
}
