package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/x-xyz/marketcore/domain"
)

func TestLockAndTransfer(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	hold := now.Add(7 * 24 * time.Hour)
	i := &Item{Id: "i1", OwnerId: "alice", HoldUntil: &hold}
	lock := NewLock(LockKindAuction, "a1")

	req.ErrorIs(i.Lock("bob", lock, now), domain.ErrNotOwner)
	req.ErrorIs(i.Lock("alice", lock, now), domain.ErrItemOnHold)

	later := hold.Add(time.Second)
	req.NoError(i.Lock("alice", lock, later))
	req.Equal(LockKindAuction, i.LockedBy.Kind())
	req.ErrorIs(i.Lock("alice", NewLock(LockKindListing, "l1"), later), domain.ErrAlreadyListed)

	req.ErrorIs(i.TransferTo("bob", NewLock(LockKindListing, "l1"), later), domain.ErrConcurrentUpdate)
	req.NoError(i.TransferTo("bob", lock, later))
	req.Equal(domain.AccountId("bob"), i.OwnerId)
	req.Equal(later, i.AcquiredAt)
	req.Empty(i.LockedBy)
	req.Nil(i.HoldUntil)
}
