package mocks

import (
	time "time"

	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	notification "github.com/x-xyz/marketcore/domain/notification"
)

// InboxRepo is a mock type for the InboxRepo type
type InboxRepo struct {
	mock.Mock
}

// FindAll provides a mock function with given fields: _a0, accountId, unreadOnly, offset, limit
func (_m *InboxRepo) FindAll(_a0 ctx.Ctx, accountId domain.AccountId, unreadOnly bool, offset int32, limit int32) ([]*notification.InboxMessage, error) {
	ret := _m.Called(_a0, accountId, unreadOnly, offset, limit)

	var r0 []*notification.InboxMessage
	if rf, ok := ret.Get(0).(func(ctx.Ctx, domain.AccountId, bool, int32, int32) []*notification.InboxMessage); ok {
		r0 = rf(_a0, accountId, unreadOnly, offset, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*notification.InboxMessage)
	}
	return r0, ret.Error(1)
}

// Insert provides a mock function with given fields: _a0, msg
func (_m *InboxRepo) Insert(_a0 ctx.Ctx, msg *notification.InboxMessage) error {
	ret := _m.Called(_a0, msg)
	return ret.Error(0)
}

// MarkRead provides a mock function with given fields: _a0, accountId, id, at
func (_m *InboxRepo) MarkRead(_a0 ctx.Ctx, accountId domain.AccountId, id string, at time.Time) error {
	ret := _m.Called(_a0, accountId, id, at)
	return ret.Error(0)
}
