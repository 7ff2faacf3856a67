package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	notification "github.com/x-xyz/marketcore/domain/notification"
)

// Publisher is a mock type for the Publisher type
type Publisher struct {
	mock.Mock
}

// Publish provides a mock function with given fields: _a0, fact
func (_m *Publisher) Publish(_a0 ctx.Ctx, fact notification.Fact) error {
	ret := _m.Called(_a0, fact)

	var r0 error
	if rf, ok := ret.Get(0).(func(ctx.Ctx, notification.Fact) error); ok {
		r0 = rf(_a0, fact)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}
