package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	settlement "github.com/x-xyz/marketcore/domain/settlement"
)

// ReplayGuard is a mock type for the ReplayGuard type
type ReplayGuard struct {
	mock.Mock
}

// Consume provides a mock function with given fields: _a0, txRef, accountId, action, subjectId
func (_m *ReplayGuard) Consume(_a0 ctx.Ctx, txRef domain.TxHash, accountId domain.AccountId, action settlement.Action, subjectId string) (*settlement.TxRecord, error) {
	ret := _m.Called(_a0, txRef, accountId, action, subjectId)

	var r0 *settlement.TxRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*settlement.TxRecord)
	}
	return r0, ret.Error(1)
}

// IsConsumed provides a mock function with given fields: _a0, txRef
func (_m *ReplayGuard) IsConsumed(_a0 ctx.Ctx, txRef domain.TxHash) (bool, error) {
	ret := _m.Called(_a0, txRef)
	return ret.Bool(0), ret.Error(1)
}
