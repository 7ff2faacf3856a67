package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	settlement "github.com/x-xyz/marketcore/domain/settlement"
)

// Ledger is a mock type for the Ledger type
type Ledger struct {
	mock.Mock
}

// CurrentHeight provides a mock function with given fields: _a0
func (_m *Ledger) CurrentHeight(_a0 ctx.Ctx) (uint64, error) {
	ret := _m.Called(_a0)

	var r0 uint64
	if rf, ok := ret.Get(0).(func(ctx.Ctx) uint64); ok {
		r0 = rf(_a0)
	} else {
		r0 = ret.Get(0).(uint64)
	}
	return r0, ret.Error(1)
}

// GetTransaction provides a mock function with given fields: _a0, txRef
func (_m *Ledger) GetTransaction(_a0 ctx.Ctx, txRef domain.TxHash) (*settlement.LedgerTx, error) {
	ret := _m.Called(_a0, txRef)

	var r0 *settlement.LedgerTx
	if rf, ok := ret.Get(0).(func(ctx.Ctx, domain.TxHash) *settlement.LedgerTx); ok {
		r0 = rf(_a0, txRef)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*settlement.LedgerTx)
	}
	return r0, ret.Error(1)
}
