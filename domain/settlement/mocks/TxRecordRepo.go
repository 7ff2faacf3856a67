package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	settlement "github.com/x-xyz/marketcore/domain/settlement"
)

// TxRecordRepo is a mock type for the TxRecordRepo type
type TxRecordRepo struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: _a0, txRef
func (_m *TxRecordRepo) FindOne(_a0 ctx.Ctx, txRef domain.TxHash) (*settlement.TxRecord, error) {
	ret := _m.Called(_a0, txRef)

	var r0 *settlement.TxRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*settlement.TxRecord)
	}
	return r0, ret.Error(1)
}

// Insert provides a mock function with given fields: _a0, record
func (_m *TxRecordRepo) Insert(_a0 ctx.Ctx, record *settlement.TxRecord) error {
	ret := _m.Called(_a0, record)
	return ret.Error(0)
}
