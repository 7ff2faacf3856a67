package mocks

import (
	context "context"

	common "github.com/ethereum/go-ethereum/common"
	types "github.com/ethereum/go-ethereum/core/types"
	mock "github.com/stretchr/testify/mock"
)

// EthClientRepo is a mock type for the EthClientRepo type
type EthClientRepo struct {
	mock.Mock
}

// BlockNumber provides a mock function with given fields: _a0
func (_m *EthClientRepo) BlockNumber(_a0 context.Context) (uint64, error) {
	ret := _m.Called(_a0)

	var r0 uint64
	if rf, ok := ret.Get(0).(func(context.Context) uint64); ok {
		r0 = rf(_a0)
	} else {
		r0 = ret.Get(0).(uint64)
	}
	return r0, ret.Error(1)
}

// TransactionReceipt provides a mock function with given fields: _a0, _a1
func (_m *EthClientRepo) TransactionReceipt(_a0 context.Context, _a1 common.Hash) (*types.Receipt, error) {
	ret := _m.Called(_a0, _a1)

	var r0 *types.Receipt
	if rf, ok := ret.Get(0).(func(context.Context, common.Hash) *types.Receipt); ok {
		r0 = rf(_a0, _a1)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.Receipt)
	}
	return r0, ret.Error(1)
}
