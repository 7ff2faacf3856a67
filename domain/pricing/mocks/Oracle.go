package mocks

import (
	big "math/big"

	decimal "github.com/shopspring/decimal"
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
)

// Oracle is a mock type for the Oracle type
type Oracle struct {
	mock.Mock
}

// Price provides a mock function with given fields: _a0
func (_m *Oracle) Price(_a0 ctx.Ctx) (decimal.Decimal, error) {
	ret := _m.Called(_a0)

	var r0 decimal.Decimal
	if rf, ok := ret.Get(0).(func(ctx.Ctx) decimal.Decimal); ok {
		r0 = rf(_a0)
	} else {
		r0 = ret.Get(0).(decimal.Decimal)
	}
	return r0, ret.Error(1)
}

// UsdToToken provides a mock function with given fields: _a0, usd
func (_m *Oracle) UsdToToken(_a0 ctx.Ctx, usd decimal.Decimal) (*big.Int, error) {
	ret := _m.Called(_a0, usd)

	var r0 *big.Int
	if rf, ok := ret.Get(0).(func(ctx.Ctx, decimal.Decimal) *big.Int); ok {
		r0 = rf(_a0, usd)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*big.Int)
	}
	return r0, ret.Error(1)
}
