package mocks

import (
	decimal "github.com/shopspring/decimal"
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
)

// Source is a mock type for the Source type
type Source struct {
	mock.Mock
}

// UsdPrice provides a mock function with given fields: _a0
func (_m *Source) UsdPrice(_a0 ctx.Ctx) (decimal.Decimal, error) {
	ret := _m.Called(_a0)

	var r0 decimal.Decimal
	if rf, ok := ret.Get(0).(func(ctx.Ctx) decimal.Decimal); ok {
		r0 = rf(_a0)
	} else {
		r0 = ret.Get(0).(decimal.Decimal)
	}
	return r0, ret.Error(1)
}
