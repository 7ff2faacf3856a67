package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	account "github.com/x-xyz/marketcore/domain/account"
)

// Usecase is a mock type for the Usecase type
type Usecase struct {
	mock.Mock
}

// Get provides a mock function with given fields: _a0, id
func (_m *Usecase) Get(_a0 ctx.Ctx, id domain.AccountId) (*account.Account, error) {
	ret := _m.Called(_a0, id)

	var r0 *account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Account)
	}
	return r0, ret.Error(1)
}

// LinkPayout provides a mock function with given fields: _a0, id, address
func (_m *Usecase) LinkPayout(_a0 ctx.Ctx, id domain.AccountId, address domain.Address) (*account.Account, error) {
	ret := _m.Called(_a0, id, address)

	var r0 *account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Account)
	}
	return r0, ret.Error(1)
}

// PayoutAddress provides a mock function with given fields: _a0, id
func (_m *Usecase) PayoutAddress(_a0 ctx.Ctx, id domain.AccountId) (domain.Address, error) {
	ret := _m.Called(_a0, id)
	return ret.Get(0).(domain.Address), ret.Error(1)
}
