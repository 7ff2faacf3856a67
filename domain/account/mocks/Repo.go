package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	account "github.com/x-xyz/marketcore/domain/account"
)

// Repo is a mock type for the Repo type
type Repo struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: _a0, id
func (_m *Repo) FindOne(_a0 ctx.Ctx, id domain.AccountId) (*account.Account, error) {
	ret := _m.Called(_a0, id)

	var r0 *account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Account)
	}
	return r0, ret.Error(1)
}

// LinkPayout provides a mock function with given fields: _a0, id, address
func (_m *Repo) LinkPayout(_a0 ctx.Ctx, id domain.AccountId, address domain.Address) (*account.Account, error) {
	ret := _m.Called(_a0, id, address)

	var r0 *account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Account)
	}
	return r0, ret.Error(1)
}
