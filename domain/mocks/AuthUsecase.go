package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
)

// AuthUsecase is a mock type for the AuthUsecase type
type AuthUsecase struct {
	mock.Mock
}

// ParseToken provides a mock function with given fields: _a0, token
func (_m *AuthUsecase) ParseToken(_a0 ctx.Ctx, token string) (domain.AccountId, error) {
	ret := _m.Called(_a0, token)
	return ret.Get(0).(domain.AccountId), ret.Error(1)
}

// SignToken provides a mock function with given fields: _a0, accountId, address, signature
func (_m *AuthUsecase) SignToken(_a0 ctx.Ctx, accountId domain.AccountId, address domain.Address, signature string) (string, error) {
	ret := _m.Called(_a0, accountId, address, signature)
	return ret.String(0), ret.Error(1)
}
