package mocks

import (
	big "math/big"

	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	domain "github.com/x-xyz/marketcore/domain"
	settlement "github.com/x-xyz/marketcore/domain/settlement"
)

// Verifier is a mock type for the Verifier type
type Verifier struct {
	mock.Mock
}

// Verify provides a mock function with given fields: _a0, txRef, payment
func (_m *Verifier) Verify(_a0 ctx.Ctx, txRef domain.TxHash, payment settlement.Payment) (*settlement.Verification, error) {
	ret := _m.Called(_a0, txRef, payment)

	var r0 *settlement.Verification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*settlement.Verification)
	}
	return r0, ret.Error(1)
}

// VerifyApproximateTransfer provides a mock function with given fields: _a0, txRef, from, to, amount
func (_m *Verifier) VerifyApproximateTransfer(_a0 ctx.Ctx, txRef domain.TxHash, from domain.Address, to domain.Address, amount *big.Int) (*settlement.Verification, error) {
	ret := _m.Called(_a0, txRef, from, to, amount)

	var r0 *settlement.Verification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*settlement.Verification)
	}
	return r0, ret.Error(1)
}

// VerifyExactTransfer provides a mock function with given fields: _a0, txRef, from, to, amount
func (_m *Verifier) VerifyExactTransfer(_a0 ctx.Ctx, txRef domain.TxHash, from domain.Address, to domain.Address, amount *big.Int) (*settlement.Verification, error) {
	ret := _m.Called(_a0, txRef, from, to, amount)

	var r0 *settlement.Verification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*settlement.Verification)
	}
	return r0, ret.Error(1)
}
