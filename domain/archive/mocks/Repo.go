package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"

	archive "github.com/x-xyz/marketcore/domain/archive"
)

// Repo is a mock type for the Repo type
type Repo struct {
	mock.Mock
}

// InitSchema provides a mock function with given fields: _a0
func (_m *Repo) InitSchema(_a0 ctx.Ctx) error {
	ret := _m.Called(_a0)

	var r0 error
	if rf, ok := ret.Get(0).(func(ctx.Ctx) error); ok {
		r0 = rf(_a0)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// Insert provides a mock function with given fields: _a0, r
func (_m *Repo) Insert(_a0 ctx.Ctx, r *archive.Record) (bool, error) {
	ret := _m.Called(_a0, r)

	var r0 bool
	if rf, ok := ret.Get(0).(func(ctx.Ctx, *archive.Record) bool); ok {
		r0 = rf(_a0, r)
	} else {
		r0 = ret.Get(0).(bool)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx.Ctx, *archive.Record) error); ok {
		r1 = rf(_a0, r)
	} else {
		r1 = ret.Error(1)
	}
	return r0, r1
}
