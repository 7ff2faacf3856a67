package mocks

import (
	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
	item "github.com/x-xyz/marketcore/domain/item"
)

// Repo is a mock type for the Repo type
type Repo struct {
	mock.Mock
}

// FindAll provides a mock function with given fields: _a0, opts
func (_m *Repo) FindAll(_a0 ctx.Ctx, opts ...item.FindAllOptionsFunc) ([]*item.Item, error) {
	_va := make([]interface{}, len(opts))
	for _i := range opts {
		_va[_i] = opts[_i]
	}
	var _ca []interface{}
	_ca = append(_ca, _a0)
	_ca = append(_ca, _va...)
	ret := _m.Called(_ca...)

	var r0 []*item.Item
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*item.Item)
	}
	return r0, ret.Error(1)
}

// FindOne provides a mock function with given fields: _a0, id
func (_m *Repo) FindOne(_a0 ctx.Ctx, id string) (*item.Item, error) {
	ret := _m.Called(_a0, id)

	var r0 *item.Item
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*item.Item)
	}
	return r0, ret.Error(1)
}

// Insert provides a mock function with given fields: _a0, _a1
func (_m *Repo) Insert(_a0 ctx.Ctx, _a1 *item.Item) error {
	ret := _m.Called(_a0, _a1)
	return ret.Error(0)
}

// Save provides a mock function with given fields: _a0, _a1
func (_m *Repo) Save(_a0 ctx.Ctx, _a1 *item.Item) error {
	ret := _m.Called(_a0, _a1)
	return ret.Error(0)
}
