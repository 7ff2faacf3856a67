package mocks

import (
	time "time"

	mock "github.com/stretchr/testify/mock"
	ctx "github.com/x-xyz/marketcore/base/ctx"
)

// Service is a mock type for the Service type
type Service struct {
	mock.Mock
}

// Del provides a mock function with given fields: c, ks
func (_m *Service) Del(c ctx.Ctx, ks ...string) (int, error) {
	_va := make([]interface{}, len(ks))
	for _i := range ks {
		_va[_i] = ks[_i]
	}
	var _ca []interface{}
	_ca = append(_ca, c)
	_ca = append(_ca, _va...)
	ret := _m.Called(_ca...)

	return ret.Int(0), ret.Error(1)
}

// Get provides a mock function with given fields: c, key
func (_m *Service) Get(c ctx.Ctx, key string) ([]byte, error) {
	ret := _m.Called(c, key)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// Ping provides a mock function with given fields: c
func (_m *Service) Ping(c ctx.Ctx) error {
	ret := _m.Called(c)
	return ret.Error(0)
}

// Set provides a mock function with given fields: c, key, val, ttl
func (_m *Service) Set(c ctx.Ctx, key string, val []byte, ttl time.Duration) error {
	ret := _m.Called(c, key, val, ttl)
	return ret.Error(0)
}

// TTL provides a mock function with given fields: c, key
func (_m *Service) TTL(c ctx.Ctx, key string) (int, error) {
	ret := _m.Called(c, key)
	return ret.Int(0), ret.Error(1)
}
