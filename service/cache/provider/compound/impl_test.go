package compound

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/service/cache/provider"
	"github.com/x-xyz/marketcore/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	lyr0 provider.Provider
	lyr1 provider.Provider
	im   *impl
}

func (ts *testsuite) SetupTest() {
	ts.lyr0 = primitive.NewPrimitive("layer 0", 1)
	ts.lyr1 = primitive.NewPrimitive("layer 1", 1)
	ts.im = NewCompound([]provider.Provider{ts.lyr0, ts.lyr1}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSet() {
	k := "key"
	v := []byte("value")

	ts.NoError(ts.im.Set(mockCtx, k, v, time.Minute))
	for _, lyr := range []provider.Provider{ts.lyr0, ts.lyr1} {
		r, _, e := lyr.Get(mockCtx, k)
		ts.NoError(e)
		ts.Equal(v, r)
	}
}

func (ts *testsuite) TestGetFillsFrontLayer() {
	k := "key"
	v := []byte("value")
	ts.NoError(ts.lyr1.Set(mockCtx, k, v, time.Minute))

	_, _, e := ts.lyr0.Get(mockCtx, k)
	ts.Equal(provider.ErrNotFound, e)

	r, ttl, e := ts.im.Get(mockCtx, k)
	ts.NoError(e)
	ts.Equal(v, r)
	ts.True(ttl > 0)

	r, _, e = ts.lyr0.Get(mockCtx, k)
	ts.NoError(e)
	ts.Equal(v, r)
}

func (ts *testsuite) TestMissAndDel() {
	_, _, e := ts.im.Get(mockCtx, "missing")
	ts.Equal(provider.ErrNotFound, e)

	ts.NoError(ts.im.Set(mockCtx, "key", []byte("value"), time.Minute))
	ts.NoError(ts.im.Del(mockCtx, "key"))
	_, _, e = ts.im.Get(mockCtx, "key")
	ts.Equal(provider.ErrNotFound, e)
}

type brokenLayer struct{}

var errBroken = errors.New("connection refused")

func (brokenLayer) Get(ctx.Ctx, string) ([]byte, time.Duration, error) { return nil, 0, errBroken }
func (brokenLayer) Set(ctx.Ctx, string, []byte, time.Duration) error   { return errBroken }
func (brokenLayer) Del(ctx.Ctx, string) error                          { return errBroken }

func (ts *testsuite) TestBrokenLayer() {
	im := NewCompound([]provider.Provider{ts.lyr0, brokenLayer{}, ts.lyr1})
	v := []byte("value")

	// the write still reaches the healthy layers
	ts.ErrorIs(im.Set(mockCtx, "key", v, time.Minute), errBroken)
	ts.NoError(ts.lyr0.Del(mockCtx, "key"))

	r, _, e := im.Get(mockCtx, "key")
	ts.NoError(e)
	ts.Equal(v, r)

	r, _, e = ts.lyr0.Get(mockCtx, "key")
	ts.NoError(e)
	ts.Equal(v, r)
}
