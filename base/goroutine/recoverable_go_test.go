package goroutine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverableGo(t *testing.T) {
	res := []string{}

	ev := <-RecoverableGo(
		func() {
			res = append(res, "run task")
			panic("panic")
		},
		WithName("sweeper"),
		WithBeforeStart(func() {
			res = append(res, "before start")
		}),
		WithAfterEnded(func() {
			res = append(res, "after ended")
		}),
		WithAfterRecovered(func(p interface{}, stack []byte) {
			res = append(res, "after recovered")
			res = append(res, p.(string))
		}),
	)

	req := require.New(t)
	req.NotNil(ev)
	req.Equal("panic", ev.Panic)
	req.NotEmpty(ev.Stack)
	req.Equal([]string{
		"before start",
		"run task",
		"after ended",
		"after recovered",
		"panic",
	}, res)
}

func TestRecoverableGoNoPanic(t *testing.T) {
	ran := false
	ev, ok := <-RecoverableGo(func() { ran = true })
	require.False(t, ok)
	require.Nil(t, ev)
	require.True(t, ran)
}
