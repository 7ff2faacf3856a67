package goroutine

import (
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/utils"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type recoverableGoOptions struct {
	name           string
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(panic interface{}, stack []byte)
}

type RecoverableGoOption func(*recoverableGoOptions)

// WithName tags the panic log
func WithName(name string) RecoverableGoOption {
	return func(o *recoverableGoOptions) { o.name = name }
}

func WithBeforeStart(f func()) RecoverableGoOption {
	return func(o *recoverableGoOptions) { o.beforeStart = f }
}

func WithAfterEnded(f func()) RecoverableGoOption {
	return func(o *recoverableGoOptions) { o.afterEnded = f }
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOption {
	return func(o *recoverableGoOptions) { o.afterRecovered = f }
}

// RecoverableGo runs f in a goroutine. The returned channel yields the panic
// if f panicked, otherwise it is closed when f returns.
func RecoverableGo(f func(), opts ...RecoverableGoOption) <-chan *PanicEvent {
	o := recoverableGoOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if o.afterEnded != nil {
				o.afterEnded()
			}

			p := recover()
			if p == nil {
				close(panicChan)
				return
			}

			stack := utils.Stack(3)
			log.Log().WithFields(log.Fields{
				"name":  o.name,
				"err":   p,
				"stack": string(stack),
			}).Error("panic")

			if o.afterRecovered != nil {
				o.afterRecovered(p, stack)
			}
			panicChan <- &PanicEvent{p, stack}
		}()

		if o.beforeStart != nil {
			o.beforeStart()
		}

		f()
	}()

	return panicChan
}
