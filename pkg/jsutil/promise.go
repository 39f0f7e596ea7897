//go:build js && wasm

package jsutil

import (
	"context"
	"sync"
	"syscall/js"
)

type settled struct {
	value js.Value
	err   error
}

// Await blocks until promise settles or ctx is done.
//
// The callbacks stay registered until the promise settles, even when ctx
// is done first.
func Await(ctx context.Context, promise js.Value) (js.Value, error) {
	result := make(chan settled, 1)

	var (
		onFulfilled js.Func
		onRejected  js.Func
		once        sync.Once
	)
	release := func() {
		once.Do(func() {
			onFulfilled.Release()
			onRejected.Release()
		})
	}

	onFulfilled = js.FuncOf(func(_ js.Value, args []js.Value) any {
		result <- settled{value: firstArg(args)}
		go release()
		return nil
	})
	onRejected = js.FuncOf(func(_ js.Value, args []js.Value) any {
		result <- settled{err: rejection(firstArg(args))}
		go release()
		return nil
	})

	if err := Try(func() { promise.Call("then", onFulfilled, onRejected) }); err != nil {
		release()
		return js.Undefined(), err
	}

	select {
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	case r := <-result:
		return r.value, r.err
	}
}

func firstArg(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

func rejection(reason js.Value) error {
	if reason.Type() == js.TypeObject {
		return ErrRejected.Wrap(js.Error{Value: reason}, "promise")
	}
	return ErrRejected.New("promise: %s", reason.String())
}
