//go:build js && wasm

package jsutil

import (
	"syscall/js"

	"github.com/joomcode/errorx"
)

var (
	// Errors is the js error namespace.
	Errors = errorx.NewNamespace("js")
	// ErrException is a JS exception thrown into Go.
	ErrException = Errors.NewType("exception")
	// ErrRejected is a rejected promise.
	ErrRejected = Errors.NewType("rejected")
)

// Valuer is implemented by Go wrappers of JS objects.
type Valuer interface {
	JSValue() js.Value
}

// Try calls fn and returns a JS exception thrown by it as an error.
func Try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = ErrException.Wrap(jsErr, "uncaught")
		}
	}()

	fn()

	return nil
}

// Stringify encodes v with JSON.stringify.
func Stringify(v js.Value) (s string, err error) {
	err = Try(func() {
		s = js.Global().Get("JSON").Call("stringify", v).String()
	})
	return s, err
}

// Parse decodes s with JSON.parse.
func Parse(s string) (v js.Value, err error) {
	err = Try(func() {
		v = js.Global().Get("JSON").Call("parse", s)
	})
	return v, err
}

// IsNullish reports whether v is null or undefined.
func IsNullish(v js.Value) bool {
	return v.IsUndefined() || v.IsNull()
}
