//go:build js && wasm

// Package chromeext binds the extension APIs: runtime messaging, tab
// messaging and tab queries.
package chromeext

import (
	"syscall/js"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/turnitup/pkg/jsutil"
)

var (
	// Errors is the chromeext error namespace.
	Errors = errorx.NewNamespace("chromeext")
	// ErrJS is a failed extension API call.
	ErrJS = Errors.NewType("js")
	// ErrNoResponse means the receiving end did not answer.
	ErrNoResponse = Errors.NewType("no_response")
)

// api returns chrome.<path...>.
func api(path ...string) (js.Value, error) {
	v := js.Global().Get("chrome")
	if jsutil.IsNullish(v) {
		return js.Undefined(), ErrJS.New("chrome is not defined")
	}
	for _, name := range path {
		v = v.Get(name)
		if jsutil.IsNullish(v) {
			return js.Undefined(), ErrJS.New("chrome.%s is not available", name)
		}
	}
	return v, nil
}

// call calls a promise returning extension method.
func call(obj js.Value, method string, args ...any) (promise js.Value, err error) {
	err = jsutil.Try(func() {
		promise = obj.Call(method, args...)
	})
	if err != nil {
		return js.Undefined(), ErrJS.Wrap(err, "%s", method)
	}
	return promise, nil
}
