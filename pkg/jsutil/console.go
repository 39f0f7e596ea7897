//go:build js && wasm

// Package jsutil provides general functionality for any application running on wasm.
package jsutil

import (
	"fmt"
	"syscall/js"
)

// Console writes levelled messages to the browser console.
type Console struct {
	// Prefix is written before every message.
	Prefix string
}

// NewConsole creates a console logger.
func NewConsole(prefix string) Console {
	return Console{Prefix: prefix}
}

// Log console.log
func (c Console) Log(args ...any) {
	c.call("log", args)
}

// Warn console.warn
func (c Console) Warn(args ...any) {
	c.call("warn", args)
}

// Error console.error
func (c Console) Error(args ...any) {
	c.call("error", args)
}

func (c Console) call(method string, args []any) {
	values := make([]any, 0, len(args)+1)
	if c.Prefix != "" {
		values = append(values, c.Prefix)
	}
	for _, arg := range args {
		values = append(values, toJS(arg))
	}
	js.Global().Get("console").Call(method, values...)
}

// toJS converts values js.ValueOf cannot handle to strings.
func toJS(v any) any {
	switch v := v.(type) {
	case nil, js.Value, js.Func, string, bool, int, int64, float64:
		return v
	case Valuer:
		return v.JSValue()
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}
