//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/mgnsk/turnitup/pkg/boost"
	"github.com/mgnsk/turnitup/pkg/jsutil"
)

// SessionStorage is window.sessionStorage, which lives as long as the tab.
// Access throws in sandboxed and opaque origin documents.
type SessionStorage struct{}

var _ boost.ItemStorage = SessionStorage{}

// GetItem reads key.
func (SessionStorage) GetItem(key string) (value string, ok bool, err error) {
	err = jsutil.Try(func() {
		v := js.Global().Get("sessionStorage").Call("getItem", key)
		if !jsutil.IsNullish(v) {
			value, ok = v.String(), true
		}
	})
	return value, ok, err
}

// SetItem writes key.
func (SessionStorage) SetItem(key, value string) error {
	return jsutil.Try(func() {
		js.Global().Get("sessionStorage").Call("setItem", key, value)
	})
}
