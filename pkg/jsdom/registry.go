//go:build js && wasm

package jsdom

import (
	"sync"
	"syscall/js"

	"github.com/mgnsk/turnitup/pkg/boost"
	"github.com/mgnsk/turnitup/pkg/jsutil"
)

// WeakRegistry keeps bindings in a JS WeakMap keyed by the element, so a
// binding is collected together with its element.
type WeakRegistry struct {
	sources  js.Value
	rejected js.Value

	mu    sync.Mutex
	bound int
}

var _ boost.Registry = &WeakRegistry{}

// NewWeakRegistry creates an empty registry.
func NewWeakRegistry() *WeakRegistry {
	return &WeakRegistry{
		sources:  js.Global().Get("WeakMap").New(),
		rejected: js.Global().Get("WeakSet").New(),
	}
}

// Bound reports whether el is routed through the graph.
func (r *WeakRegistry) Bound(el boost.MediaElement) bool {
	v, ok := el.(jsutil.Valuer)
	return ok && r.sources.Call("has", v.JSValue()).Bool()
}

// Bind records the source node of el.
func (r *WeakRegistry) Bind(el boost.MediaElement, src boost.SourceNode) {
	v, ok := el.(jsutil.Valuer)
	if !ok || r.Bound(el) {
		return
	}

	var node any = true
	if s, ok := src.(jsutil.Valuer); ok {
		node = s.JSValue()
	}
	r.sources.Call("set", v.JSValue(), node)

	r.mu.Lock()
	r.bound++
	r.mu.Unlock()
}

// Rejected reports whether el failed to attach.
func (r *WeakRegistry) Rejected(el boost.MediaElement) bool {
	v, ok := el.(jsutil.Valuer)
	return ok && r.rejected.Call("has", v.JSValue()).Bool()
}

// Reject records that el failed to attach.
func (r *WeakRegistry) Reject(el boost.MediaElement) {
	if v, ok := el.(jsutil.Valuer); ok {
		r.rejected.Call("add", v.JSValue())
	}
}

// Len returns the number of elements ever bound. Collected elements are
// still counted.
func (r *WeakRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bound
}
