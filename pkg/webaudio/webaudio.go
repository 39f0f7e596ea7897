//go:build js && wasm

// Package webaudio implements the audio graph on the Web Audio API.
package webaudio

import (
	"context"
	"syscall/js"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/turnitup/pkg/boost"
	"github.com/mgnsk/turnitup/pkg/jsutil"
)

var (
	// Errors is the webaudio error namespace.
	Errors = errorx.NewNamespace("webaudio")
	// ErrUnsupported means the page has no AudioContext constructor.
	ErrUnsupported = Errors.NewType("unsupported")
	// ErrNotElement means a media element has no JS object behind it.
	ErrNotElement = Errors.NewType("not_element")
	// ErrForeignNode means a node from another backend was connected.
	ErrForeignNode = Errors.NewType("foreign_node")
)

// Backend creates audio contexts in the page.
type Backend struct{}

var _ boost.AudioBackend = Backend{}

// NewContext creates an AudioContext, falling back to the prefixed
// constructor.
func (Backend) NewContext() (boost.AudioContext, error) {
	ctor := js.Global().Get("AudioContext")
	if jsutil.IsNullish(ctor) {
		ctor = js.Global().Get("webkitAudioContext")
	}
	if jsutil.IsNullish(ctor) {
		return nil, ErrUnsupported.New("no AudioContext constructor")
	}

	var value js.Value
	if err := jsutil.Try(func() { value = ctor.New() }); err != nil {
		return nil, errorx.Decorate(err, "new AudioContext")
	}

	return &Context{value: value}, nil
}

// Context is an AudioContext.
type Context struct {
	value js.Value
}

// State returns the context state.
func (c *Context) State() boost.State {
	return boost.State(c.value.Get("state").String())
}

// Resume resumes the context. Browsers reject or never settle the promise
// without a prior user gesture.
func (c *Context) Resume(ctx context.Context) error {
	var promise js.Value
	if err := jsutil.Try(func() { promise = c.value.Call("resume") }); err != nil {
		return err
	}
	_, err := jsutil.Await(ctx, promise)
	return err
}

// NewGain creates a gain node.
func (c *Context) NewGain() (boost.GainNode, error) {
	var node js.Value
	if err := jsutil.Try(func() { node = c.value.Call("createGain") }); err != nil {
		return nil, errorx.Decorate(err, "createGain")
	}
	return &Gain{ctx: c.value, value: node}, nil
}

// NewMediaSource taps el.
func (c *Context) NewMediaSource(el boost.MediaElement) (boost.SourceNode, error) {
	v, ok := el.(jsutil.Valuer)
	if !ok {
		return nil, ErrNotElement.New("%T", el)
	}

	var node js.Value
	if err := jsutil.Try(func() { node = c.value.Call("createMediaElementSource", v.JSValue()) }); err != nil {
		return nil, errorx.Decorate(err, "createMediaElementSource")
	}
	return &Source{value: node}, nil
}

// Gain is a GainNode.
type Gain struct {
	ctx   js.Value
	value js.Value
}

// SetValue sets the gain.
func (g *Gain) SetValue(v float64) {
	g.value.Get("gain").Set("value", v)
}

// ConnectDestination connects the node to the speakers.
func (g *Gain) ConnectDestination() error {
	return jsutil.Try(func() {
		g.value.Call("connect", g.ctx.Get("destination"))
	})
}

// Source is a MediaElementAudioSourceNode.
type Source struct {
	value js.Value
}

// Connect routes the source into g.
func (s *Source) Connect(g boost.GainNode) error {
	gain, ok := g.(*Gain)
	if !ok {
		return ErrForeignNode.New("%T", g)
	}
	return jsutil.Try(func() {
		s.value.Call("connect", gain.value)
	})
}

// JSValue returns the MediaElementAudioSourceNode.
func (s *Source) JSValue() js.Value {
	return s.value
}
