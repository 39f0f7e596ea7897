//go:build js && wasm

// Package jsdom binds the page document.
package jsdom

import (
	"context"
	"strings"
	"syscall/js"

	"github.com/mgnsk/turnitup/pkg/boost"
)

const mediaSelector = "audio, video"

// Document is the page document.
type Document struct {
	value js.Value
}

var _ boost.Document = Document{}

// New wraps the global document.
func New() Document {
	return Document{value: js.Global().Get("document")}
}

// Media returns every audio and video element in document order.
func (d Document) Media() []boost.MediaElement {
	return queryMedia(d.value)
}

// MediaCount counts audio and video elements.
func (d Document) MediaCount() int {
	return d.value.Call("querySelectorAll", mediaSelector).Length()
}

// ObserveAdded watches the whole document for inserted elements.
func (d Document) ObserveAdded(fn func(added []boost.Node)) (stop func()) {
	callback := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var added []boost.Node
		records := args[0]
		for i := 0; i < records.Length(); i++ {
			nodes := records.Index(i).Get("addedNodes")
			for j := 0; j < nodes.Length(); j++ {
				n := nodes.Index(j)
				if n.Get("nodeType").Int() == elementNode {
					added = append(added, Element{value: n})
				}
			}
		}
		if len(added) > 0 {
			go fn(added)
		}
		return nil
	})

	observer := js.Global().Get("MutationObserver").New(callback)
	observer.Call("observe", root(d.value), map[string]any{
		"childList": true,
		"subtree":   true,
	})

	return func() {
		observer.Call("disconnect")
		callback.Release()
	}
}

// Once registers a capturing listener that is removed after its first call.
func (d Document) Once(event string, fn func()) {
	var listener js.Func
	listener = js.FuncOf(func(js.Value, []js.Value) any {
		listener.Release()
		go fn()
		return nil
	})
	d.value.Call("addEventListener", event, listener, map[string]any{
		"once":    true,
		"capture": true,
	})
}

// WhenReady blocks until DOMContentLoaded.
func (d Document) WhenReady(ctx context.Context) error {
	if d.value.Get("readyState").String() != "loading" {
		return nil
	}

	ready := make(chan struct{})
	d.Once("DOMContentLoaded", func() { close(ready) })

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ready:
		return nil
	}
}

const elementNode = 1

// Element is a DOM element.
type Element struct {
	value js.Value
}

// AsMedia returns e as a media element if it is one.
func (e Element) AsMedia() (boost.MediaElement, bool) {
	switch strings.ToUpper(e.value.Get("tagName").String()) {
	case "AUDIO", "VIDEO":
		return Media{value: e.value}, true
	default:
		return nil, false
	}
}

// MediaDescendants returns media elements nested in e.
func (e Element) MediaDescendants() []boost.MediaElement {
	return queryMedia(e.value)
}

// Media is an audio or video element.
type Media struct {
	value js.Value
}

// JSValue returns the element.
func (m Media) JSValue() js.Value {
	return m.value
}

// OnPlay calls fn on every play event. The listener lives as long as the
// element.
func (m Media) OnPlay(fn func()) {
	m.value.Call("addEventListener", "play", js.FuncOf(func(js.Value, []js.Value) any {
		go fn()
		return nil
	}))
}

func queryMedia(parent js.Value) []boost.MediaElement {
	list := parent.Call("querySelectorAll", mediaSelector)
	media := make([]boost.MediaElement, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		media = append(media, Media{value: list.Index(i)})
	}
	return media
}

func root(doc js.Value) js.Value {
	if el := doc.Get("documentElement"); !el.IsNull() {
		return el
	}
	return doc
}
