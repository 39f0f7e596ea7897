//go:build js && wasm

// Package popupview renders the popup and forwards its controls.
package popupview

import (
	"context"
	"strconv"
	"syscall/js"

	"github.com/mgnsk/turnitup/pkg/panel"
)

const (
	speakerIcon = `<svg width="12" height="12" viewBox="0 0 24 24" fill="currentColor"><path d="M3 9v6h4l5 5V4L7 9H3zm13.5 3c0-1.77-1.02-3.29-2.5-4.03v8.05c1.48-.73 2.5-2.25 2.5-4.02zM14 3.23v2.06c2.89.86 5 3.54 5 6.71s-2.11 5.85-5 6.71v2.06c4.01-.91 7-4.49 7-8.77s-2.99-7.86-7-8.77z"/></svg>`
	muteIcon    = `<svg width="12" height="12" viewBox="0 0 24 24" fill="currentColor"><path d="M16.5 12c0-1.77-1.02-3.29-2.5-4.03v2.21l2.45 2.45c.03-.2.05-.41.05-.63zm2.5 0c0 .94-.2 1.82-.54 2.64l1.51 1.51C20.63 14.91 21 13.5 21 12c0-4.28-2.99-7.86-7-8.77v2.06c2.89.86 5 3.54 5 6.71zM4.27 3L3 4.27 7.73 9H3v6h4l5 5v-6.73l4.25 4.25c-.67.52-1.42.93-2.25 1.18v2.06c1.38-.31 2.63-.95 3.69-1.81L19.73 21 21 19.73 4.27 3zM12 4L9.91 6.09 12 8.18V4z"/></svg>`
)

var tierClass = map[panel.Tier]string{
	panel.TierLow:  "active-low",
	panel.TierMid:  "active-mid",
	panel.TierHigh: "active-high",
}

// View is the popup document.
type View struct {
	doc      js.Value
	slider   js.Value
	display  js.Value
	status   js.Value
	mute     js.Value
	reset    js.Value
	presets  []js.Value
	segments []js.Value
}

var _ panel.View = &View{}

// New binds the popup elements and builds the meter.
func New() *View {
	doc := js.Global().Get("document")
	byID := func(id string) js.Value {
		return doc.Call("getElementById", id)
	}

	v := &View{
		doc:     doc,
		slider:  byID("gainSlider"),
		display: byID("gainDisplay"),
		status:  byID("status"),
		mute:    byID("muteBtn"),
		reset:   byID("resetBtn"),
	}

	presets := doc.Call("querySelectorAll", ".preset-btn-small")
	for i := 0; i < presets.Length(); i++ {
		v.presets = append(v.presets, presets.Index(i))
	}

	meter := byID("meter")
	meter.Set("innerHTML", "")
	for i := 0; i < panel.MeterSegments; i++ {
		seg := doc.Call("createElement", "div")
		seg.Set("className", "meter-segment")
		meter.Call("appendChild", seg)
		v.segments = append(v.segments, seg)
	}

	return v
}

// Render shows d.
func (v *View) Render(d panel.Display) {
	v.display.Set("textContent", d.Label)
	v.slider.Set("value", d.Gain)

	for i, seg := range v.segments {
		seg.Set("className", "meter-segment")
		if class, ok := tierClass[d.Meter[i]]; ok {
			seg.Get("classList").Call("add", class)
		}
	}

	if d.Muted {
		v.mute.Get("classList").Call("add", "active")
		v.mute.Set("innerHTML", muteIcon+" <span>UNMUTE</span>")
	} else {
		v.mute.Get("classList").Call("remove", "active")
		v.mute.Set("innerHTML", speakerIcon+" <span>MUTE</span>")
	}
}

// Status shows s.
func (v *View) Status(s panel.Status) {
	v.status.Set("textContent", s.Text)
	v.status.Set("className", "status")
	if s.Level != panel.LevelInfo {
		v.status.Get("classList").Call("add", string(s.Level))
	}
}

// Disable disables every control.
func (v *View) Disable() {
	for _, el := range append([]js.Value{v.slider, v.mute, v.reset}, v.presets...) {
		el.Set("disabled", true)
	}
}

// Bind forwards control events to p. Handlers run in their own goroutines.
func (v *View) Bind(ctx context.Context, p *panel.Panel) {
	listen(v.slider, "input", func(target js.Value) {
		if gain, err := strconv.ParseFloat(target.Get("value").String(), 64); err == nil {
			p.SlideTo(ctx, gain)
		}
	})

	for _, btn := range v.presets {
		btn := btn
		listen(btn, "click", func(js.Value) {
			if gain, err := strconv.ParseFloat(btn.Get("dataset").Get("gain").String(), 64); err == nil {
				p.Preset(ctx, gain)
			}
		})
	}

	listen(v.mute, "click", func(js.Value) { p.ToggleMute(ctx) })
	listen(v.reset, "click", func(js.Value) { p.Reset(ctx) })
}

func listen(el js.Value, event string, fn func(target js.Value)) {
	el.Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
		target := el
		if len(args) > 0 {
			target = args[0].Get("currentTarget")
		}
		go fn(target)
		return nil
	}))
}
