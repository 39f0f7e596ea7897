// Package panel drives the popup: it turns user actions into requests to the
// content script of the active tab and renders the confirmed state.
package panel

import (
	"context"
	"strings"
	"sync"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/turnitup/pkg/protocol"
)

var (
	// Errors is the panel error namespace.
	Errors = errorx.NewNamespace("panel")
	// ErrTransport means the content script could not be reached.
	ErrTransport = Errors.NewType("transport")
	// ErrNoTab means the active tab could not be resolved.
	ErrNoTab = Errors.NewType("no_tab")
)

// Tab is a browser tab.
type Tab struct {
	ID  int
	URL string
}

// Tabs resolves the active tab.
type Tabs interface {
	Active(ctx context.Context) (Tab, error)
}

// Transport sends a request to the content script of a tab.
type Transport interface {
	Send(ctx context.Context, tabID int, req protocol.Request) (protocol.Response, error)
}

// View renders the popup.
type View interface {
	Render(d Display)
	Status(s Status)
	// Disable disables every control.
	Disable()
}

// Logger receives diagnostics.
type Logger interface {
	Warn(args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(...any) {}

// Panel is the popup controller.
type Panel struct {
	cfg       Config
	tabs      Tabs
	transport Transport
	view      View
	log       Logger

	mu    sync.Mutex
	tab   Tab
	ready bool
	gain  float64
	// audible is the last confirmed gain above the mute threshold.
	audible float64
}

// New creates a panel. A nil logger discards output.
func New(cfg Config, tabs Tabs, transport Transport, view View, log Logger) *Panel {
	if log == nil {
		log = nopLogger{}
	}
	return &Panel{
		cfg:       cfg,
		tabs:      tabs,
		transport: transport,
		view:      view,
		log:       log,
		gain:      protocol.UnityGain,
		audible:   protocol.UnityGain,
	}
}

// Initialize resolves the active tab and loads its state. It reports whether
// the controls are usable.
func (p *Panel) Initialize(ctx context.Context) bool {
	tab, err := p.tabs.Active(ctx)
	if err != nil {
		p.log.Warn("could not resolve active tab", ErrNoTab.Wrap(err, "query tabs"))
		p.view.Status(StatusNoActiveTab)
		p.view.Disable()
		return false
	}

	if p.Privileged(tab.URL) {
		p.view.Status(StatusCannotBoost)
		p.view.Disable()
		return false
	}

	p.mu.Lock()
	p.tab = tab
	p.ready = true
	p.mu.Unlock()

	p.RefreshStatus(ctx)

	return true
}

// Privileged reports whether url belongs to a page content scripts cannot
// run in.
func (p *Panel) Privileged(url string) bool {
	for _, prefix := range p.cfg.PrivilegedPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// Gain returns the last confirmed gain.
func (p *Panel) Gain() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gain
}

// Muted reports whether the confirmed gain is at or below the mute threshold.
func (p *Panel) Muted() bool {
	return p.Gain() <= MuteThreshold
}

// RefreshStatus asks the content script for its state.
func (p *Panel) RefreshStatus(ctx context.Context) {
	resp, ok := p.send(ctx, protocol.NewGetStatus())
	if !ok {
		p.view.Status(StatusReloadPage)
		return
	}

	p.show(resp.Gain)
	p.view.Status(statusOf(resp))
}

// ApplyGain asks the content script to apply gain and renders the gain it
// confirms.
func (p *Panel) ApplyGain(ctx context.Context, gain float64) {
	if !p.isReady() {
		return
	}

	resp, ok := p.send(ctx, protocol.NewSetGain(gain))
	if !ok {
		p.view.Status(StatusNoMediaDetected)
		return
	}
	if !resp.Success {
		return
	}

	p.show(resp.Gain)
	p.view.Status(StatusVolume(resp.Gain))
}

// SlideTo handles slider input. The requested gain is rendered at once and
// replaced by the confirmed one.
func (p *Panel) SlideTo(ctx context.Context, gain float64) {
	if !p.isReady() {
		return
	}
	p.view.Render(Derive(gain))
	p.ApplyGain(ctx, gain)
}

// Preset applies a preset gain.
func (p *Panel) Preset(ctx context.Context, gain float64) {
	p.ApplyGain(ctx, gain)
}

// Reset restores unity gain.
func (p *Panel) Reset(ctx context.Context) {
	p.ApplyGain(ctx, protocol.UnityGain)
}

// ToggleMute mutes, or restores the last audible gain.
func (p *Panel) ToggleMute(ctx context.Context) {
	p.mu.Lock()
	target := protocol.MinGain
	if p.gain <= MuteThreshold {
		target = p.audible
	} else {
		p.audible = p.gain
	}
	p.mu.Unlock()

	p.ApplyGain(ctx, target)
}

func (p *Panel) isReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *Panel) send(ctx context.Context, req protocol.Request) (protocol.Response, bool) {
	p.mu.Lock()
	tab, ready := p.tab, p.ready
	p.mu.Unlock()

	if !ready {
		return protocol.Response{}, false
	}

	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := p.transport.Send(ctx, tab.ID, req)
	if err != nil {
		p.log.Warn("request failed:", ErrTransport.Wrap(err, "%s to tab %d", req.Type, tab.ID))
		return protocol.Response{}, false
	}

	return resp, true
}

func (p *Panel) show(gain float64) {
	p.mu.Lock()
	p.gain = gain
	if gain > MuteThreshold {
		p.audible = gain
	}
	p.mu.Unlock()

	p.view.Render(Derive(gain))
}
