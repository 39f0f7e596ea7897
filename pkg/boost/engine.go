// Package boost routes the audio of every media element on a page through a
// single shared gain node and keeps the gain in sync with the popup.
package boost

import (
	"context"
	"sync"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/turnitup/pkg/protocol"
)

// Engine owns the amplification graph of a page.
//
// The audio context and gain node are created lazily, at most once. Media
// elements are tapped at most once and all share the gain node.
type Engine struct {
	cfg      Config
	audio    AudioBackend
	doc      Document
	store    Store
	registry Registry
	log      Logger

	mu      sync.Mutex
	actx    AudioContext
	gain    GainNode
	current float64
	// version counts accepted gain changes.
	version uint64

	persistMu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithRegistry overrides the default MapRegistry.
func WithRegistry(r Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine. Nothing touches the platform until the first
// operation that needs the graph.
func New(audio AudioBackend, doc Document, store Store, opts ...Option) *Engine {
	e := &Engine{
		cfg:     DefaultConfig(),
		audio:   audio,
		doc:     doc,
		store:   store,
		log:     nopLogger{},
		current: protocol.UnityGain,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewMapRegistry()
	}
	return e
}

// Start runs the content script startup sequence. The saved gain is loaded
// in the background. The mutation watch and all listeners stay installed
// until ctx is done.
func (e *Engine) Start(ctx context.Context) error {
	e.EnsureGraph()
	go e.LoadSavedGain(ctx)
	e.InstallGestureBootstrap(ctx)

	if err := e.doc.WhenReady(ctx); err != nil {
		return errorx.Decorate(err, "wait for document")
	}

	n := e.DiscoverAll(ctx)
	e.log.Log("attached media elements:", n, "bound:", e.registry.Len())
	e.ObserveMutations(ctx)

	return nil
}

// EnsureGraph creates the audio context and gain node if they do not exist.
// It reports false if the platform refused, in which case the next call
// tries again.
func (e *Engine) EnsureGraph() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureGraph()
}

func (e *Engine) ensureGraph() bool {
	if e.actx != nil {
		return true
	}

	actx, err := e.audio.NewContext()
	if err != nil {
		e.log.Error("failed to create AudioContext", ErrConstruction.Wrap(err, "new audio context"))
		return false
	}

	gain, err := actx.NewGain()
	if err == nil {
		gain.SetValue(e.current)
		err = gain.ConnectDestination()
	}
	if err != nil {
		e.log.Error("failed to create gain node", ErrConstruction.Wrap(err, "new gain node"))
		return false
	}

	e.actx = actx
	e.gain = gain

	return true
}

// State returns the audio context state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.actx == nil {
		return StateNotInitialized
	}
	return e.actx.State()
}

// ResumeIfSuspended resumes a suspended audio context. It blocks until the
// platform answers. A refusal is logged.
func (e *Engine) ResumeIfSuspended(ctx context.Context) {
	e.mu.Lock()
	actx := e.actx
	e.mu.Unlock()

	if actx == nil || actx.State() != StateSuspended {
		return
	}

	if err := actx.Resume(ctx); err != nil {
		e.log.Warn("could not resume AudioContext", ErrResumeDenied.Wrap(err, "resume"))
	}
}

// InstallGestureBootstrap resumes the audio context on the first user
// gesture of each configured kind.
func (e *Engine) InstallGestureBootstrap(ctx context.Context) {
	for _, event := range e.cfg.GestureEvents {
		e.doc.Once(event, func() {
			e.ResumeIfSuspended(ctx)
		})
	}
}

// Attach routes el through the gain node. It reports whether el was newly
// attached. Elements that are already bound or that failed before are left
// alone.
func (e *Engine) Attach(ctx context.Context, el MediaElement) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.registry.Bound(el) || e.registry.Rejected(el) {
		return false
	}

	if !e.ensureGraph() {
		return false
	}

	src, err := e.actx.NewMediaSource(el)
	if err == nil {
		err = src.Connect(e.gain)
	}
	if err != nil {
		e.registry.Reject(el)
		e.log.Warn("could not process media element", ErrAttach.Wrap(err, "tap media element"))
		return false
	}

	e.registry.Bind(el, src)
	el.OnPlay(func() {
		e.ResumeIfSuspended(ctx)
	})
	e.log.Log("processed media element")

	return true
}

// Bound reports whether el is routed through the gain node.
func (e *Engine) Bound(el MediaElement) bool {
	return e.registry.Bound(el)
}

// DiscoverAll attaches every media element currently in the document and
// returns how many were newly attached.
func (e *Engine) DiscoverAll(ctx context.Context) int {
	n := 0
	for _, el := range e.doc.Media() {
		if e.Attach(ctx, el) {
			n++
		}
	}
	return n
}

// ObserveMutations attaches media elements as they are added to the
// document, either directly or inside an added subtree.
func (e *Engine) ObserveMutations(ctx context.Context) {
	stop := e.doc.ObserveAdded(func(added []Node) {
		for _, node := range added {
			if el, ok := node.AsMedia(); ok {
				e.Attach(ctx, el)
			}
			for _, el := range node.MediaDescendants() {
				e.Attach(ctx, el)
			}
		}
	})
	context.AfterFunc(ctx, stop)
}
