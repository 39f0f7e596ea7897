// Package fakeaudio is an in-memory audio backend for tests.
package fakeaudio

import (
	"context"
	"errors"
	"sync"

	"github.com/mgnsk/turnitup/pkg/boost"
)

// ErrNoAudio is returned by a backend created with Unavailable.
var ErrNoAudio = errors.New("fakeaudio: no audio subsystem")

// ErrCaptured is returned when a media element is tapped twice.
var ErrCaptured = errors.New("fakeaudio: element already connected to a source node")

// ErrNotAllowed is returned by Resume while gestures are required.
var ErrNotAllowed = errors.New("fakeaudio: resume not allowed before a user gesture")

// Backend creates fake audio contexts.
type Backend struct {
	mu sync.Mutex
	// Err fails every NewContext call while set.
	Err error
	// Gated contexts start suspended.
	Gated bool
	// DenyResume makes Resume fail with ErrNotAllowed.
	DenyResume bool

	contexts []*Context
	refused  map[boost.MediaElement]error
}

var _ boost.AudioBackend = &Backend{}

// New creates a backend whose contexts start running.
func New() *Backend {
	return &Backend{refused: make(map[boost.MediaElement]error)}
}

// NewGated creates a backend whose contexts start suspended.
func NewGated() *Backend {
	b := New()
	b.Gated = true
	return b
}

// Unavailable creates a backend that cannot construct contexts.
func Unavailable() *Backend {
	b := New()
	b.Err = ErrNoAudio
	return b
}

// Refuse makes every tap of el fail with err, as for a cross-origin
// resource without CORS headers.
func (b *Backend) Refuse(el boost.MediaElement, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refused[el] = err
}

// SetErr sets or clears the construction error.
func (b *Backend) SetErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Err = err
}

// SetDenyResume sets whether Resume fails.
func (b *Backend) SetDenyResume(deny bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DenyResume = deny
}

// NewContext creates a context.
func (b *Backend) NewContext() (boost.AudioContext, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Err != nil {
		return nil, b.Err
	}

	state := boost.StateRunning
	if b.Gated {
		state = boost.StateSuspended
	}

	c := &Context{
		backend:  b,
		state:    state,
		captured: make(map[boost.MediaElement]*Source),
	}
	b.contexts = append(b.contexts, c)

	return c, nil
}

// Contexts returns every context created so far.
func (b *Backend) Contexts() []*Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Context(nil), b.contexts...)
}

func (b *Backend) refusal(el boost.MediaElement) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refused[el]
}

func (b *Backend) denyResume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.DenyResume
}

// Context is a fake audio context.
type Context struct {
	backend *Backend

	mu       sync.Mutex
	state    boost.State
	resumes  int
	gains    []*Gain
	sources  []*Source
	captured map[boost.MediaElement]*Source
}

// State returns the lifecycle state.
func (c *Context) State() boost.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Suspend moves the context to suspended, as the platform does on its own.
func (c *Context) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != boost.StateClosed {
		c.state = boost.StateSuspended
	}
}

// Close closes the context.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = boost.StateClosed
}

// Resume resumes a suspended context unless the backend denies it.
func (c *Context) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deny := c.backend.denyResume()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.resumes++
	if deny {
		return ErrNotAllowed
	}
	if c.state == boost.StateSuspended {
		c.state = boost.StateRunning
	}
	return nil
}

// Resumes returns the number of Resume calls.
func (c *Context) Resumes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumes
}

// NewGain creates a gain node with unity gain.
func (c *Context) NewGain() (boost.GainNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g := &Gain{value: 1}
	c.gains = append(c.gains, g)
	return g, nil
}

// Gains returns every gain node created so far.
func (c *Context) Gains() []*Gain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Gain(nil), c.gains...)
}

// NewMediaSource taps el. Each element can be tapped once.
func (c *Context) NewMediaSource(el boost.MediaElement) (boost.SourceNode, error) {
	if err := c.backend.refusal(el); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.captured[el]; ok {
		return nil, ErrCaptured
	}

	src := &Source{Element: el}
	c.captured[el] = src
	c.sources = append(c.sources, src)

	return src, nil
}

// Sources returns every source node created so far.
func (c *Context) Sources() []*Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Source(nil), c.sources...)
}

// Gain is a fake gain node.
type Gain struct {
	mu        sync.Mutex
	value     float64
	connected bool
}

// SetValue sets the gain.
func (g *Gain) SetValue(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = v
}

// Value returns the gain.
func (g *Gain) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// ConnectDestination connects the node to the speakers.
func (g *Gain) ConnectDestination() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connected = true
	return nil
}

// Connected reports whether the node reaches the speakers.
func (g *Gain) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

// Source is a fake media element source node.
type Source struct {
	Element boost.MediaElement

	mu     sync.Mutex
	target boost.GainNode
}

// Connect routes the source into g.
func (s *Source) Connect(g boost.GainNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = g
	return nil
}

// Target returns the node the source is connected to.
func (s *Source) Target() boost.GainNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}
