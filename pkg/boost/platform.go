package boost

import "context"

// State is the lifecycle state of the audio context.
type State string

// Audio context states as reported to the popup.
const (
	StateNotInitialized State = "not initialized"
	StateRunning        State = "running"
	StateSuspended      State = "suspended"
	StateClosed         State = "closed"
)

// AudioBackend constructs audio contexts.
type AudioBackend interface {
	// NewContext fails when the platform has no usable audio subsystem.
	NewContext() (AudioContext, error)
}

// AudioContext is an audio processing graph.
type AudioContext interface {
	State() State
	// Resume blocks until the platform accepts or rejects the resume.
	Resume(ctx context.Context) error
	NewGain() (GainNode, error)
	// NewMediaSource taps the audio output of a media element. It fails when
	// the element is already captured by another graph or plays a
	// cross-origin resource without CORS headers.
	NewMediaSource(el MediaElement) (SourceNode, error)
}

// GainNode amplifies everything connected to it.
type GainNode interface {
	SetValue(v float64)
	ConnectDestination() error
}

// SourceNode is the audio tap of a single media element.
type SourceNode interface {
	Connect(g GainNode) error
}

// MediaElement is an audio or video element owned by the page.
type MediaElement interface {
	// OnPlay registers fn to run every time the element starts playing.
	OnPlay(fn func())
}

// Node is an element added to the document.
type Node interface {
	// AsMedia returns the node itself if it is an audio or video element.
	AsMedia() (MediaElement, bool)
	MediaDescendants() []MediaElement
}

// Document is the page document.
type Document interface {
	// Media returns every audio and video element currently in the document.
	Media() []MediaElement
	MediaCount() int
	// ObserveAdded calls fn with the element nodes of each batch of
	// insertions anywhere in the document until stop is called.
	ObserveAdded(fn func(added []Node)) (stop func())
	// Once registers a listener that is removed after its first call.
	Once(event string, fn func())
	// WhenReady blocks until the document has been parsed.
	WhenReady(ctx context.Context) error
}

// Store is the tab session key-value store.
type Store interface {
	Get(ctx context.Context, key string) (v float64, ok bool, err error)
	Set(ctx context.Context, key string, v float64) error
}

// Logger receives diagnostics.
type Logger interface {
	Log(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

type nopLogger struct{}

func (nopLogger) Log(...any)   {}
func (nopLogger) Warn(...any)  {}
func (nopLogger) Error(...any) {}
