package boost

import "sync"

// Registry tracks which media elements are routed through the graph.
//
// Rejected elements failed to attach and are never retried. They are not
// members.
type Registry interface {
	Bound(el MediaElement) bool
	Bind(el MediaElement, src SourceNode)
	Rejected(el MediaElement) bool
	Reject(el MediaElement)
	// Len reports the number of elements bound so far.
	Len() int
}

// MapRegistry is a Registry keyed by element identity. Elements must be
// comparable. Entries are never removed, so the registry grows for the
// lifetime of the page.
type MapRegistry struct {
	mu       sync.Mutex
	sources  map[MediaElement]SourceNode
	rejected map[MediaElement]struct{}
}

// NewMapRegistry creates an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{
		sources:  make(map[MediaElement]SourceNode),
		rejected: make(map[MediaElement]struct{}),
	}
}

// Bound reports whether el is routed through the graph.
func (r *MapRegistry) Bound(el MediaElement) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sources[el]
	return ok
}

// Bind records the source tap of el.
func (r *MapRegistry) Bind(el MediaElement, src SourceNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[el] = src
}

// Source returns the source tap of el.
func (r *MapRegistry) Source(el MediaElement) (SourceNode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[el]
	return src, ok
}

// Rejected reports whether el failed to attach.
func (r *MapRegistry) Rejected(el MediaElement) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rejected[el]
	return ok
}

// Reject marks el as permanently unboosted.
func (r *MapRegistry) Reject(el MediaElement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[el] = struct{}{}
}

// Len returns the number of bound elements.
func (r *MapRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}
