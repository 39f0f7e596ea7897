// Package htmldom is a host implementation of boost.Document over a parsed
// HTML tree. Insertions made through Append notify observers the way a
// MutationObserver would.
package htmldom

import (
	"context"
	"strings"
	"sync"

	"github.com/mgnsk/turnitup/pkg/boost"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is an HTML document.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	body      *html.Node
	media     map[*html.Node]*Media
	observers map[int]func([]boost.Node)
	nextID    int
	once      map[string][]func()
	ready     chan struct{}
	readyOnce sync.Once
}

var _ boost.Document = &Document{}

// Parse parses a complete page. The document is ready.
func Parse(src string) (*Document, error) {
	d, err := ParseLoading(src)
	if err != nil {
		return nil, err
	}
	d.Loaded()
	return d, nil
}

// ParseLoading parses a page that is still loading. WhenReady blocks until
// Loaded is called.
func ParseLoading(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	d := &Document{
		root:      root,
		media:     make(map[*html.Node]*Media),
		observers: make(map[int]func([]boost.Node)),
		once:      make(map[string][]func()),
		ready:     make(chan struct{}),
	}

	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			d.body = n
			return false
		}
		return true
	})

	return d, nil
}

// Loaded marks the document as parsed.
func (d *Document) Loaded() {
	d.readyOnce.Do(func() {
		close(d.ready)
	})
}

// WhenReady blocks until the document is parsed.
func (d *Document) WhenReady(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.ready:
		return nil
	}
}

// Media returns all audio and video elements in document order.
func (d *Document) Media() []boost.MediaElement {
	d.mu.Lock()
	defer d.mu.Unlock()

	var els []boost.MediaElement
	for _, m := range d.mediaUnder(d.root) {
		els = append(els, m)
	}
	return els
}

// MediaCount returns the number of audio and video elements.
func (d *Document) MediaCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.mediaUnder(d.root))
}

// MediaByID returns the media element with the given id attribute.
func (d *Document) MediaByID(id string) *Media {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, m := range d.mediaUnder(d.root) {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// ObserveAdded calls fn after every Append until stop is called.
func (d *Document) ObserveAdded(fn func(added []boost.Node)) (stop func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.observers[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers, id)
	}
}

// Observers returns the number of installed observers.
func (d *Document) Observers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.observers)
}

// Once registers a one-shot listener for event.
func (d *Document) Once(event string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.once[event] = append(d.once[event], fn)
}

// Dispatch fires event on the document and returns the number of listeners
// that ran.
func (d *Document) Dispatch(event string) int {
	d.mu.Lock()
	fns := d.once[event]
	delete(d.once, event)
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Append parses fragment and appends it to the body as a single batch.
func (d *Document) Append(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return err
	}

	d.mu.Lock()
	var added []boost.Node
	for _, n := range nodes {
		d.body.AppendChild(n)
		if n.Type == html.ElementNode {
			added = append(added, element{doc: d, node: n})
		}
	}
	observers := make([]func([]boost.Node), 0, len(d.observers))
	for _, fn := range d.observers {
		observers = append(observers, fn)
	}
	d.mu.Unlock()

	if len(added) == 0 {
		return nil
	}
	for _, fn := range observers {
		fn(added)
	}
	return nil
}

// Remove detaches m from the document.
func (d *Document) Remove(m *Media) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := m.node.Parent; p != nil {
		p.RemoveChild(m.node)
	}
}

// mediaUnder returns the media elements below n. The caller holds d.mu.
func (d *Document) mediaUnder(n *html.Node) []*Media {
	var found []*Media
	walk(n, func(c *html.Node) bool {
		if isMedia(c) {
			found = append(found, d.wrap(c))
		}
		return true
	})
	return found
}

// wrap returns the stable wrapper of a media node. The caller holds d.mu.
func (d *Document) wrap(n *html.Node) *Media {
	m, ok := d.media[n]
	if !ok {
		m = &Media{node: n}
		d.media[n] = m
	}
	return m
}

type element struct {
	doc  *Document
	node *html.Node
}

func (e element) AsMedia() (boost.MediaElement, bool) {
	if !isMedia(e.node) {
		return nil, false
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrap(e.node), true
}

func (e element) MediaDescendants() []boost.MediaElement {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var els []boost.MediaElement
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		for _, m := range e.doc.mediaUnder(c) {
			els = append(els, m)
		}
	}
	return els
}

// Media is an audio or video element.
type Media struct {
	node *html.Node

	mu     sync.Mutex
	onPlay []func()
}

// ID returns the id attribute.
func (m *Media) ID() string {
	return attr(m.node, "id")
}

// Tag returns "audio" or "video".
func (m *Media) Tag() string {
	return m.node.Data
}

// Src returns the src attribute.
func (m *Media) Src() string {
	return attr(m.node, "src")
}

// OnPlay registers a play listener.
func (m *Media) OnPlay(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPlay = append(m.onPlay, fn)
}

// PlayListeners returns the number of play listeners.
func (m *Media) PlayListeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.onPlay)
}

// Play fires the play event.
func (m *Media) Play() {
	m.mu.Lock()
	fns := append([]func(){}, m.onPlay...)
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func isMedia(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Audio || n.DataAtom == atom.Video)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// walk visits n and its descendants depth first. fn returns false to stop
// the whole walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
