package boost

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is an in-memory Store. It lives as long as the value.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]float64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]float64)}
}

// Get a value.
func (s *MemoryStore) Get(ctx context.Context, key string) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set a value.
func (s *MemoryStore) Set(ctx context.Context, key string, v float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
	return nil
}

// ItemStorage is a string key-value store scoped to one tab, such as
// window.sessionStorage.
type ItemStorage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// ItemStore is a Store over ItemStorage. Keys are prefixed so they do not
// collide with the page's own items.
type ItemStore struct {
	items  ItemStorage
	prefix string
}

var _ Store = &ItemStore{}

// NewItemStore creates a store writing keys as prefix+key.
func NewItemStore(items ItemStorage, prefix string) *ItemStore {
	return &ItemStore{items: items, prefix: prefix}
}

// Get reads key. A value that is not a number is an error.
func (s *ItemStore) Get(ctx context.Context, key string) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	raw, ok, err := s.items.GetItem(s.prefix + key)
	if err != nil || !ok {
		return 0, false, err
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, ErrStorage.Wrap(err, "item %q", s.prefix+key)
	}
	return v, true, nil
}

// Set writes key.
func (s *ItemStore) Set(ctx context.Context, key string, v float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.items.SetItem(s.prefix+key, strconv.FormatFloat(v, 'g', -1, 64))
}
