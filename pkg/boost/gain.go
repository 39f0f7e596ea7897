package boost

import (
	"context"

	"github.com/mgnsk/turnitup/pkg/protocol"
)

// Gain returns the current gain.
func (e *Engine) Gain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// SetGain clamps v to [0, 5], applies it and saves it to the session store.
// It returns the applied gain. A NaN leaves the gain unchanged.
func (e *Engine) SetGain(ctx context.Context, v float64) float64 {
	e.mu.Lock()
	applied := e.apply(v)
	e.version++
	e.mu.Unlock()

	e.persist(ctx)

	return applied
}

// apply is the only place the gain changes.
func (e *Engine) apply(v float64) float64 {
	if clamped, ok := protocol.ClampGain(v); ok {
		e.current = clamped
	}
	if e.gain != nil {
		e.gain.SetValue(e.current)
	}
	return e.current
}

// persist writes the latest gain. Writes are serialized so the store always
// ends up with the last accepted value.
func (e *Engine) persist(ctx context.Context) {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	latest := e.Gain()
	if err := e.store.Set(ctx, e.cfg.StorageKey, latest); err != nil {
		e.log.Warn("could not save gain", ErrStorage.Wrap(err, "set %q", e.cfg.StorageKey))
	}
}

// LoadSavedGain applies the gain saved earlier in this tab session, if any.
// A gain set while the store is being read takes precedence.
func (e *Engine) LoadSavedGain(ctx context.Context) {
	e.mu.Lock()
	version := e.version
	e.mu.Unlock()

	v, ok, err := e.store.Get(ctx, e.cfg.StorageKey)
	if err != nil {
		e.log.Warn("could not load saved gain", ErrStorage.Wrap(err, "get %q", e.cfg.StorageKey))
		return
	}
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.version != version {
		return
	}
	e.apply(v)
}
