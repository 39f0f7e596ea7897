package boost

// Config configures the engine.
type Config struct {
	// StorageKey is the session store key holding the gain.
	StorageKey string
	// GestureEvents are the document events that count as a user gesture.
	GestureEvents []string
}

// DefaultConfig returns the configuration used by the content script.
func DefaultConfig() Config {
	return Config{
		StorageKey:    "gain",
		GestureEvents: []string{"click", "keydown", "touchstart"},
	}
}
