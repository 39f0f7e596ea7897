package panel

import "time"

// Config configures the panel.
type Config struct {
	// PrivilegedPrefixes are URL prefixes of pages content scripts cannot
	// run in.
	PrivilegedPrefixes []string
	// RequestTimeout bounds each round trip to the content script. Zero
	// means no bound.
	RequestTimeout time.Duration
}

// DefaultConfig returns the configuration used by the popup.
func DefaultConfig() Config {
	return Config{
		PrivilegedPrefixes: []string{
			"chrome://",
			"chrome-extension://",
			"edge://",
			"about:",
			"devtools://",
			"https://chrome.google.com/webstore",
			"https://chromewebstore.google.com",
		},
		RequestTimeout: 2 * time.Second,
	}
}
