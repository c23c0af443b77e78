package fetcher

import "time"

// Config controls article page fetching behavior.
type Config struct {
	// Timeout bounds one page fetch.
	Timeout time.Duration
	// MaxBodySize caps the response body read, in bytes.
	MaxBodySize int64
	// MaxRedirects caps the redirect chain length.
	MaxRedirects int
	// UserAgent is sent with every page request.
	UserAgent string
}

// DefaultConfig returns production defaults for page fetching.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxBodySize:  10 << 20, // 10 MiB
		MaxRedirects: 5,
		UserAgent:    "QuantumNewsBot/1.0",
	}
}
