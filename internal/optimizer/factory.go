package optimizer

import (
	"fmt"
	"log/slog"
	"time"
)

// ProviderType represents the source of optimizer results.
type ProviderType string

const (
	// ProviderTypeHTTP represents a remote optimizer service.
	ProviderTypeHTTP ProviderType = "http"
	// ProviderTypeFile represents a result set stored on disk.
	ProviderTypeFile ProviderType = "file"
)

// DefaultRateLimit is applied when the HTTP provider has no rate limit configured.
const DefaultRateLimit = 5

// ProviderConfig holds configuration for creating an optimizer provider.
type ProviderConfig struct {
	Type       ProviderType  // Type of provider to create
	BaseURL    string        // Optimizer base URL (http provider)
	APIKey     string        // Optional bearer key (http provider)
	RateLimit  int           // Requests per second (http provider)
	Timeout    time.Duration // Per-request timeout (http provider)
	ResultFile string        // Result set path (file provider)
	Logger     *slog.Logger  // Logger for the provider
}

// NewProvider creates an optimizer provider based on the provided configuration.
//
// Supported provider types:
// - "http": remote optimizer service (requires base URL)
// - "file": result set read from disk (requires result file)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeHTTP:
		return newHTTPProvider(config)
	case ProviderTypeFile:
		return newFileProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newHTTPProvider(config ProviderConfig) (Provider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for %s provider", ProviderTypeHTTP)
	}

	if config.RateLimit <= 0 {
		config.RateLimit = DefaultRateLimit
		config.Logger.Warn("Rate limit for optimizer not set, set a default value", "value", config.RateLimit)
	}

	return NewHTTPProvider(config.BaseURL, config.APIKey, config.RateLimit, config.Timeout, config.Logger), nil
}

func newFileProvider(config ProviderConfig) (Provider, error) {
	if config.ResultFile == "" {
		return nil, ErrMissingSource
	}

	return NewFileProvider(config.ResultFile, config.Logger), nil
}
