// Package optimizer talks to the external route optimizer and its companion endpoints.
package optimizer

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Provider delivers raw optimizer result sets and their optional companions.
// Optimize returns the undecoded result so that shape validation stays with the normalizer.
type Provider interface {
	Optimize(ctx context.Context, req models.OptimizeRequest) ([]byte, error)
	Baseline(ctx context.Context, req models.OptimizeRequest) (*models.Baseline, error)
	Insights(ctx context.Context, vehicles []models.VehicleRoute, baseline *models.Baseline) ([]models.Insight, error)
	Ask(ctx context.Context, question string, vehicles []models.VehicleRoute, baseline *models.Baseline) (string, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for optimizer providers.
var (
	ErrEmptyResponse   = errors.New("optimizer returned empty response")
	ErrUnauthorized    = errors.New("optimizer unauthorized (invalid API key)")
	ErrInvalidInsights = errors.New("optimizer returned malformed insights")
	ErrMissingSource   = errors.New("result file is required for file provider")
	ErrUnsupported     = errors.New("operation not supported by provider")
)
