package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"golang.org/x/time/rate"
)

// Endpoint paths of the optimizer service.
const (
	OptimizePath = "/api/optimize_routes"
	BaselinePath = "/api/calculate_before_metrics"
	ExplainPath  = "/api/explain_routes"
	AskPath      = "/api/ask"
)

// DefaultTimeout bounds a single optimizer request when none is configured.
const DefaultTimeout = 30 * time.Second

// HTTPProvider calls a remote optimizer over HTTP.
type HTTPProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL of the optimizer service
	apiKey  string        // Optional bearer key
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// NewHTTPProvider creates a new remote optimizer provider.
func NewHTTPProvider(baseURL, apiKey string, rateLimit int, timeout time.Duration, log *slog.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return NewHTTPProviderWithClient(
		&http.Client{Timeout: timeout},
		baseURL,
		apiKey,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewHTTPProviderWithClient allows injecting custom HTTP client.
func NewHTTPProviderWithClient(
	client HTTPClient,
	baseURL string,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *HTTPProvider {
	return &HTTPProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// Optimize requests a new result set and returns the raw response body.
func (hp *HTTPProvider) Optimize(ctx context.Context, req models.OptimizeRequest) ([]byte, error) {
	hp.log.DebugContext(ctx, "Requesting optimization",
		"customers", len(req.Customers), "vehicles", req.NumVehicles)

	return hp.post(ctx, OptimizePath, req)
}

// Baseline requests the pre-optimization totals for the same request.
func (hp *HTTPProvider) Baseline(ctx context.Context, req models.OptimizeRequest) (*models.Baseline, error) {
	body, err := hp.post(ctx, BaselinePath, req)
	if err != nil {
		return nil, err
	}

	var result baselineResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode baseline response: %w", err)
	}

	if result.BeforeDistance == nil || result.BeforeTime == nil {
		return nil, ErrEmptyResponse
	}

	return &models.Baseline{DistanceMeters: *result.BeforeDistance, DurationSeconds: *result.BeforeTime}, nil
}

// Insights asks the remote service to explain the result set.
func (hp *HTTPProvider) Insights(
	ctx context.Context,
	vehicles []models.VehicleRoute,
	baseline *models.Baseline,
) ([]models.Insight, error) {
	body, err := hp.post(ctx, ExplainPath, explainRequest{Vehicles: toWire(vehicles), Baseline: toWireBaseline(baseline)})
	if err != nil {
		return nil, err
	}

	var result explainResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInsights, err)
	}

	if err = ValidateInsights(result.Insights); err != nil {
		return nil, err
	}

	return result.Insights, nil
}

// Ask forwards a free-form question about the result set.
func (hp *HTTPProvider) Ask(
	ctx context.Context,
	question string,
	vehicles []models.VehicleRoute,
	baseline *models.Baseline,
) (string, error) {
	payload := askRequest{Question: question, Vehicles: toWire(vehicles), Baseline: toWireBaseline(baseline)}

	body, err := hp.post(ctx, AskPath, payload)
	if err != nil {
		return "", err
	}

	var result askResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode answer: %w", err)
	}

	if strings.TrimSpace(result.Answer) == "" {
		return "", ErrEmptyResponse
	}

	return result.Answer, nil
}

func (hp *HTTPProvider) post(ctx context.Context, path string, payload any) ([]byte, error) {
	// Rate limit
	if err := hp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL, err := url.JoinPath(hp.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if hp.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+hp.apiKey)
	}

	resp, err := hp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute optimizer request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		hp.log.ErrorContext(ctx, "Optimizer API error", "path", path, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("optimizer returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}

	hp.log.DebugContext(ctx, "Optimizer raw response", "path", path, "bytes", len(body))

	return body, nil
}
