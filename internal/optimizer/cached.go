package optimizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/waypoint/internal/cache"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/normalizer"
)

// Cache key prefixes.
const (
	OptimizeKeyPrefix = "waypoint:optimize:"
	BaselineKeyPrefix = "waypoint:baseline:"
)

// CachedProvider serves repeated requests from a cache. Cache failures are logged and bypassed.
// Insights and answers are always fetched fresh.
type CachedProvider struct {
	next    Provider
	store   cache.Store
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCachedProvider wraps next with store.
func NewCachedProvider(next Provider, store cache.Store, m *metrics.Metrics, log *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, store: store, metrics: m, log: log}
}

// Optimize returns a cached result set for an identical request, or fetches and stores one.
// Result sets that do not normalize are passed through but never stored.
func (cp *CachedProvider) Optimize(ctx context.Context, req models.OptimizeRequest) ([]byte, error) {
	key, err := RequestKey(OptimizeKeyPrefix, req)
	if err != nil {
		return nil, err
	}

	if data, ok := cp.lookup(ctx, key); ok {
		if _, err = normalizer.Normalize(data); err == nil {
			return data, nil
		}
		cp.log.WarnContext(ctx, "Discarding malformed cached result set", "key", key, "error", err)
	}

	data, err := cp.next.Optimize(ctx, req)
	if err != nil {
		return nil, err
	}

	// Only well-formed result sets are stored; a bad body must not outlive the optimizer fault.
	if _, err = normalizer.Normalize(data); err != nil {
		cp.log.WarnContext(ctx, "Not caching malformed result set", "key", key, "error", err)
		return data, nil
	}
	cp.save(ctx, key, data)

	return data, nil
}

// Baseline returns a cached baseline for an identical request, or fetches and stores one.
func (cp *CachedProvider) Baseline(ctx context.Context, req models.OptimizeRequest) (*models.Baseline, error) {
	key, err := RequestKey(BaselineKeyPrefix, req)
	if err != nil {
		return nil, err
	}

	if data, ok := cp.lookup(ctx, key); ok {
		var baseline models.Baseline
		if err = json.Unmarshal(data, &baseline); err == nil {
			return &baseline, nil
		}
		cp.log.WarnContext(ctx, "Discarding unreadable cached baseline", "key", key, "error", err)
	}

	baseline, err := cp.next.Baseline(ctx, req)
	if err != nil || baseline == nil {
		return baseline, err
	}

	if data, mErr := json.Marshal(baseline); mErr == nil {
		cp.save(ctx, key, data)
	}

	return baseline, nil
}

// Insights delegates to the wrapped provider.
func (cp *CachedProvider) Insights(
	ctx context.Context,
	vehicles []models.VehicleRoute,
	baseline *models.Baseline,
) ([]models.Insight, error) {
	return cp.next.Insights(ctx, vehicles, baseline)
}

// Ask delegates to the wrapped provider.
func (cp *CachedProvider) Ask(
	ctx context.Context,
	question string,
	vehicles []models.VehicleRoute,
	baseline *models.Baseline,
) (string, error) {
	return cp.next.Ask(ctx, question, vehicles, baseline)
}

func (cp *CachedProvider) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, err := cp.store.Get(ctx, key)
	switch {
	case err == nil:
		cp.metrics.CacheRequests.WithLabelValues(metrics.CacheHit).Inc()
		cp.log.DebugContext(ctx, "Cache hit", "key", key)
		return data, true
	case errors.Is(err, cache.ErrMiss):
		cp.metrics.CacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		cp.metrics.CacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		cp.log.WarnContext(ctx, "Cache lookup failed", "key", key, "error", err)
	}

	return nil, false
}

func (cp *CachedProvider) save(ctx context.Context, key string, data []byte) {
	if err := cp.store.Set(ctx, key, data); err != nil {
		cp.log.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}

// RequestKey derives a stable cache key from the request body.
func RequestKey(prefix string, req models.OptimizeRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request for cache key: %w", err)
	}

	sum := sha256.Sum256(data)

	return prefix + hex.EncodeToString(sum[:]), nil
}
