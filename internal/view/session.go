// Package view owns the state of one results view: the current result set, its baseline, the
// selection and the last valid render model.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/aggregate"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/normalizer"
	"github.com/UnknownOlympus/waypoint/internal/optimizer"
	"github.com/UnknownOlympus/waypoint/internal/render"
	"github.com/UnknownOlympus/waypoint/internal/selection"
	"golang.org/x/sync/errgroup"
)

// Session errors.
var (
	ErrNoResult       = errors.New("no result set available")
	ErrSuperseded     = errors.New("refresh superseded by a newer request")
	ErrUnknownVehicle = errors.New("vehicle not in current result set")
)

// Metric labels for optimizer endpoints.
const (
	endpointOptimize = "optimize"
	endpointBaseline = "baseline"
	endpointExplain  = "explain"
	endpointAsk      = "ask"
)

// Snapshot is everything the display surface needs to paint the current view.
type Snapshot struct {
	Generation uint64                     `json:"generation"`
	Model      render.Model               `json:"model"`
	Report     []aggregate.Figure         `json:"report"`
	Summaries  []aggregate.VehicleSummary `json:"summaries"`
	Warnings   []string                   `json:"warnings"`
	Focused    *int                       `json:"focused"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

// Session serialises access to one results view. Refreshes follow last-requested-wins: starting
// a refresh cancels the one in flight, and a result that arrives after a newer refresh started
// is discarded.
type Session struct {
	log      *slog.Logger       // Logger for logging session activities
	provider optimizer.Provider // Source of result sets, baselines and insights
	builder  *render.Builder    // Render model builder
	metrics  *metrics.Metrics   // Metrics for tracking refreshes
	currency string             // Currency symbol for cost figures

	mu         sync.Mutex
	generation uint64
	published  uint64
	cancel     context.CancelFunc
	vehicles   []models.VehicleRoute
	baseline   *models.Baseline
	depot      *models.Stop
	warnings   []string
	selection  *selection.Controller
	snapshot   *Snapshot
}

// NewSession creates an empty results view.
func NewSession(
	log *slog.Logger,
	provider optimizer.Provider,
	builder *render.Builder,
	metrics *metrics.Metrics,
	currency string,
) *Session {
	return &Session{
		log:       log,
		provider:  provider,
		builder:   builder,
		metrics:   metrics,
		currency:  currency,
		selection: selection.NewController(),
	}
}

// Refresh fetches a new result set and its baseline, and publishes it unless a newer refresh has
// started meanwhile. A failed refresh leaves the previous snapshot in place.
func (s *Session) Refresh(ctx context.Context, req models.OptimizeRequest) (Snapshot, error) {
	gen, rctx, done := s.begin(ctx)
	defer done()

	s.metrics.RefreshInFlight.Inc()
	defer s.metrics.RefreshInFlight.Dec()

	s.log.InfoContext(ctx, "Refreshing result set", "generation", gen, "customers", len(req.Customers))

	raw, baseline, err := s.fetch(rctx, req)
	if err != nil {
		if s.superseded(gen) {
			return s.discard(ctx, gen)
		}
		s.metrics.Refreshes.WithLabelValues(metrics.StatusFailure).Inc()
		s.metrics.OptimizerErrors.Inc()
		s.log.ErrorContext(ctx, "Failed to fetch result set", "generation", gen, "error", err)
		return Snapshot{}, fmt.Errorf("failed to fetch result set: %w", err)
	}

	vehicles, err := normalizer.Normalize(raw)
	if err != nil {
		if s.superseded(gen) {
			return s.discard(ctx, gen)
		}
		s.metrics.Refreshes.WithLabelValues(metrics.StatusFailure).Inc()
		s.log.ErrorContext(ctx, "Rejected optimizer response", "generation", gen, "error", err)
		return Snapshot{}, fmt.Errorf("failed to normalize result set: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return s.discardLocked(ctx, gen)
	}

	s.published = gen
	s.vehicles = vehicles
	s.baseline = baseline
	s.depot = depotStop(req.Depot)
	s.warnings = normalizer.Warnings(raw)
	s.selection.Reset()

	snap := s.rebuildLocked()
	for _, id := range snap.Model.DecodeFailures {
		s.metrics.DecodeFailures.Inc()
		s.log.WarnContext(ctx, "Route geometry could not be decoded", "vehicle", id)
	}

	s.metrics.Refreshes.WithLabelValues(metrics.StatusSuccess).Inc()
	s.log.InfoContext(ctx, "Result set published",
		"generation", gen,
		"vehicles", len(vehicles),
		"status", snap.Model.Status,
		"baseline", baseline != nil,
	)

	return snap, nil
}

// begin registers a new refresh generation and cancels the one in flight.
func (s *Session) begin(ctx context.Context) (uint64, context.Context, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	s.generation++
	gen := s.generation
	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	return gen, rctx, func() {
		s.mu.Lock()
		if s.generation == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}
}

// fetch requests the result set and the baseline concurrently. A baseline failure is not fatal.
func (s *Session) fetch(ctx context.Context, req models.OptimizeRequest) ([]byte, *models.Baseline, error) {
	var (
		raw      []byte
		baseline *models.Baseline
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		data, err := s.provider.Optimize(gctx, req)
		s.metrics.RequestSeconds.WithLabelValues(endpointOptimize).Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		raw = data
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		b, err := s.provider.Baseline(gctx, req)
		s.metrics.RequestSeconds.WithLabelValues(endpointBaseline).Observe(time.Since(start).Seconds())
		if err != nil {
			s.log.WarnContext(ctx, "Baseline unavailable, savings will not be reported", "error", err)
			return nil
		}
		baseline = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return raw, baseline, nil
}

func (s *Session) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation != gen
}

func (s *Session) discard(ctx context.Context, gen uint64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.discardLocked(ctx, gen)
}

func (s *Session) discardLocked(ctx context.Context, gen uint64) (Snapshot, error) {
	s.metrics.Refreshes.WithLabelValues(metrics.StatusStale).Inc()
	s.log.InfoContext(ctx, "Discarding superseded result set", "generation", gen, "latest", s.generation)

	return Snapshot{}, ErrSuperseded
}

// Snapshot returns the last published snapshot.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return Snapshot{}, ErrNoResult
	}

	return *s.snapshot, nil
}

// Toggle focuses the vehicle, or clears focus if it is already focused.
func (s *Session) Toggle(ctx context.Context, vehicleID int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return Snapshot{}, ErrNoResult
	}
	if !slices.ContainsFunc(s.vehicles, func(v models.VehicleRoute) bool { return v.ID == vehicleID }) {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownVehicle, vehicleID)
	}

	s.selection.Toggle(vehicleID)
	s.log.DebugContext(ctx, "Selection toggled", "vehicle", vehicleID)

	return s.rebuildLocked(), nil
}

// Clear drops any focus.
func (s *Session) Clear(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return Snapshot{}, ErrNoResult
	}

	s.selection.Clear()
	s.log.DebugContext(ctx, "Selection cleared")

	return s.rebuildLocked(), nil
}

// Insights asks the optimizer to explain the current result set.
func (s *Session) Insights(ctx context.Context) ([]models.Insight, error) {
	vehicles, baseline, err := s.current()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	insights, err := s.provider.Insights(ctx, vehicles, baseline)
	s.metrics.RequestSeconds.WithLabelValues(endpointExplain).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.OptimizerErrors.Inc()
		s.log.ErrorContext(ctx, "Failed to fetch insights", "error", err)
		return nil, fmt.Errorf("failed to fetch insights: %w", err)
	}

	return insights, nil
}

// Ask forwards a question about the current result set.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	vehicles, baseline, err := s.current()
	if err != nil {
		return "", err
	}

	start := time.Now()
	answer, err := s.provider.Ask(ctx, question, vehicles, baseline)
	s.metrics.RequestSeconds.WithLabelValues(endpointAsk).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.OptimizerErrors.Inc()
		s.log.ErrorContext(ctx, "Failed to get answer", "error", err)
		return "", fmt.Errorf("failed to get answer: %w", err)
	}

	return answer, nil
}

func (s *Session) current() ([]models.VehicleRoute, *models.Baseline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return nil, nil, ErrNoResult
	}

	return s.vehicles, s.baseline, nil
}

// rebuildLocked derives a fresh snapshot from the stored result set. The caller holds mu.
func (s *Session) rebuildLocked() Snapshot {
	model := s.builder.Build(s.vehicles, s.baseline, s.selection.State(), s.depot)

	snap := Snapshot{
		Generation: s.published,
		Model:      model,
		Report:     aggregate.Report(model.Metrics, s.currency),
		Summaries:  aggregate.Summaries(s.vehicles),
		Warnings:   s.warnings,
		UpdatedAt:  time.Now(),
	}
	if id, ok := s.selection.Focused(); ok {
		snap.Focused = &id
	}

	s.snapshot = &snap

	return snap
}

func depotStop(loc *models.Location) *models.Stop {
	if loc == nil {
		return nil
	}

	stop := models.Stop{Coordinates: models.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}}
	if loc.Name != "" {
		name := loc.Name
		stop.Name = &name
	}

	return &stop
}
