package view

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/normalizer"
	"github.com/UnknownOlympus/waypoint/internal/optimizer"
	"github.com/UnknownOlympus/waypoint/internal/render"
	"github.com/UnknownOlympus/waypoint/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const twoVehicles = `{
	"vehicles": [
		{
			"id": 1,
			"stops": [
				{"lat": 38.5, "lon": -120.2, "name": "Depot"},
				{"lat": 40.7, "lon": -120.95, "name": "Ameerpet", "demand": 4}
			],
			"route": {"routes": [{"geometry": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@", "summary": {"distance": 52000, "duration": 3600}}]}
		},
		{
			"id": 2,
			"stops": [
				{"lat": 38.5, "lon": -120.2, "name": "Depot"},
				{"lat": 43.252, "lon": -126.453}
			],
			"route": {"routes": [{"geometry": "@@@", "summary": {"distance": 48000, "duration": 3000}}]}
		}
	],
	"warnings": ["Vehicle 3 unused"]
}`

func newTestSession(t *testing.T) (*Session, *mocks.Provider, *metrics.Metrics) {
	t.Helper()

	provider := mocks.NewProvider(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())

	return NewSession(logger, provider, render.NewBuilder(render.Options{}), m, "₹"), provider, m
}

func request(vehicles int) models.OptimizeRequest {
	return models.OptimizeRequest{
		Depot:       &models.Location{Latitude: 38.5, Longitude: -120.2, Name: "Depot"},
		Customers:   []models.Location{{Latitude: 40.7, Longitude: -120.95}},
		NumVehicles: vehicles,
	}
}

func TestRefresh(t *testing.T) {
	ctx := t.Context()
	baseline := &models.Baseline{DistanceMeters: 245000, DurationSeconds: 30600}

	t.Run("successful refresh", func(t *testing.T) {
		session, provider, m := newTestSession(t)
		req := request(2)

		provider.On("Optimize", mock.Anything, req).Return([]byte(twoVehicles), nil).Once()
		provider.On("Baseline", mock.Anything, req).Return(baseline, nil).Once()

		snap, err := session.Refresh(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), snap.Generation)
		assert.InDelta(t, 100000.0, snap.Model.Metrics.TotalDistanceMeters, 1e-9)
		assert.Equal(t, 59, *snap.Model.Metrics.DistanceSavingsPercent)
		assert.Equal(t, 78, *snap.Model.Metrics.DurationSavingsPercent)
		assert.Len(t, snap.Report, 4)
		assert.Equal(t, "Depot → Ameerpet", snap.Summaries[0].Route)
		assert.Equal(t, []string{"Vehicle 3 unused"}, snap.Warnings)
		assert.Nil(t, snap.Focused)

		require.NotNil(t, snap.Model.DepotCoordinate)
		assert.Equal(t, models.Coordinates{Latitude: 38.5, Longitude: -120.2}, *snap.Model.DepotCoordinate)
		assert.Equal(t, render.StatusPartial, snap.Model.Status)
		assert.Empty(t, snap.Model.VehicleFeatures[1].Coordinates)

		assert.InDelta(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.StatusSuccess)), 0)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.DecodeFailures), 0)
		assert.InDelta(t, 0.0, testutil.ToFloat64(m.RefreshInFlight), 0)
		assert.Nil(t, session.cancel)

		stored, err := session.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, snap, stored)
	})

	t.Run("baseline failure degrades to unavailable", func(t *testing.T) {
		session, provider, _ := newTestSession(t)
		req := request(2)

		provider.On("Optimize", mock.Anything, req).Return([]byte(twoVehicles), nil).Once()
		provider.On("Baseline", mock.Anything, req).Return(nil, optimizer.ErrEmptyResponse).Once()

		snap, err := session.Refresh(ctx, req)

		require.NoError(t, err)
		assert.Nil(t, snap.Model.Metrics.DistanceSavingsPercent)
		assert.Nil(t, snap.Report[0].Before)
	})

	t.Run("optimizer failure keeps previous snapshot", func(t *testing.T) {
		session, provider, m := newTestSession(t)
		good, bad := request(2), request(3)

		provider.On("Optimize", mock.Anything, good).Return([]byte(twoVehicles), nil).Once()
		provider.On("Optimize", mock.Anything, bad).Return(nil, optimizer.ErrUnauthorized).Once()
		provider.On("Baseline", mock.Anything, mock.Anything).Return(baseline, nil)

		first, err := session.Refresh(ctx, good)
		require.NoError(t, err)

		_, err = session.Refresh(ctx, bad)
		require.ErrorIs(t, err, optimizer.ErrUnauthorized)

		current, err := session.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, first.Generation, current.Generation)
		assert.Equal(t, first.Model, current.Model)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.StatusFailure)), 0)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.OptimizerErrors), 0)
	})

	t.Run("malformed result set keeps previous snapshot", func(t *testing.T) {
		session, provider, _ := newTestSession(t)
		good, bad := request(2), request(3)

		provider.On("Optimize", mock.Anything, good).Return([]byte(twoVehicles), nil).Once()
		provider.On("Optimize", mock.Anything, bad).Return([]byte(`{"vehicles":[{"id":"x"}]}`), nil).Once()
		provider.On("Baseline", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := session.Refresh(ctx, good)
		require.NoError(t, err)

		_, err = session.Refresh(ctx, bad)
		require.ErrorIs(t, err, normalizer.ErrMalformedResultSet)

		current, err := session.Snapshot()
		require.NoError(t, err)
		assert.Len(t, current.Model.VehicleFeatures, 2)
	})

	t.Run("last requested wins", func(t *testing.T) {
		session, provider, m := newTestSession(t)
		slow, fast := request(1), request(2)
		started := make(chan struct{})
		release := make(chan struct{})

		provider.On("Optimize", mock.Anything, slow).Return(
			func(context.Context, models.OptimizeRequest) ([]byte, error) {
				close(started)
				<-release
				return []byte(`{"vehicles":[]}`), nil
			}, nil).Once()
		provider.On("Optimize", mock.Anything, fast).Return([]byte(twoVehicles), nil).Once()
		provider.On("Baseline", mock.Anything, mock.Anything).Return(nil, nil)

		slowErr := make(chan error, 1)
		go func() {
			_, err := session.Refresh(ctx, slow)
			slowErr <- err
		}()
		<-started

		snap, err := session.Refresh(ctx, fast)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), snap.Generation)

		close(release)
		require.ErrorIs(t, <-slowErr, ErrSuperseded)

		current, err := session.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), current.Generation)
		assert.Len(t, current.Model.VehicleFeatures, 2)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.StatusStale)), 0)
	})

	t.Run("newer refresh cancels the one in flight", func(t *testing.T) {
		session, provider, _ := newTestSession(t)
		slow, fast := request(1), request(2)
		started := make(chan struct{})

		provider.On("Optimize", mock.Anything, slow).Return(
			func(ctx context.Context, _ models.OptimizeRequest) ([]byte, error) {
				close(started)
				<-ctx.Done()
				return nil, ctx.Err()
			}, nil).Once()
		provider.On("Optimize", mock.Anything, fast).Return([]byte(twoVehicles), nil).Once()
		provider.On("Baseline", mock.Anything, mock.Anything).Return(nil, nil)

		slowErr := make(chan error, 1)
		go func() {
			_, err := session.Refresh(ctx, slow)
			slowErr <- err
		}()
		<-started

		_, err := session.Refresh(ctx, fast)
		require.NoError(t, err)

		err = <-slowErr
		require.ErrorIs(t, err, ErrSuperseded)
		assert.False(t, errors.Is(err, context.Canceled))
	})
}

func TestSelection(t *testing.T) {
	ctx := t.Context()

	t.Run("requires a result set", func(t *testing.T) {
		session, _, _ := newTestSession(t)

		_, err := session.Toggle(ctx, 1)
		require.ErrorIs(t, err, ErrNoResult)
		_, err = session.Clear(ctx)
		require.ErrorIs(t, err, ErrNoResult)
		_, err = session.Snapshot()
		require.ErrorIs(t, err, ErrNoResult)
	})

	t.Run("toggle clear and reset on refresh", func(t *testing.T) {
		session, provider, _ := newTestSession(t)
		req := request(2)

		provider.On("Optimize", mock.Anything, req).Return([]byte(twoVehicles), nil).Twice()
		provider.On("Baseline", mock.Anything, req).Return(nil, nil).Twice()

		_, err := session.Refresh(ctx, req)
		require.NoError(t, err)

		snap, err := session.Toggle(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, snap.Focused)
		assert.Equal(t, 2, *snap.Focused)
		assert.False(t, snap.Model.VehicleFeatures[0].Emphasized)
		assert.True(t, snap.Model.VehicleFeatures[1].Emphasized)
		assert.Equal(t, uint64(1), snap.Generation)

		snap, err = session.Toggle(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, snap.Focused)

		_, err = session.Toggle(ctx, 99)
		require.ErrorIs(t, err, ErrUnknownVehicle)

		_, err = session.Toggle(ctx, 1)
		require.NoError(t, err)
		snap, err = session.Clear(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap.Focused)

		_, err = session.Toggle(ctx, 1)
		require.NoError(t, err)
		snap, err = session.Refresh(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, snap.Focused)
		assert.True(t, snap.Model.VehicleFeatures[1].Emphasized)
	})
}

func TestInsightsAndAsk(t *testing.T) {
	ctx := t.Context()

	t.Run("require a result set", func(t *testing.T) {
		session, _, _ := newTestSession(t)

		_, err := session.Insights(ctx)
		require.ErrorIs(t, err, ErrNoResult)
		_, err = session.Ask(ctx, "why?")
		require.ErrorIs(t, err, ErrNoResult)
	})

	t.Run("forward the current result set", func(t *testing.T) {
		session, provider, m := newTestSession(t)
		req := request(2)
		baseline := &models.Baseline{DistanceMeters: 245000, DurationSeconds: 30600}
		insights := []models.Insight{{Vehicle: "Fleet Summary", Explanation: "59% shorter"}}

		provider.On("Optimize", mock.Anything, req).Return([]byte(twoVehicles), nil).Once()
		provider.On("Baseline", mock.Anything, req).Return(baseline, nil).Once()
		_, err := session.Refresh(ctx, req)
		require.NoError(t, err)

		provider.On("Insights", ctx, mock.MatchedBy(func(v []models.VehicleRoute) bool {
			return len(v) == 2 && v[0].ID == 1
		}), baseline).Return(insights, nil).Once()
		provider.On("Ask", ctx, "why?", mock.Anything, baseline).Return("", optimizer.ErrUnsupported).Once()

		got, err := session.Insights(ctx)
		require.NoError(t, err)
		assert.Equal(t, insights, got)

		_, err = session.Ask(ctx, "why?")
		require.ErrorIs(t, err, optimizer.ErrUnsupported)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.OptimizerErrors), 0)
	})
}
