package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkMetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
)

func collect(t *testing.T, reader *sdkMetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is %T", m.Name, m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics(t *testing.T) {
	reader := sdkMetric.NewManualReader()
	provider := sdkMetric.NewMeterProvider(sdkMetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewMetrics(provider)
	require.NoError(t, err)

	m.GameStarted(game.Beginner)
	m.GameStarted(game.Beginner)
	m.GameFinished(game.Beginner, board.Won, 30*time.Second)
	m.GameFinished(game.Beginner, board.Lost, 4*time.Second)

	got := collect(t, reader)
	assert.EqualValues(t, 2, sumOf(t, got[gamesStartedKey]))
	assert.EqualValues(t, 1, sumOf(t, got[gamesWonKey]))
	assert.EqualValues(t, 1, sumOf(t, got[gamesLostKey]))

	hist, ok := got[gameDurationKey].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	var total float64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.EqualValues(t, 2, count)
	assert.InDelta(t, 34.0, total, 1e-9)
}

func TestInit_Disabled(t *testing.T) {
	m, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	m.GameStarted(game.Expert)
	m.GameFinished(game.Expert, board.Lost, time.Second)
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestInit_HTTPExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.ExporterEndpoint = "http://127.0.0.1:1/v1/metrics"
	cfg.Interval = time.Hour

	m, err := Init(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// nothing listens on the endpoint, the final flush may fail
	_ = m.Shutdown(ctx)
}
