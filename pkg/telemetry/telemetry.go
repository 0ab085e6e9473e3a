// Package telemetry exports game outcome metrics over OTLP.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkMetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
)

const meterName = "github.com/grepsuzette/minesweeper"

const (
	gamesStartedKey = "minesweeper.games.started"
	gamesWonKey     = "minesweeper.games.won"
	gamesLostKey    = "minesweeper.games.lost"
	gameDurationKey = "minesweeper.game.duration"
)

// Config selects the metrics exporter.
type Config struct {
	Enabled          bool
	ServiceName      string
	ExporterEndpoint string // http(s) URL or gRPC host:port
	Interval         time.Duration
}

// DefaultConfig exports to a local OTLP gRPC collector every 15s, once enabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:      "minesweeper",
		ExporterEndpoint: "localhost:4317",
		Interval:         15 * time.Second,
	}
}

// Metrics implements game.Recorder.
type Metrics struct {
	started  metric.Int64Counter
	won      metric.Int64Counter
	lost     metric.Int64Counter
	duration metric.Float64Histogram

	shutdown func(context.Context) error
}

var _ game.Recorder = (*Metrics)(nil)

// Init sets up the exporter described by cfg. A disabled config yields
// metrics that record nothing.
func Init(ctx context.Context, cfg Config) (*Metrics, error) {
	if !cfg.Enabled {
		return NewMetrics(noop.NewMeterProvider())
	}

	exporter, err := newExporter(ctx, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultConfig().Interval
	}
	provider := sdkMetric.NewMeterProvider(
		sdkMetric.WithReader(sdkMetric.NewPeriodicReader(exporter, sdkMetric.WithInterval(interval))),
		sdkMetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
		)),
	)

	m, err := NewMetrics(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	m.shutdown = provider.Shutdown
	return m, nil
}

// newExporter picks the OTLP transport from the endpoint scheme: http and
// https use OTLP/HTTP, anything else is dialed as a gRPC host:port.
func newExporter(ctx context.Context, endpoint string) (sdkMetric.Exporter, error) {
	u, err := url.Parse(endpoint)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		exp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, fmt.Errorf("unable to create http metrics exporter, %w", err)
		}
		return exp, nil
	}

	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create grpc metrics exporter, %w", err)
	}
	return exp, nil
}

// NewMetrics registers the game instruments on provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	var (
		m   = &Metrics{shutdown: func(context.Context) error { return nil }}
		err error
	)
	if m.started, err = meter.Int64Counter(
		gamesStartedKey,
		metric.WithDescription("Games in which a first cell was revealed"),
	); err != nil {
		return nil, fmt.Errorf("unable to create %s, %w", gamesStartedKey, err)
	}
	if m.won, err = meter.Int64Counter(
		gamesWonKey,
		metric.WithDescription("Games won"),
	); err != nil {
		return nil, fmt.Errorf("unable to create %s, %w", gamesWonKey, err)
	}
	if m.lost, err = meter.Int64Counter(
		gamesLostKey,
		metric.WithDescription("Games lost"),
	); err != nil {
		return nil, fmt.Errorf("unable to create %s, %w", gamesLostKey, err)
	}
	if m.duration, err = meter.Float64Histogram(
		gameDurationKey,
		metric.WithDescription("Time from first reveal to the end of a game"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("unable to create %s, %w", gameDurationKey, err)
	}
	return m, nil
}

// GameStarted counts a game whose first cell was revealed.
func (m *Metrics) GameStarted(cfg game.Config) {
	m.started.Add(context.Background(), 1, metric.WithAttributes(boardAttr(cfg)))
}

// GameFinished counts the outcome and records the game duration.
func (m *Metrics) GameFinished(cfg game.Config, status board.Status, elapsed time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(boardAttr(cfg))
	switch status {
	case board.Won:
		m.won.Add(ctx, 1, attrs)
	case board.Lost:
		m.lost.Add(ctx, 1, attrs)
	}
	m.duration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(boardAttr(cfg), attribute.String("status", status.String())),
	)
}

// Shutdown flushes pending metrics.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.shutdown(ctx)
}

func boardAttr(cfg game.Config) attribute.KeyValue {
	return attribute.String("board", cfg.String())
}
