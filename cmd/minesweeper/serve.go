package main

import (
	"context"
	"flag"
	"io"
	"net"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/net/netutil"

	"github.com/grepsuzette/minesweeper/pkg/game"
	"github.com/grepsuzette/minesweeper/pkg/sweepweb"
	"github.com/grepsuzette/minesweeper/pkg/telemetry"
)

type serveCfg struct {
	common    commonFlags
	web       sweepweb.Config
	origins   string
	maxConns  int
	telemetry telemetry.Config
}

func newServeCmd(stderr io.Writer) *ffcli.Command {
	cfg := serveCfg{
		web:       sweepweb.NewDefaultConfig(),
		telemetry: telemetry.DefaultConfig(),
	}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.common.register(fs)
	fs.StringVar(&cfg.web.BindAddress, "bind", cfg.web.BindAddress, "server listening address")
	fs.StringVar(&cfg.origins, "allowed-origins", strings.Join(cfg.web.AllowedOrigins, ","), "comma separated CORS origins")
	fs.StringVar(&cfg.web.Preset, "preset", cfg.web.Preset, "preset used when a request names none")
	fs.IntVar(&cfg.maxConns, "max-conns", 256, "maximum simultaneous connections, 0 for no limit")
	fs.BoolVar(&cfg.telemetry.Enabled, "otel", false, "export OpenTelemetry metrics")
	fs.StringVar(&cfg.telemetry.ServiceName, "otel-service-name", cfg.telemetry.ServiceName, "OpenTelemetry service name")
	fs.StringVar(&cfg.telemetry.ExporterEndpoint, "otel-endpoint", cfg.telemetry.ExporterEndpoint, "OTLP endpoint, http(s) URL or gRPC host:port")
	fs.DurationVar(&cfg.telemetry.Interval, "otel-interval", cfg.telemetry.Interval, "metric export interval")

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "minesweeper serve [flags]",
		ShortHelp:  "serve games over HTTP and websockets",
		FlagSet:    fs,
		Options:    options(),
		Exec: func(ctx context.Context, _ []string) error {
			return execServe(ctx, cfg, stderr)
		},
	}
}

func execServe(ctx context.Context, cfg serveCfg, stderr io.Writer) error {
	logger, err := cfg.common.logger(stderr)
	if err != nil {
		return err
	}
	if cfg.origins != "" {
		cfg.web.AllowedOrigins = strings.Split(cfg.origins, ",")
	}

	metrics, err := telemetry.Init(ctx, cfg.telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			logger.Error("unable to flush metrics", "error", err)
		}
	}()

	store := game.NewStore(game.WithRecorder(metrics), game.WithLogger(logger))
	app := sweepweb.MakeApp(logger, cfg.web, store)

	lis, err := net.Listen("tcp", cfg.web.BindAddress)
	if err != nil {
		return err
	}
	if cfg.maxConns > 0 {
		lis = netutil.LimitListener(lis, cfg.maxConns)
	}
	return sweepweb.Serve(ctx, logger, lis, app.Handler())
}
