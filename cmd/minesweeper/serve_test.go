package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grepsuzette/minesweeper/pkg/sweepweb"
	"github.com/grepsuzette/minesweeper/pkg/telemetry"
)

func TestExecServe_StopsWithContext(t *testing.T) {
	cfg := serveCfg{
		common:    commonFlags{logLevel: "info", logFormat: "json"},
		web:       sweepweb.NewDefaultConfig(),
		origins:   "https://a.example,https://b.example",
		maxConns:  4,
		telemetry: telemetry.DefaultConfig(),
	}
	cfg.web.BindAddress = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	require.NoError(t, execServe(ctx, cfg, &stderr))
	assert.Contains(t, stderr.String(), "serving minesweeper")
	assert.Contains(t, stderr.String(), "shutting down")
}

func TestExecServe_BadBind(t *testing.T) {
	cfg := serveCfg{
		common: commonFlags{logLevel: "info", logFormat: "console"},
		web:    sweepweb.NewDefaultConfig(),
	}
	cfg.web.BindAddress = "not-an-address"

	var stderr bytes.Buffer
	assert.Error(t, execServe(context.Background(), cfg, &stderr))
}
