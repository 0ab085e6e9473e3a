// Command minesweeper plays minesweeper in a terminal, serves games over
// HTTP, or replays scripted moves for debugging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/fftoml"
	"go.uber.org/zap/zapcore"

	"github.com/grepsuzette/minesweeper/pkg/game"
	"github.com/grepsuzette/minesweeper/pkg/log"
)

const envPrefix = "MINESWEEPER"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stdout, stderr)
	if err := root.ParseAndRun(ctx, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *ffcli.Command {
	fs := flag.NewFlagSet("minesweeper", flag.ContinueOnError)
	fs.SetOutput(stderr)
	return &ffcli.Command{
		Name:       "minesweeper",
		ShortUsage: "minesweeper <subcommand> [flags] [args...]",
		FlagSet:    fs,
		Subcommands: []*ffcli.Command{
			newPlayCmd(stderr),
			newServeCmd(stderr),
			newSimCmd(stdout, stderr),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	config    string
	logLevel  string
	logFormat string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "optional TOML config file")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&c.logFormat, "log-format", string(log.ConsoleFormat), "log format (console, json)")
}

func (c *commonFlags) logger(w io.Writer) (*slog.Logger, error) {
	level, err := zapcore.ParseLevel(c.logLevel)
	if err != nil {
		return nil, err
	}
	format := log.Format(c.logFormat)
	switch format {
	case log.ConsoleFormat, log.JSONFormat:
	default:
		return nil, fmt.Errorf("unknown log format %q", c.logFormat)
	}
	return log.ZapLoggerToSlog(log.NewZapLogger(w, format, level)), nil
}

// options makes every flag settable from MINESWEEPER_* variables and from
// the -config file.
func options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(envPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(fftoml.Parser),
		ff.WithAllowMissingConfigFile(true),
	}
}

// boardFlags pick a preset or a custom board.
type boardFlags struct {
	preset    string
	rows      int
	cols      int
	mines     int
	presetSet bool
}

func (b *boardFlags) register(fs *flag.FlagSet, preset string) {
	fs.StringVar(&b.preset, "preset", preset, "board preset (beginner, intermediate, expert)")
	fs.IntVar(&b.rows, "rows", 0, "custom board rows")
	fs.IntVar(&b.cols, "cols", 0, "custom board columns")
	fs.IntVar(&b.mines, "mines", 0, "custom board mines")
}

// visit records whether -preset was given by a flag, the environment or the
// config file. It must run after parsing.
func (b *boardFlags) visit(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "preset" {
			b.presetSet = true
		}
	})
}

// resolve prefers an explicitly set preset, then custom dimensions, then the
// default preset.
func (b *boardFlags) resolve() (game.Config, error) {
	if !b.presetSet && (b.rows != 0 || b.cols != 0 || b.mines != 0) {
		cfg := game.Config{Rows: b.rows, Cols: b.cols, Mines: b.mines}
		return cfg, cfg.Validate()
	}
	return game.Preset(b.preset)
}
