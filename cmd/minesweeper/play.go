package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/peterbourgon/ff/v3/ffcli"
	xterm "golang.org/x/term"

	"github.com/grepsuzette/minesweeper/pkg/game"
	"github.com/grepsuzette/minesweeper/pkg/log"
	"github.com/grepsuzette/minesweeper/pkg/term"
)

var errNotATerminal = errors.New("play needs an interactive terminal")

type playCfg struct {
	common  commonFlags
	board   boardFlags
	logFile string
}

func newPlayCmd(stderr io.Writer) *ffcli.Command {
	var cfg playCfg
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.common.register(fs)
	cfg.board.register(fs, "beginner")
	fs.StringVar(&cfg.logFile, "log-file", "", "write logs to this file instead of discarding them")

	return &ffcli.Command{
		Name:       "play",
		ShortUsage: "minesweeper play [flags]",
		ShortHelp:  "play in the terminal",
		LongHelp: "Arrows or hjkl move, space or enter opens, f cycles the mark, " +
			"r restarts and q quits. The mouse works too.",
		FlagSet: fs,
		Options: options(),
		Exec: func(ctx context.Context, _ []string) error {
			cfg.board.visit(fs)
			return execPlay(ctx, cfg)
		},
	}
}

func execPlay(ctx context.Context, cfg playCfg) error {
	if !xterm.IsTerminal(int(os.Stdin.Fd())) || !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return errNotATerminal
	}
	gcfg, err := cfg.board.resolve()
	if err != nil {
		return err
	}

	// the screen owns stdout and stderr while playing
	logger := log.NewNoopLogger()
	if cfg.logFile != "" {
		f, err := os.Create(cfg.logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if logger, err = cfg.common.logger(f); err != nil {
			return err
		}
	}

	g, err := game.New(gcfg, game.WithLogger(logger))
	if err != nil {
		return err
	}
	return play(ctx, g, logger)
}

func play(ctx context.Context, g *game.Game, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	logger.Info("playing", "config", g.Config().String())
	return term.New(screen, g, logger).Run(ctx)
}
