package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
)

type simCfg struct {
	common commonFlags
	board  boardFlags
	layout string
	seed   int64
	dump   bool
}

func newSimCmd(stdout, stderr io.Writer) *ffcli.Command {
	var cfg simCfg
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.common.register(fs)
	cfg.board.register(fs, "beginner")
	fs.StringVar(&cfg.layout, "layout", "", "candidate mines as r:c,r:c,... (mines+1 cells)")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed, 0 picks one")
	fs.BoolVar(&cfg.dump, "dump", false, "print the full layout after the moves")

	return &ffcli.Command{
		Name:       "sim",
		ShortUsage: "minesweeper sim [flags] [open:r:c | mark:r:c | press | release:r:c ...]",
		ShortHelp:  "apply moves to a board and print it",
		FlagSet:    fs,
		Options:    options(),
		Exec: func(_ context.Context, args []string) error {
			cfg.board.visit(fs)
			return execSim(cfg, args, stdout, stderr)
		},
	}
}

func execSim(cfg simCfg, args []string, stdout, stderr io.Writer) error {
	logger, err := cfg.common.logger(stderr)
	if err != nil {
		return err
	}
	gcfg, err := cfg.board.resolve()
	if err != nil {
		return err
	}

	var opts []board.Option
	if cfg.layout != "" {
		coords, err := parseLayout(cfg.layout)
		if err != nil {
			return err
		}
		opts = append(opts, board.WithLayout(coords...))
	}
	if cfg.seed != 0 {
		opts = append(opts, board.WithRand(rand.New(rand.NewSource(cfg.seed))))
	}
	g, err := game.New(gcfg, game.WithLogger(logger), game.WithBoardOptions(opts...))
	if err != nil {
		return err
	}

	for _, arg := range args {
		if err := applyMove(g, arg); err != nil {
			return fmt.Errorf("move %q: %w", arg, err)
		}
	}

	b := g.Snapshot()
	if err := b.Fprint(stdout); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "status: %s marks: %d opened: %d\n", b.Status(), b.RemainingMarks(), b.OpenedCells())
	if cfg.dump {
		fmt.Fprintln(stdout, "layout:")
		return b.Fdump(stdout)
	}
	return nil
}

func applyMove(g *game.Game, move string) error {
	if move == "press" {
		g.Press()
		return nil
	}
	name, at, ok := strings.Cut(move, ":")
	if !ok {
		return errors.New("unknown move")
	}
	c, err := parseCoord(at)
	if err != nil {
		return err
	}
	switch name {
	case "open":
		_, err = g.Open(c)
	case "mark":
		_, err = g.Mark(c)
	case "release":
		_, err = g.Release(c)
	default:
		return fmt.Errorf("unknown move %q", name)
	}
	return err
}

// parseCoord reads "r:c".
func parseCoord(s string) (board.Coord, error) {
	rs, cs, ok := strings.Cut(s, ":")
	if !ok {
		return board.Coord{}, fmt.Errorf("invalid coordinate %q, want row:col", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return board.Coord{}, fmt.Errorf("invalid row in %q: %w", s, err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return board.Coord{}, fmt.Errorf("invalid column in %q: %w", s, err)
	}
	return board.Coord{Row: r, Col: c}, nil
}

func parseLayout(s string) ([]board.Coord, error) {
	parts := strings.Split(s, ",")
	coords := make([]board.Coord, 0, len(parts))
	for _, part := range parts {
		c, err := parseCoord(part)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}
