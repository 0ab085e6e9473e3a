// Package game keeps a live minesweeper session around the immutable board
// engine: the current snapshot, the game clock, restarts and observers.
package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/log"
)

// Recorder receives game outcomes.
type Recorder interface {
	GameStarted(cfg Config)
	GameFinished(cfg Config, status board.Status, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) GameStarted(Config) {}

func (nopRecorder) GameFinished(Config, board.Status, time.Duration) {}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger for moves and outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithRecorder reports game starts and outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(g *Game) { g.recorder = r }
}

// WithClock replaces time.Now for the game timer.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithBoardOptions is passed to board.Initialize on every deal.
func WithBoardOptions(opts ...board.Option) Option {
	return func(g *Game) { g.boardOpts = append(g.boardOpts, opts...) }
}

// Game is safe for concurrent use. Moves are applied one at a time in the
// order the lock is acquired.
type Game struct {
	cfg       Config
	logger    *slog.Logger
	recorder  Recorder
	now       func() time.Time
	boardOpts []board.Option

	mu      sync.Mutex
	current *board.Board
	started time.Time
	stopped time.Time
	subs    map[chan *board.Board]struct{}
	closed  bool
}

// New deals a fresh board for cfg.
func New(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		logger:   log.NewNoopLogger(),
		recorder: nopRecorder{},
		now:      time.Now,
		subs:     make(map[chan *board.Board]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	b, err := board.Initialize(cfg.Size(), cfg.Mines, g.boardOpts...)
	if err != nil {
		return nil, err
	}
	g.current = b
	return g, nil
}

// Config returns the board configuration the game deals.
func (g *Game) Config() Config { return g.cfg }

// Snapshot returns the current board.
func (g *Game) Snapshot() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.current
}

// Open reveals the cell at c.
func (g *Game) Open(c board.Coord) (*board.Board, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := g.current.Reveal(c)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("open", "row", c.Row, "col", c.Col, "status", next.Status().String())
	g.apply(next)
	return next, nil
}

// Mark cycles the mark on the cell at c.
func (g *Game) Mark(c board.Coord) (*board.Board, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := g.current.SetMark(c)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("mark", "row", c.Row, "col", c.Col, "remaining", next.RemainingMarks())
	g.apply(next)
	return next, nil
}

// Press records a pressed-but-not-released input. It is ignored once the
// game is over.
func (g *Game) Press() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current.Status().Terminal() || g.current.Waiting() {
		return g.current
	}
	g.apply(g.current.SetWaiting(true))
	return g.current
}

// Release ends a press and opens the cell under it. On a finished game it
// only clears the pressed state.
func (g *Game) Release(c board.Coord) (*board.Board, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current.Status().Terminal() {
		if g.current.Waiting() {
			g.apply(g.current.SetWaiting(false))
		}
		return g.current, nil
	}
	released := g.current.SetWaiting(false)
	next, err := released.Reveal(c)
	if err != nil {
		g.apply(released)
		return nil, err
	}
	g.logger.Debug("release", "row", c.Row, "col", c.Col, "status", next.Status().String())
	g.apply(next)
	return next, nil
}

// Restart discards the current board and deals a new one.
func (g *Game) Restart() (*board.Board, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, err := board.Initialize(g.cfg.Size(), g.cfg.Mines, g.boardOpts...)
	if err != nil {
		return nil, err
	}
	g.started, g.stopped = time.Time{}, time.Time{}
	g.logger.Debug("restart", "config", g.cfg.String())
	g.current = b
	g.publish(b)
	return b, nil
}

// Elapsed is the time spent since the first reveal, frozen once the game
// ends.
func (g *Game) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.elapsed()
}

func (g *Game) elapsed() time.Duration {
	switch {
	case g.started.IsZero():
		return 0
	case !g.stopped.IsZero():
		return g.stopped.Sub(g.started)
	default:
		return g.now().Sub(g.started)
	}
}

// apply installs next and handles clock and outcome transitions.
func (g *Game) apply(next *board.Board) {
	prev := g.current
	g.current = next

	if prev.Status() == board.Ready && next.Status() != board.Ready {
		g.started = g.now()
		g.recorder.GameStarted(g.cfg)
	}
	if !prev.Status().Terminal() && next.Status().Terminal() {
		g.stopped = g.now()
		elapsed := g.elapsed()
		g.recorder.GameFinished(g.cfg, next.Status(), elapsed)
		g.logger.Info("game finished",
			"status", next.Status().String(),
			"config", g.cfg.String(),
			"elapsed", elapsed.Round(time.Second).String(),
		)
	}
	g.publish(next)
}

// Subscribe returns a channel receiving every new snapshot. Slow readers
// miss intermediate snapshots rather than blocking the game.
func (g *Game) Subscribe() <-chan *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := make(chan *board.Board, 1)
	if g.closed {
		close(ch)
		return ch
	}
	g.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe stops and closes a channel returned by Subscribe.
func (g *Game) Unsubscribe(sub <-chan *board.Board) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for ch := range g.subs {
		if ch == sub {
			delete(g.subs, ch)
			close(ch)
			return
		}
	}
}

// Close closes every subscription. The game stays playable.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	for ch := range g.subs {
		delete(g.subs, ch)
		close(ch)
	}
}

func (g *Game) publish(b *board.Board) {
	for ch := range g.subs {
		// keep only the newest snapshot in the buffer
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- b:
		default:
		}
	}
}
