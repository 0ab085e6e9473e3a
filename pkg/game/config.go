package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/overflow"
	"go.uber.org/multierr"

	"github.com/grepsuzette/minesweeper/pkg/board"
)

// Config describes a board to deal.
type Config struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Mines int `json:"mines"`
}

var (
	Beginner     = Config{Rows: 9, Cols: 9, Mines: 10}
	Intermediate = Config{Rows: 16, Cols: 16, Mines: 40}
	Expert       = Config{Rows: 16, Cols: 30, Mines: 99}
)

var presets = map[string]Config{
	"beginner":     Beginner,
	"intermediate": Intermediate,
	"expert":       Expert,
}

// ErrUnknownPreset is returned by Preset for names it does not know.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset looks up a named configuration.
func Preset(name string) (Config, error) {
	cfg, ok := presets[strings.ToLower(name)]
	if !ok {
		return Config{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return cfg, nil
}

// PresetNames lists the known presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the board dimensions.
func (c Config) Size() board.Size {
	return board.Size{Rows: c.Rows, Cols: c.Cols}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var err error
	if c.Rows < 1 {
		err = multierr.Append(err, fmt.Errorf("rows must be positive, got %d", c.Rows))
	}
	if c.Cols < 1 {
		err = multierr.Append(err, fmt.Errorf("cols must be positive, got %d", c.Cols))
	}
	if c.Mines < 0 {
		err = multierr.Append(err, fmt.Errorf("mines must not be negative, got %d", c.Mines))
	}
	if c.Rows > 0 && c.Cols > 0 {
		area, ok := overflow.Mul(c.Rows, c.Cols)
		switch {
		case !ok:
			err = multierr.Append(err, fmt.Errorf("%dx%d cells overflow", c.Rows, c.Cols))
		case c.Mines >= area:
			err = multierr.Append(err, fmt.Errorf("%d mines do not fit on %d cells", c.Mines, area))
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", board.ErrInvalidConfiguration, err)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d/%d", c.Rows, c.Cols, c.Mines)
}
