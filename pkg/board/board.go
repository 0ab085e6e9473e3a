// Package board implements the minesweeper board engine: mine layout
// generation, adjacency counts, and the reveal and mark transitions.
//
// A *Board is an immutable snapshot. Every operation returns a new snapshot
// and leaves its receiver untouched, so callers may keep old boards around.
package board

import "fmt"

// Coord is a zero-based cell position.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Size is the board dimension in cells.
type Size struct {
	Rows int
	Cols int
}

// Area returns the number of cells. Callers must have validated that it
// does not overflow.
func (s Size) Area() int { return s.Rows * s.Cols }

// Contains reports whether c lies inside the board.
func (s Size) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < s.Rows && c.Col >= 0 && c.Col < s.Cols
}

func (s Size) index(c Coord) int { return c.Row*s.Cols + c.Col }

func (s Size) coord(i int) Coord { return Coord{Row: i / s.Cols, Col: i % s.Cols} }

// eachNeighbor calls fn with the arena index of every in-bounds cell
// around i.
func (s Size) eachNeighbor(i int, fn func(j int)) {
	row, col := i/s.Cols, i%s.Cols
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if r >= 0 && r < s.Rows && c >= 0 && c < s.Cols {
				fn(r*s.Cols + c)
			}
		}
	}
}

// Mark is a player annotation on a closed cell.
type Mark uint8

const (
	MarkNone Mark = iota
	MarkFlag
	MarkQuestion
)

func (m Mark) String() string {
	switch m {
	case MarkNone:
		return "none"
	case MarkFlag:
		return "flag"
	case MarkQuestion:
		return "question"
	default:
		return fmt.Sprintf("Mark(%d)", uint8(m))
	}
}

// Kind tags a cell as empty or mined.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindMine
)

func (k Kind) String() string {
	if k == KindMine {
		return "mine"
	}
	return "empty"
}

// Status is the game phase of a board.
type Status uint8

const (
	Ready Status = iota
	InProgress
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case InProgress:
		return "in-progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Terminal reports whether no further cell changes are allowed.
func (s Status) Terminal() bool { return s == Won || s == Lost }

// Cell is a single square. Mine cells carry no adjacency count.
type Cell struct {
	kind   Kind
	opened bool
	mark   Mark
	coord  Coord
	nearby uint8
}

// Kind reports whether the cell holds a mine.
func (c Cell) Kind() Kind { return c.kind }

// IsMine is shorthand for Kind() == KindMine.
func (c Cell) IsMine() bool { return c.kind == KindMine }

// Opened reports whether the cell has been revealed.
func (c Cell) Opened() bool { return c.opened }

// Mark returns the player's mark on the cell.
func (c Cell) Mark() Mark { return c.mark }

// Coord returns the cell position.
func (c Cell) Coord() Coord { return c.coord }

// NearbyMines returns the number of mines around an empty cell. ok is false
// for mine cells.
func (c Cell) NearbyMines() (n int, ok bool) {
	if c.kind == KindMine {
		return 0, false
	}
	return int(c.nearby), true
}

// Board is an immutable snapshot of a game.
type Board struct {
	status         Status
	size           Size
	mines          int
	remainingMarks int
	openedCells    int
	waiting        bool

	// extra is the arena index of the provisional mine that is resolved on
	// the first reveal; -1 once resolved.
	extra int

	cells grid
}

// Status returns the game phase.
func (b *Board) Status() Status { return b.status }

// Size returns the board dimensions.
func (b *Board) Size() Size { return b.size }

// Mines returns the number of real mines.
func (b *Board) Mines() int { return b.mines }

// RemainingMarks returns how many marks the player may still place.
func (b *Board) RemainingMarks() int { return b.remainingMarks }

// OpenedCells counts revealed empty cells.
func (b *Board) OpenedCells() int { return b.openedCells }

// Waiting reports the press-and-hold flag owned by the input layer.
func (b *Board) Waiting() bool { return b.waiting }

// SetWaiting returns a snapshot with only the waiting flag changed.
func (b *Board) SetWaiting(waiting bool) *Board {
	next := b.clone()
	next.waiting = waiting
	return next
}

// Cell returns the cell at c.
func (b *Board) Cell(c Coord) (Cell, error) {
	if !b.size.Contains(c) {
		return Cell{}, outOfBounds(c, b.size)
	}
	return b.cells.at(b.size.index(c)), nil
}

// Cells returns a row-major copy of the grid.
func (b *Board) Cells() [][]Cell {
	rows := make([][]Cell, b.size.Rows)
	for r := range rows {
		rows[r] = make([]Cell, b.size.Cols)
		for c := range rows[r] {
			rows[r][c] = b.cells.at(r*b.size.Cols + c)
		}
	}
	return rows
}

// WrongFlags returns the flagged cells that do not hold a mine, in row-major
// order. Renderers show them once the game is lost.
func (b *Board) WrongFlags() []Coord {
	var wrong []Coord
	for i := 0; i < b.size.Area(); i++ {
		cell := b.cells.at(i)
		if cell.mark == MarkFlag && cell.kind != KindMine {
			wrong = append(wrong, cell.coord)
		}
	}
	return wrong
}

// clone copies the header; the grid chunks stay shared until edited.
func (b *Board) clone() *Board {
	next := *b
	return &next
}
