package board

import (
	"io"
	"strconv"
	"strings"
)

// Appearance is what a player sees on a cell.
type Appearance uint8

const (
	Closed Appearance = iota
	Flagged
	Questioned
	WrongFlag // flagged non-mine on a lost board
	Open
	Exploded // opened mine
)

func (a Appearance) String() string {
	switch a {
	case Flagged:
		return "flag"
	case Questioned:
		return "question"
	case WrongFlag:
		return "wrongflag"
	case Open:
		return "open"
	case Exploded:
		return "mine"
	default:
		return "closed"
	}
}

// Appearance returns how cell shows on this board. A flag is wrong iff the
// flagged cell is not a mine, and that is only shown once the game is lost.
func (b *Board) Appearance(cell Cell) Appearance {
	switch {
	case cell.opened && cell.kind == KindMine:
		return Exploded
	case cell.opened:
		return Open
	case cell.mark == MarkFlag && b.status == Lost && cell.kind != KindMine:
		return WrongFlag
	case cell.mark == MarkFlag:
		return Flagged
	case cell.mark == MarkQuestion:
		return Questioned
	default:
		return Closed
	}
}

// Glyph returns the single-character rendering of cell.
func (b *Board) Glyph(cell Cell) string {
	switch b.Appearance(cell) {
	case Exploded:
		return "*"
	case Open:
		if cell.nearby == 0 {
			return "."
		}
		return strconv.Itoa(int(cell.nearby))
	case WrongFlag:
		return "X"
	case Flagged:
		return "F"
	case Questioned:
		return "?"
	default:
		return "-"
	}
}

// String renders the player's view, one line per row.
func (b *Board) String() string {
	var sb strings.Builder
	b.Fprint(&sb)
	return sb.String()
}

// Fprint writes the player's view to w.
func (b *Board) Fprint(w io.Writer) error {
	return b.print(w, b.Glyph)
}

// Fdump writes the full layout to w, closed cells included: "*" for mines
// and the adjacency count for empty cells.
func (b *Board) Fdump(w io.Writer) error {
	return b.print(w, func(cell Cell) string {
		if cell.kind == KindMine {
			return "*"
		}
		return strconv.Itoa(int(cell.nearby))
	})
}

func (b *Board) print(w io.Writer, glyph func(Cell) string) error {
	line := make([]string, b.size.Cols)
	for r := 0; r < b.size.Rows; r++ {
		for c := range line {
			line[c] = glyph(b.cells.at(r*b.size.Cols + c))
		}
		if _, err := io.WriteString(w, strings.Join(line, " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}
