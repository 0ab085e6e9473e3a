package sweepweb

import (
	"time"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
)

// CellView never carries the content of a closed cell.
type CellView struct {
	State string `json:"state"`
	Count int    `json:"count,omitempty"`
}

// GameView is the JSON body returned for a game.
type GameView struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	Mines          int          `json:"mines"`
	RemainingMarks int          `json:"remaining_marks"`
	OpenedCells    int          `json:"opened_cells"`
	Waiting        bool         `json:"waiting"`
	Elapsed        int          `json:"elapsed"`
	Counters       [2][3]int    `json:"counters"`
	Cells          [][]CellView `json:"cells"`
}

// NewGameView renders b as seen by the player.
func NewGameView(id string, b *board.Board, elapsed time.Duration) GameView {
	size := b.Size()
	seconds := int(elapsed / time.Second)
	v := GameView{
		ID:             id,
		Status:         b.Status().String(),
		Rows:           size.Rows,
		Cols:           size.Cols,
		Mines:          b.Mines(),
		RemainingMarks: b.RemainingMarks(),
		OpenedCells:    b.OpenedCells(),
		Waiting:        b.Waiting(),
		Elapsed:        seconds,
		Counters:       [2][3]int{game.Digits(b.RemainingMarks()), game.Digits(seconds)},
		Cells:          make([][]CellView, size.Rows),
	}
	for r, row := range b.Cells() {
		v.Cells[r] = make([]CellView, len(row))
		for c, cell := range row {
			look := b.Appearance(cell)
			cv := CellView{State: look.String()}
			if look == board.Open {
				cv.Count, _ = cell.NearbyMines()
			}
			v.Cells[r][c] = cv
		}
	}
	return v
}
