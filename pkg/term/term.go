// Package term plays a minesweeper game in a terminal.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
)

const (
	headerRow  = 0
	boardTop   = 2
	cellWidth  = 2
	minWidth   = 13
	tickPeriod = time.Second
)

var (
	styleDefault  = tcell.StyleDefault
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleMine     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleFlag     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCounter  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	nearbyPalette = [...]tcell.Color{
		tcell.ColorDefault,
		tcell.ColorBlue,
		tcell.ColorGreen,
		tcell.ColorRed,
		tcell.ColorNavy,
		tcell.ColorMaroon,
		tcell.ColorTeal,
		tcell.ColorDefault,
		tcell.ColorGray,
	}
)

type quit struct{}

// UI draws a game on a tcell screen and turns keys and mouse clicks into
// moves.
type UI struct {
	screen tcell.Screen
	game   *game.Game
	logger *slog.Logger

	cursor board.Coord
	held   bool
}

// New returns a UI playing g on screen.
func New(screen tcell.Screen, g *game.Game, logger *slog.Logger) *UI {
	return &UI{screen: screen, game: g, logger: logger}
}

// Run processes events until the player quits or ctx is done. The screen
// must already be initialized.
func (ui *UI) Run(ctx context.Context) error {
	ui.screen.EnableMouse()
	ui.screen.HideCursor()
	ui.draw()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(tickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-ctx.Done():
				_ = ui.screen.PostEvent(tcell.NewEventInterrupt(quit{}))
				return
			case <-done:
				return
			}
		}
	}()

	for {
		ev := ui.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ui.handle(ev) {
			return nil
		}
		ui.draw()
	}
}

// handle applies one event and reports whether the loop should stop.
func (ui *UI) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ui.handleKey(ev)
	case *tcell.EventMouse:
		ui.handleMouse(ev)
	case *tcell.EventResize:
		ui.screen.Sync()
	case *tcell.EventInterrupt:
		_, stop := ev.Data().(quit)
		return stop
	}
	return false
}

func (ui *UI) handleKey(ev *tcell.EventKey) bool {
	size := ui.game.Config().Size()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		ui.moveCursor(-1, 0, size)
	case tcell.KeyDown:
		ui.moveCursor(1, 0, size)
	case tcell.KeyLeft:
		ui.moveCursor(0, -1, size)
	case tcell.KeyRight:
		ui.moveCursor(0, 1, size)
	case tcell.KeyEnter:
		ui.open()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			ui.moveCursor(-1, 0, size)
		case 'j':
			ui.moveCursor(1, 0, size)
		case 'h':
			ui.moveCursor(0, -1, size)
		case 'l':
			ui.moveCursor(0, 1, size)
		case ' ':
			ui.open()
		case 'f':
			ui.mark(ui.cursor)
		case 'r':
			if _, err := ui.game.Restart(); err != nil {
				ui.logger.Error("unable to restart", "error", err)
			}
		}
	}
	return false
}

func (ui *UI) moveCursor(dr, dc int, size board.Size) {
	next := board.Coord{Row: ui.cursor.Row + dr, Col: ui.cursor.Col + dc}
	if size.Contains(next) {
		ui.cursor = next
	}
}

func (ui *UI) open() {
	if _, err := ui.game.Open(ui.cursor); err != nil {
		ui.logger.Error("unable to open", "cell", ui.cursor.String(), "error", err)
	}
}

func (ui *UI) mark(c board.Coord) {
	if _, err := ui.game.Mark(c); err != nil {
		ui.logger.Error("unable to mark", "cell", c.String(), "error", err)
	}
}

// handleMouse maps a left press and release to Press and Release, and a
// right click to Mark.
func (ui *UI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	c, onBoard := ui.cellAt(x, y)
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button1 != 0:
		if ui.held {
			return
		}
		ui.held = true
		if onBoard {
			ui.cursor = c
		}
		ui.game.Press()
	case buttons&tcell.Button2 != 0:
		if onBoard {
			ui.cursor = c
			ui.mark(c)
		}
	case buttons == tcell.ButtonNone && ui.held:
		ui.held = false
		// a release off the board only clears the pressed state
		if _, err := ui.game.Release(c); err != nil && onBoard {
			ui.logger.Error("unable to release", "cell", c.String(), "error", err)
		}
	}
}

// origin is the screen column of the first cell.
func (ui *UI) origin() int {
	w, _ := ui.screen.Size()
	x := (w - ui.boardWidth()) / 2
	if x < 0 {
		return 0
	}
	return x
}

func (ui *UI) boardWidth() int {
	width := ui.game.Config().Cols*cellWidth - 1
	if width < minWidth {
		return minWidth
	}
	return width
}

func (ui *UI) cellAt(x, y int) (board.Coord, bool) {
	x0 := ui.origin()
	if x < x0 || y < boardTop {
		return board.Coord{Row: -1, Col: -1}, false
	}
	c := board.Coord{Row: y - boardTop, Col: (x - x0) / cellWidth}
	return c, ui.game.Config().Size().Contains(c)
}

func (ui *UI) draw() {
	b := ui.game.Snapshot()
	elapsed := int(ui.game.Elapsed() / time.Second)

	ui.screen.Clear()
	x0 := ui.origin()
	width := ui.boardWidth()

	ui.drawText(x0, headerRow, digits(b.RemainingMarks()), styleCounter)
	ui.drawCentered(x0, width, headerRow, face(b), styleDefault)
	clock := digits(elapsed)
	ui.drawText(x0+width-runewidth.StringWidth(clock), headerRow, clock, styleCounter)

	for r, row := range b.Cells() {
		for c, cell := range row {
			style := ui.cellStyle(b, cell)
			if ui.cursor == cell.Coord() {
				style = styleCursor
			}
			ui.drawText(x0+c*cellWidth, boardTop+r, b.Glyph(cell), style)
		}
	}

	footer := boardTop + b.Size().Rows + 1
	ui.drawCentered(x0, width, footer, status(b), styleDefault)
	ui.screen.Show()
}

func (ui *UI) cellStyle(b *board.Board, cell board.Cell) tcell.Style {
	switch b.Appearance(cell) {
	case board.Exploded, board.WrongFlag:
		return styleMine
	case board.Flagged, board.Questioned:
		return styleFlag
	case board.Open:
		n, _ := cell.NearbyMines()
		return styleDefault.Foreground(nearbyPalette[n])
	}
	return styleDefault
}

func (ui *UI) drawCentered(x0, width, y int, s string, style tcell.Style) {
	x := x0 + (width-runewidth.StringWidth(s))/2
	if x < 0 {
		x = 0
	}
	ui.drawText(x, y, s, style)
}

func (ui *UI) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ui.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func digits(n int) string {
	d := game.Digits(n)
	return fmt.Sprintf("%d%d%d", d[0], d[1], d[2])
}

func face(b *board.Board) string {
	switch {
	case b.Status() == board.Won:
		return "B)"
	case b.Status() == board.Lost:
		return ":("
	case b.Waiting():
		return ":o"
	}
	return ":)"
}

func status(b *board.Board) string {
	switch b.Status() {
	case board.Won:
		return "cleared! r: restart  q: quit"
	case board.Lost:
		return "boom. r: restart  q: quit"
	}
	return "f: mark  space: open"
}
