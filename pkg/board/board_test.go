package board

import (
	"math/rand"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeByThree has real mines at (2,0) and (2,2); (0,2) is provisional.
func threeByThree(t *testing.T) *Board {
	t.Helper()

	b, err := Initialize(Size{Rows: 3, Cols: 3}, 2, WithLayout(
		Coord{2, 2}, Coord{0, 2}, Coord{2, 0},
	))
	require.NoError(t, err)
	return b
}

func mustReveal(t *testing.T, b *Board, c Coord) *Board {
	t.Helper()

	next, err := b.Reveal(c)
	require.NoError(t, err)
	return next
}

func mustMark(t *testing.T, b *Board, c Coord) *Board {
	t.Helper()

	next, err := b.SetMark(c)
	require.NoError(t, err)
	return next
}

func countMines(b *Board) int {
	n := 0
	for _, row := range b.Cells() {
		for _, cell := range row {
			if cell.IsMine() {
				n++
			}
		}
	}
	return n
}

func requireConsistentCounts(t *testing.T, b *Board) {
	t.Helper()

	cells := b.Cells()
	size := b.Size()
	for i := 0; i < size.Area(); i++ {
		cell := cells[i/size.Cols][i%size.Cols]
		want := 0
		size.eachNeighbor(i, func(j int) {
			if cells[j/size.Cols][j%size.Cols].IsMine() {
				want++
			}
		})
		got, ok := cell.NearbyMines()
		if cell.IsMine() {
			require.False(t, ok)
			continue
		}
		require.True(t, ok)
		require.Equal(t, want, got, "count at %s", cell.Coord())
	}
}

type randomCase struct {
	Size   Size
	Mines  int
	Seed   int64
	Target Coord
}

func randomCases(n int) []randomCase {
	f := fuzz.NewWithSeed(7).NilChance(0).Funcs(func(rc *randomCase, c fuzz.Continue) {
		rc.Size = Size{Rows: 1 + c.Intn(14), Cols: 1 + c.Intn(14)}
		rc.Mines = c.Intn(rc.Size.Area())
		rc.Seed = c.Int63()
		rc.Target = Coord{Row: c.Intn(rc.Size.Rows), Col: c.Intn(rc.Size.Cols)}
	})
	cases := make([]randomCase, n)
	for i := range cases {
		f.Fuzz(&cases[i])
	}
	return cases
}

func (rc randomCase) board(t *testing.T) *Board {
	t.Helper()

	b, err := Initialize(rc.Size, rc.Mines, WithRand(rand.New(rand.NewSource(rc.Seed))))
	require.NoError(t, err)
	return b
}

func TestCell_NearbyMines(t *testing.T) {
	b := threeByThree(t)

	mine, err := b.Cell(Coord{2, 0})
	require.NoError(t, err)
	_, ok := mine.NearbyMines()
	assert.False(t, ok)
	assert.Equal(t, KindMine, mine.Kind())

	empty, err := b.Cell(Coord{1, 1})
	require.NoError(t, err)
	n, ok := empty.NearbyMines()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, Coord{1, 1}, empty.Coord())
}

func TestBoard_CellOutOfBounds(t *testing.T) {
	b := threeByThree(t)

	for _, c := range []Coord{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, err := b.Cell(c)
		assert.ErrorIs(t, err, ErrOutOfBounds, c.String())
	}
}

func TestBoard_SetWaiting(t *testing.T) {
	b := threeByThree(t)

	pressed := b.SetWaiting(true)
	assert.True(t, pressed.Waiting())
	assert.False(t, b.Waiting())
	assert.Equal(t, b.String(), pressed.String())

	// the engine carries the flag through without touching it
	next := mustReveal(t, pressed, Coord{0, 0})
	assert.True(t, next.Waiting())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "in-progress", InProgress.String())
	assert.Equal(t, "won", Won.String())
	assert.Equal(t, "lost", Lost.String())
	assert.False(t, InProgress.Terminal())
	assert.True(t, Lost.Terminal())
}

func TestGrid_CopyOnWrite(t *testing.T) {
	// 20x20 spans several chunks.
	b, err := Initialize(Size{Rows: 20, Cols: 20}, 0, WithLayout(Coord{19, 19}))
	require.NoError(t, err)
	before := b.String()

	next := mustReveal(t, b, Coord{0, 0})
	assert.Equal(t, Won, next.Status())
	assert.Equal(t, 400, next.OpenedCells())

	assert.Equal(t, before, b.String())
	assert.Equal(t, 0, b.OpenedCells())
	assert.Equal(t, Ready, b.Status())
}

func TestGrid_SharesUntouchedChunks(t *testing.T) {
	b, err := Initialize(Size{Rows: 20, Cols: 20}, 1, WithLayout(Coord{0, 0}, Coord{19, 19}))
	require.NoError(t, err)

	marked := mustMark(t, b, Coord{19, 18})
	last := len(b.cells.chunks) - 1
	assert.Same(t, &b.cells.chunks[0][0], &marked.cells.chunks[0][0])
	assert.NotSame(t, &b.cells.chunks[last][0], &marked.cells.chunks[last][0])
}
