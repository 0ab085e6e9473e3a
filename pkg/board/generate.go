package board

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/gnolang/overflow"
)

type options struct {
	rng    *rand.Rand
	layout []Coord
}

// Option configures Initialize.
type Option func(*options)

// WithRand sets the generator used to place mines.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLayout forces the candidate mine coordinates instead of drawing them.
// Exactly mines+1 distinct in-bounds coordinates are required; the first one
// in row-major order becomes the provisional mine.
func WithLayout(coords ...Coord) Option {
	return func(o *options) { o.layout = append([]Coord(nil), coords...) }
}

// Initialize builds a ready board of the given size with mines mines.
//
// It places mines+1 candidate mines. The first candidate in row-major order
// is provisional: the first Reveal turns one candidate back into an empty
// cell so that the first click never loses.
func Initialize(size Size, mines int, opts ...Option) (*Board, error) {
	if size.Rows < 1 || size.Cols < 1 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidConfiguration, size.Rows, size.Cols)
	}
	area, ok := overflow.Mul(size.Rows, size.Cols)
	if !ok {
		return nil, fmt.Errorf("%w: size %dx%d overflows", ErrInvalidConfiguration, size.Rows, size.Cols)
	}
	if mines < 0 || mines >= area {
		return nil, fmt.Errorf("%w: %d mines on %d cells", ErrInvalidConfiguration, mines, area)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var candidates map[int]struct{}
	if o.layout != nil {
		var err error
		if candidates, err = layoutIndexes(size, mines+1, o.layout); err != nil {
			return nil, err
		}
	} else {
		rng := o.rng
		if rng == nil {
			rng = newRand()
		}
		candidates = drawMines(size, mines+1, rng)
	}

	b := &Board{
		status:         Ready,
		size:           size,
		mines:          mines,
		remainingMarks: mines,
		extra:          -1,
	}
	ed := newGrid(area).edit()
	for i := 0; i < area; i++ {
		cell := ed.cell(i)
		cell.coord = size.coord(i)
		if _, ok := candidates[i]; ok {
			cell.kind = KindMine
			if b.extra < 0 {
				b.extra = i
			}
		}
	}
	for i := 0; i < area; i++ {
		if ed.at(i).kind == KindMine {
			continue
		}
		n := 0
		size.eachNeighbor(i, func(j int) {
			if _, ok := candidates[j]; ok {
				n++
			}
		})
		ed.cell(i).nearby = uint8(n)
	}
	b.cells = ed.done()
	return b, nil
}

// drawMines picks n distinct cells by rejection sampling. Draws are keyed by
// batchKey; the result is keyed by arena index.
func drawMines(size Size, n int, rng *rand.Rand) map[int]struct{} {
	keys := make(map[int]struct{}, n)
	mines := make(map[int]struct{}, n)
	for len(mines) < n {
		c := Coord{Row: rng.Intn(size.Rows), Col: rng.Intn(size.Cols)}
		key := batchKey(c, size)
		if _, ok := keys[key]; ok {
			continue
		}
		keys[key] = struct{}{}
		mines[size.index(c)] = struct{}{}
	}
	return mines
}

// batchKey packs a coordinate into one integer as row*10^d + col, where d is
// the decimal width of the larger dimension; (12, 9) on a 16x16 board is
// 1209.
func batchKey(c Coord, size Size) int {
	digits := len(strconv.Itoa(max(size.Rows, size.Cols)))
	shift := 1
	for i := 0; i < digits; i++ {
		shift *= 10
	}
	return c.Row*shift + c.Col
}

func layoutIndexes(size Size, n int, layout []Coord) (map[int]struct{}, error) {
	if len(layout) != n {
		return nil, fmt.Errorf("%w: layout has %d mines, want %d", ErrInvalidConfiguration, len(layout), n)
	}
	mines := make(map[int]struct{}, n)
	for _, c := range layout {
		if !size.Contains(c) {
			return nil, fmt.Errorf("%w: layout mine %s", ErrInvalidConfiguration, c)
		}
		i := size.index(c)
		if _, ok := mines[i]; ok {
			return nil, fmt.Errorf("%w: duplicate layout mine %s", ErrInvalidConfiguration, c)
		}
		mines[i] = struct{}{}
	}
	return mines, nil
}

func newRand() *rand.Rand {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}
