package board

// chunkSize is the number of cells copied together on write.
const chunkSize = 64

// grid is a flat, row-major cell arena split into chunks. Snapshots share
// chunks; an editor copies a chunk the first time it writes to it.
type grid struct {
	chunks [][]Cell
}

func newGrid(area int) grid {
	n := (area + chunkSize - 1) / chunkSize
	chunks := make([][]Cell, n)
	for k := range chunks {
		size := chunkSize
		if rest := area - k*chunkSize; rest < size {
			size = rest
		}
		chunks[k] = make([]Cell, size)
	}
	return grid{chunks: chunks}
}

func (g grid) at(i int) Cell {
	return g.chunks[i/chunkSize][i%chunkSize]
}

type editor struct {
	grid
	owned []bool
}

func (g grid) edit() *editor {
	chunks := make([][]Cell, len(g.chunks))
	copy(chunks, g.chunks)
	return &editor{
		grid:  grid{chunks: chunks},
		owned: make([]bool, len(chunks)),
	}
}

// cell returns a writable pointer to cell i.
func (e *editor) cell(i int) *Cell {
	k := i / chunkSize
	if !e.owned[k] {
		e.chunks[k] = append([]Cell(nil), e.chunks[k]...)
		e.owned[k] = true
	}
	return &e.chunks[k][i%chunkSize]
}

func (e *editor) done() grid { return e.grid }
