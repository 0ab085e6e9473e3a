package board

// Reveal opens the cell at c and returns the resulting board.
//
// Finished games and marked cells are left unchanged. The first reveal
// resolves the provisional mine and starts the game. Hitting a mine after
// that opens every mine and loses; otherwise the cell is opened and zero
// cells flood outwards.
func (b *Board) Reveal(c Coord) (*Board, error) {
	if !b.size.Contains(c) {
		return nil, outOfBounds(c, b.size)
	}
	next := b.clone()
	if b.status.Terminal() {
		return next, nil
	}
	i := b.size.index(c)
	if b.cells.at(i).mark != MarkNone {
		return next, nil
	}

	ed := b.cells.edit()
	switch {
	case b.openedCells == 0:
		next.status = InProgress
		if ed.at(i).kind == KindMine {
			ed.disarm(b.size, i)
		} else if b.extra >= 0 {
			ed.disarm(b.size, b.extra)
		}
		next.extra = -1
	case ed.at(i).kind == KindMine:
		ed.openMines(b.size.Area())
		next.status = Lost
		next.cells = ed.done()
		return next, nil
	}

	next.flood(ed, i)
	next.cells = ed.done()
	if next.openedCells == next.size.Area()-next.mines {
		next.status = Won
	}
	return next, nil
}

// flood opens start and spreads through zero cells with an explicit stack.
// Opened cells lose their mark and give it back to remainingMarks.
func (b *Board) flood(ed *editor, start int) {
	stack := []int{start}
	seen := map[int]struct{}{start: {}}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cell := ed.at(i); cell.opened || cell.kind == KindMine {
			continue
		}
		cell := ed.cell(i)
		cell.opened = true
		b.openedCells++
		if cell.mark != MarkNone {
			cell.mark = MarkNone
			b.remainingMarks++
		}
		if cell.nearby > 0 {
			continue
		}
		b.size.eachNeighbor(i, func(j int) {
			if _, ok := seen[j]; ok {
				return
			}
			if n := ed.at(j); n.opened || n.kind == KindMine {
				return
			}
			seen[j] = struct{}{}
			stack = append(stack, j)
		})
	}
}

// disarm turns the mine at i into an empty cell and fixes the counts around
// it.
func (e *editor) disarm(size Size, i int) {
	n := 0
	size.eachNeighbor(i, func(j int) {
		if e.at(j).kind == KindMine {
			n++
			return
		}
		e.cell(j).nearby--
	})
	cell := e.cell(i)
	cell.kind = KindEmpty
	cell.nearby = uint8(n)
}

func (e *editor) openMines(area int) {
	for i := 0; i < area; i++ {
		if e.at(i).kind == KindMine {
			e.cell(i).opened = true
		}
	}
}
