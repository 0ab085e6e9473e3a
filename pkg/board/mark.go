package board

// SetMark cycles the mark on the cell at c: none, flag, question, none.
// A flag is only placed while marks remain. Opened cells and finished games
// are left unchanged.
func (b *Board) SetMark(c Coord) (*Board, error) {
	if !b.size.Contains(c) {
		return nil, outOfBounds(c, b.size)
	}
	next := b.clone()
	i := b.size.index(c)
	cell := b.cells.at(i)
	if cell.opened || b.status.Terminal() {
		return next, nil
	}

	var mark Mark
	switch cell.mark {
	case MarkNone:
		if next.remainingMarks == 0 {
			return next, nil
		}
		next.remainingMarks--
		mark = MarkFlag
	case MarkFlag:
		mark = MarkQuestion
	case MarkQuestion:
		next.remainingMarks++
		mark = MarkNone
	}

	ed := b.cells.edit()
	ed.cell(i).mark = mark
	next.cells = ed.done()
	return next, nil
}
