package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrOutOfBounds          = errors.New("coordinate out of bounds")
)

func outOfBounds(c Coord, size Size) error {
	return fmt.Errorf("%w: %s on a %dx%d board", ErrOutOfBounds, c, size.Rows, size.Cols)
}
