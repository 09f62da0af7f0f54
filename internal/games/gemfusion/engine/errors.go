package engine

import "errors"

// Swap rejection errors. A rejected swap never changes session state.
var (
	ErrOutOfBounds = errors.New("engine: cell out of bounds")
	ErrNotAdjacent = errors.New("engine: cells are not adjacent")
	ErrHole        = errors.New("engine: cell is a hole")
	ErrEmptyCell   = errors.New("engine: cell is empty")
	ErrBlocked     = errors.New("engine: cell is blocked")
	ErrSessionOver = errors.New("engine: session is over")
	ErrBusy        = errors.New("engine: a move is already in progress")
)
