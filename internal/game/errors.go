package game

import "errors"

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrNoMoveToUndo      = errors.New("no moves to undo")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrInvalidPosition   = errors.New("invalid position")
)
