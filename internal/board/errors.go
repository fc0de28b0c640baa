package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSquare indicates coordinates outside the 8x8 board.
var ErrInvalidSquare = errors.New("invalid square")

// ErrInvalidFEN indicates a malformed FEN string.
var ErrInvalidFEN = errors.New("invalid FEN")

// SquareError carries the offending coordinates of an off-board square.
// Core operations panic with it, since passing such a square is a programming
// error; recover and use errors.Is(err, ErrInvalidSquare) to classify it.
type SquareError struct {
	Rank int
	File int
}

func (e *SquareError) Error() string {
	return fmt.Sprintf("invalid square: rank index %d, file index %d", e.Rank, e.File)
}

// Unwrap enables errors.Is(err, ErrInvalidSquare).
func (e *SquareError) Unwrap() error {
	return ErrInvalidSquare
}
