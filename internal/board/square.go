// Package board implements the chess rules on a plain 8x8 grid: position
// values, pseudo-legal move generation, attack detection, legality filtering
// and game status classification.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Squares are numbered row by row from the top of the board as White sees it:
// A8=0, H8=7, A1=56, H1=63. Rank() is therefore the row index, where row 0 is
// Black's back rank and row 7 is White's.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// NewSquare creates a square from a row index and a file index (0-indexed).
// It panics with a *SquareError if either index is off the board.
func NewSquare(rank, file int) Square {
	if !onBoard(rank, file) {
		panic(&SquareError{Rank: rank, File: file})
	}
	return Square(rank*8 + file)
}

// SquareAt is like NewSquare but reports off-board coordinates as an error.
func SquareAt(rank, file int) (Square, error) {
	if !onBoard(rank, file) {
		return NoSquare, &SquareError{Rank: rank, File: file}
	}
	return Square(rank*8 + file), nil
}

func onBoard(rank, file int) bool {
	return rank >= 0 && rank < 8 && file >= 0 && file < 8
}

// Rank returns the row index of the square (0 = rank "8", 7 = rank "1").
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '8'-sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	file := int(s[0]) - 'a'
	rank := '8' - int(s[1])

	if !onBoard(rank, file) {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return NewSquare(rank, file), nil
}

// offset returns the square dr rows and df files away, if it is on the board.
func (sq Square) offset(dr, df int) (Square, bool) {
	r, f := sq.Rank()+dr, sq.File()+df
	if !onBoard(r, f) {
		return NoSquare, false
	}
	return Square(r*8 + f), true
}

// mustBeValid fails fast on squares outside the board.
func (sq Square) mustBeValid() {
	if sq >= NoSquare {
		panic(&SquareError{Rank: sq.Rank(), File: sq.File()})
	}
}
