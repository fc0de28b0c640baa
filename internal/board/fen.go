package board

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// StartFEN is the FEN string for the starting position. Castling rights are
// not part of this rule set, so they are written as "-".
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ParseFEN parses a FEN string and returns a Position. Only the piece
// placement and side to move are used; castling, en passant and the move
// counters are accepted and ignored.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return Position{}, fmt.Errorf("%w: need at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	var pos Position

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return Position{}, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return Position{}, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	return pos, nil
}

// MustParseFEN is like ParseFEN but panics on error. It simplifies tests and
// package-level fixtures.
func MustParseFEN(fen string) Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// parsePiecePlacement parses the piece placement section of a FEN string.
// FEN lists rank 8 first, which is row 0 of the grid.
func parsePiecePlacement(pos *Position, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}

	for rank, rowStr := range rows {
		file := 0

		for _, c := range rowStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, 8-rank)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				file += int(c - '0')
			} else {
				piece := NoPiece
				if c <= unicode.MaxASCII {
					piece = PieceFromChar(byte(c))
				}
				if piece == NoPiece {
					return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
				}
				pos.squares[NewSquare(rank, file)] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, 8-rank, file)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 0; rank < 8; rank++ {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(rank, file)]
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank < 7 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteString(" - - 0 1")
	return sb.String()
}
