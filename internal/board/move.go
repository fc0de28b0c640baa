package board

import "fmt"

// Move encodes a chess move in 12 bits:
// bits 0-5:  from square (0-63)
// bits 6-11: to square (0-63)
// Promotion is not encoded: a pawn reaching its last rank always becomes a queen.
type Move uint16

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// IsCapture returns true if the destination is occupied in pos.
func (m Move) IsCapture(pos Position) bool {
	return !pos.IsEmpty(m.To())
}

// IsPromotion returns true if the move takes a pawn to its last rank in pos.
func (m Move) IsPromotion(pos Position) bool {
	piece := pos.PieceAt(m.From())
	return piece.Type() == Pawn && m.To().Rank() == promotionRank(piece.Color())
}

// String returns the coordinate form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// UCI returns the move in UCI notation for pos, adding the "q" suffix
// on promotions.
func (m Move) UCI(pos Position) string {
	if m == NoMove {
		return "0000"
	}
	if m.IsPromotion(pos) {
		return m.String() + "q"
	}
	return m.String()
}

// ParseMove parses a coordinate move string such as "e2e4" or "e7e8q".
// Only queen promotions exist, so any suffix other than "q" is rejected.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 && s[4] != 'q' && s[4] != 'Q' {
		return NoMove, fmt.Errorf("unsupported promotion piece: %c", s[4])
	}

	return NewMove(from, to), nil
}
