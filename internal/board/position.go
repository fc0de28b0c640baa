package board

import (
	"fmt"
	"strings"
)

// Position represents a complete chess position: the grid and the side to move.
//
// Position is a value type. The grid is an array, so assigning or passing a
// Position copies it, and Apply always returns a new value. No successor ever
// shares storage with its predecessor.
type Position struct {
	squares [64]Piece

	// SideToMove is the color whose turn it is.
	SideToMove Color
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates the starting position.
func NewPosition() Position {
	var p Position
	for file := 0; file < 8; file++ {
		p.squares[NewSquare(0, file)] = NewPiece(backRank[file], Black)
		p.squares[NewSquare(1, file)] = BlackPawn
		p.squares[NewSquare(6, file)] = WhitePawn
		p.squares[NewSquare(7, file)] = NewPiece(backRank[file], White)
	}
	p.SideToMove = White
	return p
}

// EmptyPosition returns a board with no pieces and the given side to move.
func EmptyPosition(side Color) Position {
	return Position{SideToMove: side}
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p Position) PieceAt(sq Square) Piece {
	sq.mustBeValid()
	return p.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// With returns a copy of the position with piece placed on sq
// (NoPiece clears the square). It is meant for setting up positions.
func (p Position) With(sq Square, piece Piece) Position {
	sq.mustBeValid()
	p.squares[sq] = piece
	return p
}

// WithSideToMove returns a copy of the position with a different side to move.
func (p Position) WithSideToMove(c Color) Position {
	p.SideToMove = c
	return p
}

// Apply plays m and returns the resulting position. The mover's piece lands on
// the destination, replacing whatever was there; a pawn reaching its last rank
// becomes a queen of its color. The side to move always flips. Apply does not
// check legality; use LegalMoves or IsLegal for that.
func (p Position) Apply(m Move) Position {
	from, to := m.From(), m.To()
	from.mustBeValid()
	to.mustBeValid()

	piece := p.squares[from]
	if piece != NoPiece {
		p.squares[to] = piece
		p.squares[from] = NoPiece
		if piece.Type() == Pawn && to.Rank() == promotionRank(piece.Color()) {
			p.squares[to] = NewPiece(Queen, piece.Color())
		}
	}
	p.SideToMove = p.SideToMove.Other()
	return p
}

// ApplyMove is Apply expressed with explicit source and destination squares.
func (p Position) ApplyMove(from, to Square) Position {
	return p.Apply(NewMove(from, to))
}

// KingSquare finds the king of the given color. The second result is false
// when that side has no king on the board.
func (p Position) KingSquare(c Color) (Square, bool) {
	king := NewPiece(King, c)
	for sq := Square(0); sq < NoSquare; sq++ {
		if p.squares[sq] == king {
			return sq, true
		}
	}
	return NoSquare, false
}

// InCheck returns true if the given side's king is attacked. A side without a
// king is always considered in check.
func (p Position) InCheck(c Color) bool {
	ksq, ok := p.KingSquare(c)
	if !ok {
		return true
	}
	return p.IsAttacked(ksq, c.Other())
}

// Count returns the number of pieces of the given color on the board.
func (p Position) Count(c Color) int {
	n := 0
	for _, piece := range p.squares {
		if piece != NoPiece && piece.Color() == c {
			n++
		}
	}
	return n
}

// PieceCount returns the total number of pieces on the board.
func (p Position) PieceCount() int {
	return p.Count(White) + p.Count(Black)
}

// String returns a visual representation of the position.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 0; rank < 8; rank++ {
		fmt.Fprintf(&sb, "%d  ", 8-rank)
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(rank, file)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	return sb.String()
}

// pawnDirection is the row delta of a pawn push for the given color.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// pawnStartRank is the row pawns of the given color start on.
func pawnStartRank(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRank is the row where pawns of the given color promote.
func promotionRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}
