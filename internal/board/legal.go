package board

// PieceMoves groups the legal destinations of one piece.
type PieceMoves struct {
	From Square
	To   []Square
}

// LegalMoves returns the destinations of the piece on sq that do not leave
// its own king attacked. Each candidate is played on a copy of the position
// and the king is probed afterwards; rejected moves are simply left out.
// The color of the piece decides whose king is probed, not the side to move.
func (p Position) LegalMoves(sq Square) []Square {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return nil
	}
	us := piece.Color()

	var legal []Square
	for _, to := range p.PseudoMoves(sq) {
		next := p.Apply(NewMove(sq, to))
		if !next.InCheck(us) {
			legal = append(legal, to)
		}
	}
	return legal
}

// AllLegalMoves returns the legal moves of every piece of the given side,
// scanning the board from a8 to h1. Pieces without legal moves are omitted.
func (p Position) AllLegalMoves(side Color) []PieceMoves {
	var result []PieceMoves
	for sq := Square(0); sq < NoSquare; sq++ {
		piece := p.squares[sq]
		if piece == NoPiece || piece.Color() != side {
			continue
		}
		if to := p.LegalMoves(sq); len(to) > 0 {
			result = append(result, PieceMoves{From: sq, To: to})
		}
	}
	return result
}

// Moves flattens AllLegalMoves into a list of moves in generation order.
func (p Position) Moves(side Color) []Move {
	var moves []Move
	for _, pm := range p.AllLegalMoves(side) {
		for _, to := range pm.To {
			moves = append(moves, NewMove(pm.From, to))
		}
	}
	return moves
}

// HasLegalMoves returns true if the given side has at least one legal move.
func (p Position) HasLegalMoves(side Color) bool {
	for sq := Square(0); sq < NoSquare; sq++ {
		piece := p.squares[sq]
		if piece == NoPiece || piece.Color() != side {
			continue
		}
		if len(p.LegalMoves(sq)) > 0 {
			return true
		}
	}
	return false
}

// IsLegal returns true if m moves a piece of the side to move to one of its
// legal destinations.
func (p Position) IsLegal(m Move) bool {
	from, to := m.From(), m.To()
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	piece := p.squares[from]
	if piece == NoPiece || piece.Color() != p.SideToMove {
		return false
	}
	for _, dst := range p.LegalMoves(from) {
		if dst == to {
			return true
		}
	}
	return false
}
