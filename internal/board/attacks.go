package board

// IsAttacked reports whether side by could capture on sq with its next move,
// whoever is actually to move. It is a direct geometric test: knight offsets,
// adjacent kings, the two pawn diagonals, and the first piece met along each
// diagonal and orthogonal ray.
func (p Position) IsAttacked(sq Square, by Color) bool {
	sq.mustBeValid()

	knight := NewPiece(Knight, by)
	for _, o := range knightOffsets {
		if from, ok := sq.offset(o[0], o[1]); ok && p.squares[from] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, o := range kingOffsets {
		if from, ok := sq.offset(o[0], o[1]); ok && p.squares[from] == king {
			return true
		}
	}

	// A pawn attacks one row ahead of itself, so attackers sit one row
	// behind sq from their own point of view.
	pawn := NewPiece(Pawn, by)
	back := -pawnDirection(by)
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.offset(back, df); ok && p.squares[from] == pawn {
			return true
		}
	}

	if p.rayAttack(sq, bishopDirs[:], NewPiece(Bishop, by), NewPiece(Queen, by)) {
		return true
	}
	return p.rayAttack(sq, rookDirs[:], NewPiece(Rook, by), NewPiece(Queen, by))
}

// rayAttack returns true if the first piece along any of dirs is a or b.
func (p Position) rayAttack(sq Square, dirs [][2]int, a, b Piece) bool {
	for _, d := range dirs {
		from, ok := sq.offset(d[0], d[1])
		for ok {
			piece := p.squares[from]
			if piece != NoPiece {
				if piece == a || piece == b {
					return true
				}
				break // Blocked
			}
			from, ok = from.offset(d[0], d[1])
		}
	}
	return false
}
