package board

// Movement offsets as (row, file) deltas.
var (
	knightOffsets = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	bishopDirs    = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	rookDirs      = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs     = [8][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// PseudoMoves returns the destinations the piece on sq can reach by its
// movement rule, without regard to the safety of its own king. It works for
// either color regardless of the side to move, and returns nil for an empty
// square.
func (p Position) PseudoMoves(sq Square) []Square {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return nil
	}

	us := piece.Color()
	switch piece.Type() {
	case Pawn:
		return p.pawnMoves(sq, us)
	case Knight:
		return p.stepMoves(sq, us, knightOffsets[:])
	case Bishop:
		return p.slideMoves(sq, us, bishopDirs[:])
	case Rook:
		return p.slideMoves(sq, us, rookDirs[:])
	case Queen:
		return p.slideMoves(sq, us, queenDirs[:])
	case King:
		return p.stepMoves(sq, us, kingOffsets[:])
	}
	return nil
}

// pawnMoves generates pushes and diagonal captures. No en passant.
func (p Position) pawnMoves(from Square, us Color) []Square {
	var moves []Square
	dir := pawnDirection(us)

	if to, ok := from.offset(dir, 0); ok && p.squares[to] == NoPiece {
		moves = append(moves, to)
		if from.Rank() == pawnStartRank(us) {
			if to2, ok := from.offset(2*dir, 0); ok && p.squares[to2] == NoPiece {
				moves = append(moves, to2)
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.offset(dir, df)
		if !ok {
			continue
		}
		target := p.squares[to]
		if target != NoPiece && target.Color() != us {
			moves = append(moves, to)
		}
	}
	return moves
}

// stepMoves handles single-step pieces (knight, king).
func (p Position) stepMoves(from Square, us Color, offsets [][2]int) []Square {
	var moves []Square
	for _, o := range offsets {
		to, ok := from.offset(o[0], o[1])
		if !ok {
			continue
		}
		target := p.squares[to]
		if target == NoPiece || target.Color() != us {
			moves = append(moves, to)
		}
	}
	return moves
}

// slideMoves ray-casts along dirs, stopping at the first occupied square and
// including it only when it holds an opposing piece.
func (p Position) slideMoves(from Square, us Color, dirs [][2]int) []Square {
	var moves []Square
	for _, d := range dirs {
		to, ok := from.offset(d[0], d[1])
		for ok {
			target := p.squares[to]
			if target != NoPiece {
				if target.Color() != us {
					moves = append(moves, to)
				}
				break
			}
			moves = append(moves, to)
			to, ok = to.offset(d[0], d[1])
		}
	}
	return moves
}
