package engine

import "github.com/hailam/retrochess/internal/board"

// Evaluate returns the material balance of pos in centipawns from White's
// point of view: positive when White is ahead, negative when Black is.
// Kings carry no weight. Nothing else is scored.
func Evaluate(pos board.Position) int {
	score := 0
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		if piece.Color() == board.White {
			score += piece.Value()
		} else {
			score -= piece.Value()
		}
	}
	return score
}
