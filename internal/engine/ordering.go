package engine

import "github.com/hailam/retrochess/internal/board"

// orderMoves puts captures ahead of quiet moves. Within each group the
// generation order is kept, so the result is deterministic and ties in the
// search resolve to the earliest generated move.
func orderMoves(pos board.Position, moves []board.Move) []board.Move {
	ordered := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if m.IsCapture(pos) {
			ordered = append(ordered, m)
		}
	}
	for _, m := range moves {
		if !m.IsCapture(pos) {
			ordered = append(ordered, m)
		}
	}
	return ordered
}
