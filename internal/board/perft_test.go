package board

import "testing"

// Perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
func perft(p Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.Moves(p.SideToMove)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		nodes += perft(p.Apply(m), depth-1)
	}
	return nodes
}

// TestPerftStartingPosition tests move generation from the starting position.
// Castling, en passant and promotion cannot occur within four plies, so the
// reference counts of standard chess apply unchanged.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if testing.Short() && tc.depth > 3 {
				t.Skip("skipping deep perft in short mode")
			}
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipeteNoCastling runs the Kiwipete position with castling rights
// removed. Deeper trees are compared node by node against an independent
// generator in oracle_test.go.
func TestPerftKiwipeteNoCastling(t *testing.T) {
	pos := MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1")

	// 48 in standard chess, minus the two castling moves.
	if got := perft(pos, 1); got != 46 {
		t.Errorf("perft(1) = %d, want 46", got)
	}
}
