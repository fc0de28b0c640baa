package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/retrochess/internal/board"
)

// minimax is the unpruned reference search, visiting moves in the same order.
func minimax(pos board.Position, depth int) SearchResult {
	us := pos.SideToMove
	moves := pos.Moves(us)
	if len(moves) == 0 {
		return SearchResult{Score: terminalScore(pos, us)}
	}
	if depth == 0 {
		return SearchResult{Score: Evaluate(pos)}
	}

	best := SearchResult{Score: Infinity}
	if us == board.White {
		best.Score = -Infinity
	}
	for _, m := range orderMoves(pos, moves) {
		score := minimax(pos.Apply(m), depth-1).Score
		if (us == board.White && score > best.Score) || (us == board.Black && score < best.Score) {
			best = SearchResult{Score: score, Move: m}
		}
	}
	return best
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start", board.StartFEN, 3},
		{"open game", "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 2 3", 3},
		{"open game black", "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b - - 2 3", 2},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1", 2},
		{"promotion race", "8/P6k/8/8/8/8/6Kp/8 w - - 0 1", 3},
		{"back rank", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if testing.Short() && tc.depth > 2 {
				t.Skip("skipping deep search in short mode")
			}
			pos := board.MustParseFEN(tc.fen)
			want := minimax(pos, tc.depth)
			got := BestMove(pos, pos.SideToMove, tc.depth)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("alpha-beta differs from minimax (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeepSearchIsNotCapped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep search in short mode")
	}

	// Kings in the corners and one pawn keep the full tree small.
	pos := board.MustParseFEN("k7/8/8/8/8/8/P7/7K w - - 0 1")
	for _, depth := range []int{7, 8} {
		want := minimax(pos, depth)
		if diff := cmp.Diff(want, BestMove(pos, board.White, depth)); diff != "" {
			t.Errorf("depth %d: alpha-beta differs from minimax (-want +got):\n%s", depth, diff)
		}
	}

	kings := board.MustParseFEN("8/8/8/4k3/8/8/8/4K3 w - - 0 1")
	var nodes []uint64
	for _, depth := range []int{6, 7, 8} {
		s := NewSearcher()
		s.Search(kings, board.White, depth)
		nodes = append(nodes, s.Nodes())
	}
	if nodes[1] <= nodes[0] || nodes[2] <= nodes[1] {
		t.Errorf("node counts for depths 6, 7, 8 = %v, want strictly increasing", nodes)
	}
}

func TestMateInOne(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		side  board.Color
		depth int
		want  SearchResult
	}{
		{
			name:  "white back rank depth 1",
			fen:   "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
			side:  board.White,
			depth: 1,
			want:  SearchResult{Score: MateScore, Move: board.NewMove(board.A1, board.A8)},
		},
		{
			name:  "white back rank depth 2",
			fen:   "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
			side:  board.White,
			depth: 2,
			want:  SearchResult{Score: MateScore, Move: board.NewMove(board.A1, board.A8)},
		},
		{
			name:  "fool's mate",
			fen:   "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b - - 0 2",
			side:  board.Black,
			depth: 1,
			want:  SearchResult{Score: -MateScore, Move: board.NewMove(board.D8, board.H4)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BestMove(board.MustParseFEN(tc.fen), tc.side, tc.depth)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BestMove mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchUsesGivenSide(t *testing.T) {
	// The position says White to move, but Black is asked for a move.
	pos := board.MustParseFEN("rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR w - - 0 2")
	got := BestMove(pos, board.Black, 1)
	if got.Move != board.NewMove(board.D8, board.H4) {
		t.Errorf("BestMove(Black) = %s, want d8h4", got.Move)
	}
}

func TestTerminalPositions(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want SearchResult
	}{
		{"white mated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 1 3", SearchResult{Score: -MateScore}},
		{"black mated", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", SearchResult{Score: MateScore}},
		{"stalemate scores material", "k7/8/1Q6/8/8/8/8/7K b - - 0 1", SearchResult{Score: 900}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := board.MustParseFEN(tc.fen)
			for depth := 0; depth <= 3; depth++ {
				got := BestMove(pos, pos.SideToMove, depth)
				if diff := cmp.Diff(tc.want, got); diff != "" {
					t.Errorf("depth %d (-want +got):\n%s", depth, diff)
				}
			}
		})
	}
}

func TestDepthZeroIsStaticEval(t *testing.T) {
	pos := board.MustParseFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	want := SearchResult{Score: -800}
	if got := BestMove(pos, board.White, 0); got != want {
		t.Errorf("BestMove depth 0 = %+v, want %+v", got, want)
	}
	if got := BestMove(pos, board.White, -3); got != want {
		t.Errorf("BestMove depth -3 = %+v, want %+v", got, want)
	}
}

func TestCapturesHangingQueen(t *testing.T) {
	pos := board.MustParseFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	for depth := 1; depth <= 3; depth++ {
		got := BestMove(pos, board.White, depth)
		if got.Move != board.NewMove(board.E4, board.D5) {
			t.Errorf("depth %d: BestMove = %s, want e4d5", depth, got.Move)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	pos := board.MustParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 2 3")
	first := BestMove(pos, board.White, 2)
	for i := 0; i < 3; i++ {
		if got := BestMove(pos, board.White, 2); got != first {
			t.Fatalf("run %d: %+v, first run %+v", i, got, first)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"start", board.StartFEN, 0},
		{"black queen up", "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", -800},
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
		{"minor pieces", "4k3/8/8/8/8/8/8/1NB1K3 w - - 0 1", 650},
		{"rook and pawns", "4k3/pp6/8/8/8/8/8/R3K3 w - - 0 1", 300},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(board.MustParseFEN(tc.fen)); got != tc.want {
				t.Errorf("Evaluate() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestOrderMovesCapturesFirst(t *testing.T) {
	pos := board.MustParseFEN("4k3/8/8/3p1n2/4P3/8/8/4K3 w - - 0 1")
	moves := pos.Moves(board.White)
	ordered := orderMoves(pos, moves)

	if len(ordered) != len(moves) {
		t.Fatalf("orderMoves returned %d moves, want %d", len(ordered), len(moves))
	}
	want := []board.Move{board.NewMove(board.E4, board.D5), board.NewMove(board.E4, board.F5)}
	if diff := cmp.Diff(want, ordered[:2]); diff != "" {
		t.Errorf("captures not first (-want +got):\n%s", diff)
	}
	for _, m := range ordered[2:] {
		if m.IsCapture(pos) {
			t.Errorf("capture %s ordered after quiet moves", m)
		}
	}
}
