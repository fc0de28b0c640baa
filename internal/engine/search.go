package engine

import (
	"github.com/hailam/retrochess/internal/board"
)

// Search constants
const (
	// MateScore is the score of a checkmate: +MateScore when Black is mated,
	// -MateScore when White is. Distance to mate is not encoded.
	MateScore = 99999
	Infinity  = 1 << 30
)

// SearchResult is the outcome of a search: the minimax score of the root
// and the move that achieves it, or NoMove at a terminal position or depth 0.
type SearchResult struct {
	Score int
	Move  board.Move
}

// Searcher performs fixed-depth alpha-beta search. White maximizes and Black
// minimizes; scores are always from White's point of view.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search finds the best move for side in pos, searching depth plies. The
// side to move stored in pos is ignored in favor of side. A negative depth is
// treated as zero. There is no upper bound: the cost grows exponentially
// with depth and callers pick a depth that fits their latency.
func (s *Searcher) Search(pos board.Position, side board.Color, depth int) SearchResult {
	if depth < 0 {
		depth = 0
	}
	return s.alphaBeta(pos.WithSideToMove(side), depth, -Infinity, Infinity)
}

// BestMove searches pos for side with a fresh Searcher.
func BestMove(pos board.Position, side board.Color, depth int) SearchResult {
	return NewSearcher().Search(pos, side, depth)
}

func (s *Searcher) alphaBeta(pos board.Position, depth, alpha, beta int) SearchResult {
	s.nodes++

	// The move list doubles as the status test, so terminal nodes are
	// recognised even at depth 0.
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
		score := s.alphaBeta(pos.Apply(m), depth-1, alpha, beta).Score

		if us == board.White {
			if score > best.Score {
				best = SearchResult{Score: score, Move: m}
			}
			alpha = max(alpha, best.Score)
		} else {
			if score < best.Score {
				best = SearchResult{Score: score, Move: m}
			}
			beta = min(beta, best.Score)
		}

		if beta <= alpha {
			break
		}
	}

	return best
}

// terminalScore scores a node where us has no legal move. Checkmate is worth
// the full mate score to the winner; stalemate keeps the material balance.
func terminalScore(pos board.Position, us board.Color) int {
	if !pos.InCheck(us) {
		return Evaluate(pos)
	}
	if us == board.White {
		return -MateScore
	}
	return MateScore
}
