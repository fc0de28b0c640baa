package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/hailam/retrochess/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int // White's point of view
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Plies to search (0 = static evaluation only)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 1},
	Medium: {Depth: 2},
	Hard:   {Depth: 3},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts "easy", "medium" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Depth returns the search depth of the difficulty, defaulting to Medium.
func (d Difficulty) Depth() int {
	if l, ok := DifficultySettings[d]; ok {
		return l.Depth
	}
	return DifficultySettings[Medium].Depth
}

// DifficultyForDepth returns the difficulty that searches closest to depth.
func DifficultyForDepth(depth int) Difficulty {
	switch {
	case depth <= DifficultySettings[Easy].Depth:
		return Easy
	case depth >= DifficultySettings[Hard].Depth:
		return Hard
	}
	return Medium
}

// Engine is the chess AI engine. An Engine is not safe for concurrent use;
// give each game its own.
type Engine struct {
	searcher   *Searcher
	difficulty Difficulty

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine at Medium difficulty.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Search finds the best move for the side to move at the current difficulty.
func (e *Engine) Search(pos board.Position) SearchResult {
	return e.SearchWithLimits(pos, SearchLimits{Depth: e.difficulty.Depth()})
}

// SearchWithLimits finds the best move for the side to move with explicit
// limits and reports the result through OnInfo.
func (e *Engine) SearchWithLimits(pos board.Position, limits SearchLimits) SearchResult {
	e.searcher.Reset()
	startTime := time.Now()

	result := e.searcher.Search(pos, pos.SideToMove, limits.Depth)

	if e.OnInfo != nil {
		var pv []board.Move
		if result.Move != board.NoMove {
			pv = []board.Move{result.Move}
		}
		e.OnInfo(SearchInfo{
			Depth: max(limits.Depth, 0),
			Score: result.Score,
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(startTime),
			PV:    pv,
		})
	}

	return result
}

// Nodes returns the node count of the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Perft counts the leaf nodes of the legal move tree (for debugging move
// generation).
func (e *Engine) Perft(pos board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.Moves(pos.SideToMove)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		nodes += e.Perft(pos.Apply(m), depth-1)
	}
	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a White-relative score to a human-readable string,
// such as "+1.50", "-0.05" or "White mates".
func ScoreToString(score int) string {
	if score >= MateScore {
		return "White mates"
	}
	if score <= -MateScore {
		return "Black mates"
	}

	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
