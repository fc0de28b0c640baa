package session

import (
	"fmt"
	"time"

	"github.com/hailam/retrochess/internal/board"
)

// Record is the serialisable state of a Session. Positions are stored as FEN
// and moves in coordinate notation.
type Record struct {
	FEN          string          `json:"fen"`
	Human        string          `json:"human"`
	Depth        int             `json:"depth"`
	Moves        []string        `json:"moves"`
	History      []SnapshotEntry `json:"history"`
	HintsUsed    int             `json:"hints_used"`
	UndosUsed    int             `json:"undos_used"`
	Hint         string          `json:"hint,omitempty"`
	HumanTime    time.Duration   `json:"human_time"`
	ComputerTime time.Duration   `json:"computer_time"`
}

// SnapshotEntry is one undo point of a Record.
type SnapshotEntry struct {
	FEN          string        `json:"fen"`
	HumanTime    time.Duration `json:"human_time"`
	ComputerTime time.Duration `json:"computer_time"`
	Moves        int           `json:"moves"`
}

// Record captures the session state.
func (s *Session) Record() Record {
	rec := Record{
		FEN:          s.pos.ToFEN(),
		Human:        s.human.String(),
		Depth:        s.depth,
		Moves:        make([]string, 0, len(s.moves)),
		History:      make([]SnapshotEntry, 0, len(s.history)),
		HintsUsed:    s.hints,
		UndosUsed:    s.undos,
		HumanTime:    s.humanTime,
		ComputerTime: s.computerTime,
	}
	for _, m := range s.moves {
		rec.Moves = append(rec.Moves, m.String())
	}
	for _, h := range s.history {
		rec.History = append(rec.History, SnapshotEntry{
			FEN:          h.pos.ToFEN(),
			HumanTime:    h.humanTime,
			ComputerTime: h.computerTime,
			Moves:        h.moves,
		})
	}
	if s.hint != board.NoMove {
		rec.Hint = s.hint.String()
	}
	return rec
}

// Restore replaces the session state with rec. The session is left unchanged
// if rec is invalid.
func (s *Session) Restore(rec Record) error {
	human, ok := board.ParseColor(rec.Human)
	if !ok {
		return fmt.Errorf("restore: invalid human color %q", rec.Human)
	}
	pos, err := board.ParseFEN(rec.FEN)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	moves := make([]board.Move, 0, len(rec.Moves))
	for _, text := range rec.Moves {
		m, err := board.ParseMove(text)
		if err != nil {
			return fmt.Errorf("restore: move %q: %w", text, err)
		}
		moves = append(moves, m)
	}

	history := make([]snapshot, 0, len(rec.History))
	for i, h := range rec.History {
		p, err := board.ParseFEN(h.FEN)
		if err != nil {
			return fmt.Errorf("restore: history %d: %w", i, err)
		}
		if h.Moves < 0 || h.Moves > len(moves) {
			return fmt.Errorf("restore: history %d: move count %d out of range", i, h.Moves)
		}
		history = append(history, snapshot{
			pos:          p,
			humanTime:    h.HumanTime,
			computerTime: h.ComputerTime,
			moves:        h.Moves,
		})
	}

	hint := board.NoMove
	if rec.Hint != "" {
		if hint, err = board.ParseMove(rec.Hint); err != nil {
			return fmt.Errorf("restore: hint: %w", err)
		}
	}

	s.human = human
	s.pos = pos
	s.moves = moves
	s.history = history
	s.hints = min(max(rec.HintsUsed, 0), MaxHints)
	s.undos = min(max(rec.UndosUsed, 0), MaxUndos)
	s.hint = hint
	s.humanTime = rec.HumanTime
	s.computerTime = rec.ComputerTime
	s.SetDepth(rec.Depth)
	s.lastTick = s.now()
	s.refreshStatus()
	return nil
}
