// Package session runs a game between a human and the computer on top of the
// board rules and the search engine: turn order, hints, undo, clocks and the
// status line shown to the player.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
)

// Session errors
var (
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotYourPiece  = errors.New("no piece of yours on that square")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNoHintsLeft   = errors.New("no hints left")
	ErrNoUndosLeft   = errors.New("no undos left")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Per-game limits and defaults.
const (
	MaxHints     = 2
	MaxUndos     = 3
	DefaultDepth = 2
	DefaultClock = 300 * time.Second
)

// Options configures a new Session. Zero fields take the defaults.
type Options struct {
	Human board.Color   // side played by the human (default White)
	Depth int           // computer search depth (default DefaultDepth)
	Clock time.Duration // starting time on each clock (default DefaultClock)

	// Now is the time source for the clocks (default time.Now).
	Now func() time.Time

	// OnInfo receives the engine report after every computer move or hint.
	OnInfo func(engine.SearchInfo)
}

// snapshot is the state restored by Undo.
type snapshot struct {
	pos          board.Position
	humanTime    time.Duration
	computerTime time.Duration
	moves        int
}

// Session is one game. It is not safe for concurrent use.
type Session struct {
	eng   *engine.Engine
	now   func() time.Time
	clock time.Duration
	depth int
	human board.Color

	pos      board.Position
	moves    []board.Move
	history  []snapshot
	hints    int
	undos    int
	hint     board.Move
	status   board.Status
	message  string
	lastTick time.Time

	humanTime    time.Duration
	computerTime time.Duration
}

// New creates a session at the starting position.
func New(opts Options) *Session {
	if opts.Human != board.Black {
		opts.Human = board.White
	}
	if opts.Depth <= 0 {
		opts.Depth = DefaultDepth
	}
	if opts.Clock <= 0 {
		opts.Clock = DefaultClock
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	eng := engine.NewEngine()
	eng.OnInfo = opts.OnInfo

	s := &Session{
		eng:   eng,
		now:   opts.Now,
		clock: opts.Clock,
		depth: opts.Depth,
		human: opts.Human,
	}
	s.Reset()
	return s
}

// Reset starts a new game with the same sides, depth and clock.
func (s *Session) Reset() {
	s.pos = board.NewPosition()
	s.moves = nil
	s.history = nil
	s.hints = 0
	s.undos = 0
	s.hint = board.NoMove
	s.humanTime = s.clock
	s.computerTime = s.clock
	s.lastTick = s.now()
	s.refreshStatus()
}

// SetHuman switches the human to color and starts a new game.
func (s *Session) SetHuman(color board.Color) {
	if color != board.Black {
		color = board.White
	}
	s.human = color
	s.Reset()
}

// SetDepth changes the computer search depth for the rest of the game.
func (s *Session) SetDepth(depth int) {
	if depth <= 0 {
		depth = DefaultDepth
	}
	s.depth = depth
}

// Select returns the legal destinations of the human's piece on sq.
func (s *Session) Select(sq board.Square) ([]board.Square, error) {
	if err := s.humanToMove(sq); err != nil {
		return nil, err
	}
	piece := s.pos.PieceAt(sq)
	if piece == board.NoPiece || piece.Color() != s.human {
		return nil, ErrNotYourPiece
	}
	return s.pos.LegalMoves(sq), nil
}

// Move plays the human move from -> to.
func (s *Session) Move(from, to board.Square) error {
	if err := s.humanToMove(from); err != nil {
		return err
	}
	if !to.IsValid() {
		return fmt.Errorf("destination: %w", board.ErrInvalidSquare)
	}
	m := board.NewMove(from, to)
	if !s.pos.IsLegal(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	s.history = append(s.history, snapshot{
		pos:          s.pos,
		humanTime:    s.humanTime,
		computerTime: s.computerTime,
		moves:        len(s.moves),
	})
	s.play(m)
	return nil
}

// Play parses a coordinate move such as "e2e4" and plays it for the human.
func (s *Session) Play(text string) error {
	m, err := board.ParseMove(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	return s.Move(m.From(), m.To())
}

// ComputerMove searches for and plays the computer's move.
func (s *Session) ComputerMove() (board.Move, error) {
	if s.status.IsOver() {
		return board.NoMove, ErrGameOver
	}
	if s.pos.SideToMove == s.human {
		return board.NoMove, ErrNotYourTurn
	}

	result := s.eng.SearchWithLimits(s.pos, engine.SearchLimits{Depth: s.depth})
	if result.Move == board.NoMove {
		return board.NoMove, ErrGameOver
	}
	s.play(result.Move)
	return result.Move, nil
}

// Hint returns the move the engine would play for the human. Each game
// allows MaxHints hints.
func (s *Session) Hint() (board.Move, error) {
	if s.status.IsOver() {
		return board.NoMove, ErrGameOver
	}
	if s.pos.SideToMove != s.human {
		return board.NoMove, ErrNotYourTurn
	}
	if s.hints >= MaxHints {
		return board.NoMove, ErrNoHintsLeft
	}

	result := s.eng.SearchWithLimits(s.pos, engine.SearchLimits{Depth: s.depth})
	s.hints++
	s.hint = result.Move
	return result.Move, nil
}

// Undo takes back the human's last move together with any computer reply,
// restoring position and clocks. Each game allows MaxUndos undos.
func (s *Session) Undo() error {
	if s.undos >= MaxUndos {
		return ErrNoUndosLeft
	}
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}

	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.pos = last.pos
	s.humanTime = last.humanTime
	s.computerTime = last.computerTime
	s.moves = s.moves[:last.moves]
	s.undos++
	s.hint = board.NoMove
	s.lastTick = s.now()
	s.refreshStatus()
	return nil
}

// Position returns the current position.
func (s *Session) Position() board.Position { return s.pos }

// Human returns the human's color.
func (s *Session) Human() board.Color { return s.human }

// Computer returns the computer's color.
func (s *Session) Computer() board.Color { return s.human.Other() }

// Turn returns the side to move.
func (s *Session) Turn() board.Color { return s.pos.SideToMove }

// Depth returns the computer search depth.
func (s *Session) Depth() int { return s.depth }

// Status returns the game status.
func (s *Session) Status() board.Status { return s.status }

// Message returns the status line, e.g. "Black to move" or "Stalemate!".
func (s *Session) Message() string { return s.message }

// IsHumanTurn returns true if the game is on and the human is to move.
func (s *Session) IsHumanTurn() bool {
	return !s.status.IsOver() && s.pos.SideToMove == s.human
}

// Moves returns the moves played so far.
func (s *Session) Moves() []board.Move {
	return append([]board.Move(nil), s.moves...)
}

// LastHint returns the last hint, or NoMove once a move has been played.
func (s *Session) LastHint() board.Move { return s.hint }

// HintsLeft returns the number of hints still available.
func (s *Session) HintsLeft() int { return MaxHints - s.hints }

// UndosLeft returns the number of undos still available.
func (s *Session) UndosLeft() int { return MaxUndos - s.undos }

// Clocks returns the time left for the human and the computer.
func (s *Session) Clocks() (human, computer time.Duration) {
	return s.humanTime, s.computerTime
}

func (s *Session) humanToMove(sq board.Square) error {
	if !sq.IsValid() {
		return fmt.Errorf("source: %w", board.ErrInvalidSquare)
	}
	if s.status.IsOver() {
		return ErrGameOver
	}
	if s.pos.SideToMove != s.human {
		return ErrNotYourTurn
	}
	return nil
}

// play applies m and charges the elapsed time to the mover's clock.
func (s *Session) play(m board.Move) {
	mover := s.pos.SideToMove
	s.pos = s.pos.Apply(m)
	s.moves = append(s.moves, m)
	s.hint = board.NoMove

	now := s.now()
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	if mover == s.human {
		s.humanTime = max(s.humanTime-elapsed, 0)
	} else {
		s.computerTime = max(s.computerTime-elapsed, 0)
	}

	s.refreshStatus()
}

func (s *Session) refreshStatus() {
	s.status = s.pos.Status()
	switch s.status.Kind {
	case board.Checkmate:
		s.message = fmt.Sprintf("Checkmate! %s wins", s.status.Winner)
	case board.Stalemate:
		s.message = "Stalemate!"
	default:
		s.message = fmt.Sprintf("%s to move", s.pos.SideToMove)
	}
}
