package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/session"
	"github.com/hailam/retrochess/internal/storage"
	"golang.org/x/term"
)

const helpText = `Commands:
  e2e4           play a move (e7e8q also accepted for promotion)
  moves e2       show where the piece on e2 can go
  hint           suggest a move (2 per game)
  undo           take back your last move (3 per game)
  restart        start a new game
  white, black   play the given side (starts a new game)
  level hard     set the difficulty: easy, medium or hard
  board          show the board again
  stats          show your statistics
  quit           leave the game
`

// Config configures a terminal game.
type Config struct {
	In      io.Reader
	Out     io.Writer
	Storage *storage.Storage // optional; preferences and statistics live here
	Color   bool             // colored board

	// Prefs overrides the stored preferences when set.
	Prefs *storage.UserPreferences

	Now func() time.Time // default time.Now
}

// Game is a terminal chess game between the player and the computer.
type Game struct {
	sess     *session.Session
	storage  *storage.Storage
	prefs    *storage.UserPreferences
	renderer *Renderer

	in  *bufio.Scanner
	out io.Writer
	now func() time.Time

	difficulty engine.Difficulty
	started    time.Time
	recorded   bool // result of the current game already counted
	lastMove   board.Move
}

// NewGame creates a game from cfg, loading the stored preferences.
func NewGame(cfg Config) *Game {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	g := &Game{
		storage:  cfg.Storage,
		renderer: NewRenderer(cfg.Color),
		in:       bufio.NewScanner(cfg.In),
		out:      cfg.Out,
		now:      cfg.Now,
		lastMove: board.NoMove,
	}
	g.sess = session.New(session.Options{Now: cfg.Now})

	if cfg.Prefs != nil {
		g.prefs = cfg.Prefs
	} else {
		g.loadPreferences()
	}
	g.applyPreferences()
	g.started = g.now()
	return g
}

// ColorSupported reports whether f is a terminal that should get colors.
func ColorSupported(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Run plays until the player quits or the input ends.
func (g *Game) Run() error {
	g.checkFirstLaunch()

	fmt.Fprintf(g.out, "Hello %s. You play %s at %s difficulty. Type 'help' for commands.\n",
		g.prefs.Username, g.sess.Human(), g.difficulty)
	g.computerTurn()
	g.drawBoard(NoHighlights())

	for {
		fmt.Fprint(g.out, "> ")
		line, ok := g.readLine()
		if !ok {
			fmt.Fprintln(g.out)
			return g.in.Err()
		}
		cmd, ok := ParseCommand(line)
		if !ok {
			continue
		}
		if cmd.Name == "quit" {
			fmt.Fprintln(g.out, "Goodbye!")
			return nil
		}
		g.handle(cmd)
	}
}

func (g *Game) readLine() (string, bool) {
	if !g.in.Scan() {
		return "", false
	}
	return g.in.Text(), true
}

func (g *Game) handle(cmd Command) {
	switch cmd.Name {
	case "move":
		g.playMove(cmd.Args[0])
	case "moves":
		g.showMoves(cmd.Args)
	case "hint":
		g.hint()
	case "undo":
		g.undo()
	case "restart":
		g.NewGameAction()
	case "white":
		g.SetPlayerColor(board.White)
	case "black":
		g.SetPlayerColor(board.Black)
	case "level":
		g.setLevel(cmd.Args)
	case "board":
		g.drawBoard(NoHighlights())
	case "stats":
		g.printStats(g.out)
	case "help":
		fmt.Fprint(g.out, helpText)
	default:
		fmt.Fprintf(g.out, "Unknown command: %s (type 'help')\n", cmd.Name)
	}
}

// playMove plays the player's move and the computer's answer.
func (g *Game) playMove(text string) {
	before := g.sess.Position()
	if err := g.sess.Play(text); err != nil {
		g.reportMoveError(before, text, err)
		return
	}

	g.lastMove, _ = board.ParseMove(text)
	fmt.Fprintf(g.out, "You play %s\n", text)
	g.announce()
	g.computerTurn()
	g.drawBoard(NoHighlights())
	g.checkGameEnd()
}

func (g *Game) reportMoveError(pos board.Position, text string, err error) {
	if reason, ok := reasonFor(err); ok {
		fmt.Fprintln(g.out, reason)
		return
	}
	m, perr := board.ParseMove(text)
	if errors.Is(err, session.ErrIllegalMove) && perr == nil {
		fmt.Fprintln(g.out, determineInvalidMoveReason(pos, g.sess.Human(), m.From(), m.To()))
		return
	}
	fmt.Fprintf(g.out, "Invalid move: %v\n", err)
}

// computerTurn lets the computer move if it is its turn.
func (g *Game) computerTurn() {
	if g.sess.Status().IsOver() || g.sess.IsHumanTurn() {
		return
	}
	m, err := g.sess.ComputerMove()
	if err != nil {
		fmt.Fprintf(g.out, "Computer cannot move: %v\n", err)
		return
	}
	g.lastMove = m
	fmt.Fprintf(g.out, "Computer plays %s\n", m)
	g.announce()
}

func (g *Game) announce() {
	if msg := describeStatus(g.sess.Position()); msg != "" {
		fmt.Fprintln(g.out, msg)
	}
}

func (g *Game) showMoves(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(g.out, "Usage: moves e2")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		fmt.Fprintf(g.out, "Not a square: %s\n", args[0])
		return
	}
	targets, err := g.sess.Select(sq)
	if err != nil {
		if reason, ok := reasonFor(err); ok {
			fmt.Fprintln(g.out, reason)
		} else {
			fmt.Fprintln(g.out, err)
		}
		return
	}

	if len(targets) == 0 {
		fmt.Fprintf(g.out, "%s has no legal moves\n", sq)
	} else {
		names := make([]string, len(targets))
		for i, t := range targets {
			names[i] = t.String()
		}
		fmt.Fprintf(g.out, "%s: %s\n", sq, strings.Join(names, " "))
	}
	hl := NoHighlights()
	hl.Selected = sq
	hl.Targets = targets
	g.drawBoard(hl)
}

func (g *Game) hint() {
	m, err := g.sess.Hint()
	if err != nil {
		if errors.Is(err, session.ErrNoHintsLeft) {
			fmt.Fprintln(g.out, "No hints left in this game")
		} else if reason, ok := reasonFor(err); ok {
			fmt.Fprintln(g.out, reason)
		} else {
			fmt.Fprintln(g.out, err)
		}
		return
	}
	fmt.Fprintf(g.out, "Hint: %s (%d left)\n", m, g.sess.HintsLeft())
	hl := NoHighlights()
	hl.Hint = m
	g.drawBoard(hl)
}

func (g *Game) undo() {
	if err := g.sess.Undo(); err != nil {
		switch {
		case errors.Is(err, session.ErrNoUndosLeft):
			fmt.Fprintln(g.out, "No undos left in this game")
		case errors.Is(err, session.ErrNothingToUndo):
			fmt.Fprintln(g.out, "Nothing to undo")
		default:
			fmt.Fprintln(g.out, err)
		}
		return
	}
	if !g.sess.Status().IsOver() {
		g.recorded = false
	}
	g.lastMove = board.NoMove
	if moves := g.sess.Moves(); len(moves) > 0 {
		g.lastMove = moves[len(moves)-1]
	}
	fmt.Fprintf(g.out, "Move taken back (%d undos left)\n", g.sess.UndosLeft())
	g.drawBoard(NoHighlights())
}

// NewGameAction resets the game to the starting position.
func (g *Game) NewGameAction() {
	g.sess.Reset()
	g.started = g.now()
	g.recorded = false
	g.lastMove = board.NoMove
	fmt.Fprintf(g.out, "New game. You play %s.\n", g.sess.Human())

	// If the player chose Black, the computer (White) moves first.
	g.computerTurn()
	g.drawBoard(NoHighlights())
}

// SetPlayerColor switches sides, remembers the choice and starts a new game.
func (g *Game) SetPlayerColor(color board.Color) {
	g.sess.SetHuman(color)
	g.renderer.SetFlipped(color == board.Black)
	g.savePreferences()
	g.NewGameAction()
}

func (g *Game) setLevel(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(g.out, "Difficulty is %s. Usage: level easy|medium|hard\n", g.difficulty)
		return
	}
	d, err := engine.ParseDifficulty(args[0])
	if err != nil {
		fmt.Fprintln(g.out, err)
		return
	}
	g.difficulty = d
	g.sess.SetDepth(d.Depth())
	g.savePreferences()
	fmt.Fprintf(g.out, "Difficulty set to %s\n", d)
}

// checkGameEnd records a finished game and tells the player how it ended.
func (g *Game) checkGameEnd() {
	if !g.sess.Status().IsOver() || g.recorded {
		return
	}
	g.recordResult()
	fmt.Fprintf(g.out, "Game over: %s\nType 'restart' to play again.\n", g.sess.Message())
}

func (g *Game) drawBoard(hl Highlights) {
	if hl.LastMove == board.NoMove {
		hl.LastMove = g.lastMove
	}
	g.renderer.DrawBoard(g.out, g.sess.Position(), hl)

	human, computer := g.sess.Clocks()
	fmt.Fprintf(g.out, "%s   You %s   Computer %s\n", g.sess.Message(), formatClock(human), formatClock(computer))
}

func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
