// Package uci implements the Universal Chess Interface protocol on top of the
// fixed-depth engine, so the engine can be driven by any UCI front-end.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
)

// maxOptionDepth caps the Depth option advertised to GUIs. "go depth N" is
// passed to the engine as given.
const maxOptionDepth = 6

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position board.Position
	depth    int // default depth for "go" without "depth"

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	mu     sync.Mutex // serialises writes to out and errOut

	// Search state
	searching  bool
	searchDone chan struct{}
}

// New creates a new UCI protocol handler reading commands from in, writing
// protocol output to out and diagnostics to errOut.
func New(eng *engine.Engine, in io.Reader, out, errOut io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		depth:    eng.Difficulty().Depth(),
		in:       in,
		out:      out,
		errOut:   errOut,
	}
}

// Run reads commands until "quit" or end of input. Any search still running
// is waited for before Run returns.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	defer u.waitSearch()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.waitSearch()
			u.println(u.position.String())
			u.println("Fen: " + u.position.ToFEN())
		case "perft":
			u.handlePerft(args)
		default:
			u.diag("Unknown command: %s", cmd)
		}
	}

	return scanner.Err()
}

func (u *UCI) println(s string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// diag writes an "info string" line to the diagnostics stream.
func (u *UCI) diag(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.errOut, "info string "+format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name RetroChess")
	u.println("id author RetroChess Team")
	u.println("")
	u.printf("option name Depth type spin default %d min 1 max %d\n", u.depth, maxOptionDepth)
	u.println("option name Difficulty type combo default " + u.engine.Difficulty().String() +
		" var easy var medium var hard")
	u.println("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.waitSearch()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.waitSearch()

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.diag("Invalid FEN: %v", err)
			return
		}
		pos = p
	default:
		return
	}

	// Apply moves, stopping at the first one that does not parse or is not legal.
	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, err := board.ParseMove(moveStr)
			if err != nil || !pos.IsLegal(move) {
				u.diag("Invalid move: %s", moveStr)
				break
			}
			pos = pos.Apply(move)
		}
	}

	u.position = pos
}

// handleGo starts a search. Only "depth" is honoured; time controls are
// accepted and ignored since the search is fixed-depth.
func (u *UCI) handleGo(args []string) {
	u.waitSearch()

	depth := u.depth
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
				depth = d
			}
			i++
		}
	}

	pos := u.position
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(pos, info)
	}

	// Start search in goroutine
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		result := u.engine.SearchWithLimits(pos, engine.SearchLimits{Depth: depth})
		if result.Move == board.NoMove {
			// Only for checkmate/stalemate (no legal moves)
			u.println("bestmove 0000")
			return
		}
		u.printf("bestmove %s\n", result.Move.UCI(pos))
	}()
}

// sendInfo outputs search info in UCI format. UCI scores are from the point
// of view of the side to move.
func (u *UCI) sendInfo(pos board.Position, info engine.SearchInfo) {
	score := info.Score
	if pos.SideToMove == board.Black {
		score = -score
	}

	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if len(info.PV) > 0 {
		parts = append(parts, "pv "+info.PV[0].UCI(pos))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop waits for the current search. The search cannot be interrupted,
// but it is bounded by its depth.
func (u *UCI) handleStop() {
	u.waitSearch()
}

func (u *UCI) waitSearch() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	u.waitSearch()

	switch strings.ToLower(name) {
	case "depth":
		d, err := strconv.Atoi(value)
		if err != nil || d < 1 || d > maxOptionDepth {
			u.diag("Invalid depth: %s", value)
			return
		}
		u.depth = d
	case "difficulty":
		d, err := engine.ParseDifficulty(value)
		if err != nil {
			u.diag("%v", err)
			return
		}
		u.engine.SetDifficulty(d)
		u.depth = d.Depth()
	default:
		u.diag("Unknown option: %s", name)
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			depth = d
		}
	}
	u.waitSearch()

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
