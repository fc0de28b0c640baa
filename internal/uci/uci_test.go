package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
)

// runScript feeds the commands to a fresh handler and returns its output.
func runScript(t *testing.T, commands ...string) (out, diag string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")

	u := New(engine.NewEngine(), in, &stdout, &stderr)
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return stdout.String(), stderr.String()
}

func TestHandshake(t *testing.T) {
	out, _ := runScript(t, "uci", "isready", "quit")

	for _, want := range []string{"id name RetroChess", "option name Depth", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGoFindsMate(t *testing.T) {
	out, _ := runScript(t,
		"position startpos moves f2f3 e7e5 g2g4",
		"go depth 1",
		"quit",
	)

	if !strings.Contains(out, "bestmove d8h4\n") {
		t.Errorf("expected bestmove d8h4:\n%s", out)
	}
	// Black to move, so the mate is reported as a positive score.
	if !strings.Contains(out, "score cp 99999") {
		t.Errorf("expected mate score from Black's view:\n%s", out)
	}
	if !strings.Contains(out, "info depth 1") {
		t.Errorf("expected info line:\n%s", out)
	}
}

func TestGoTerminalPosition(t *testing.T) {
	out, _ := runScript(t,
		"position fen R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
		"go depth 2",
	)

	if !strings.Contains(out, "bestmove 0000\n") {
		t.Errorf("expected bestmove 0000:\n%s", out)
	}
}

func TestGoPromotion(t *testing.T) {
	out, _ := runScript(t,
		"position fen 8/P6k/8/8/8/8/6K1/8 w - - 0 1",
		"go depth 1",
	)

	if !strings.Contains(out, "bestmove a7a8q\n") {
		t.Errorf("expected bestmove a7a8q:\n%s", out)
	}
}

func TestPositionRejectsIllegalMove(t *testing.T) {
	out, diag := runScript(t,
		"position startpos moves e2e4 e7e5 e4e5 d7d5",
		"d",
	)

	if !strings.Contains(diag, "Invalid move: e4e5") {
		t.Errorf("expected diagnostic for e4e5, got %q", diag)
	}
	// Moves up to the illegal one are kept.
	want := board.NewPosition().ApplyMove(board.E2, board.E4).ApplyMove(board.E7, board.E5).ToFEN()
	if !strings.Contains(out, "Fen: "+want) {
		t.Errorf("expected position %s:\n%s", want, out)
	}
}

func TestPositionRejectsBadFEN(t *testing.T) {
	out, diag := runScript(t, "position fen not a fen", "d")

	if !strings.Contains(diag, "Invalid FEN") {
		t.Errorf("expected FEN diagnostic, got %q", diag)
	}
	if !strings.Contains(out, "Fen: "+board.StartFEN) {
		t.Errorf("position should be unchanged:\n%s", out)
	}
}

func TestSetOption(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		wantDiag string
	}{
		{"depth", "setoption name Depth value 1", ""},
		{"difficulty", "setoption name Difficulty value hard", ""},
		{"depth out of range", "setoption name Depth value 42", "Invalid depth"},
		{"bad difficulty", "setoption name Difficulty value brutal", "unknown difficulty"},
		{"unknown", "setoption name Hash value 64", "Unknown option: Hash"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, diag := runScript(t, tc.command, "go", "quit")
			if tc.wantDiag == "" && diag != "" {
				t.Errorf("unexpected diagnostics: %q", diag)
			}
			if !strings.Contains(diag, tc.wantDiag) {
				t.Errorf("diagnostics %q do not contain %q", diag, tc.wantDiag)
			}
			if !strings.Contains(out, "bestmove ") {
				t.Errorf("go should still produce a move:\n%s", out)
			}
		})
	}
}

func TestSetOptionDepthUsedByGo(t *testing.T) {
	out, _ := runScript(t, "setoption name Depth value 1", "go", "quit")
	if !strings.Contains(out, "info depth 1 ") {
		t.Errorf("expected a depth 1 search:\n%s", out)
	}
}

func TestPerft(t *testing.T) {
	out, _ := runScript(t, "position startpos", "perft 2", "quit")
	if !strings.Contains(out, "Nodes: 400\n") {
		t.Errorf("expected 400 nodes:\n%s", out)
	}
}

func TestNewGameResetsPosition(t *testing.T) {
	out, _ := runScript(t, "position startpos moves e2e4", "ucinewgame", "d")
	if !strings.Contains(out, "Fen: "+board.StartFEN) {
		t.Errorf("ucinewgame should reset the position:\n%s", out)
	}
}
