package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/session"
	"github.com/hailam/retrochess/internal/storage"
)

func newTestApp(t *testing.T, store *storage.Storage) (*fiber.App, *GameManager) {
	t.Helper()
	gm := NewGameManager(store)
	return New(gm, Config{Quiet: true}), gm
}

// call sends a request and decodes a JSON response into out when it is not nil.
func call(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App, body string) GameState {
	t.Helper()
	var state GameState
	if code := call(t, app, http.MethodPost, "/api/games", body, &state); code != http.StatusCreated {
		t.Fatalf("create game: status %d", code)
	}
	return state
}

func TestCreateAndGetGame(t *testing.T) {
	app, _ := newTestApp(t, nil)

	created := createGame(t, app, `{"difficulty":"easy"}`)
	if created.ID == "" || !strings.Contains(created.Name, "-") {
		t.Errorf("game should have an id and a two-word name, got %q %q", created.ID, created.Name)
	}
	if created.FEN != board.StartFEN || created.Turn != "White" || created.Human != "White" {
		t.Errorf("unexpected new game: %+v", created)
	}
	if created.Status != "ongoing" || created.HintsLeft != 2 || created.UndosLeft != 3 {
		t.Errorf("unexpected counters: %+v", created)
	}
	if created.Difficulty != "easy" || created.HumanClock != 300 {
		t.Errorf("unexpected settings: %+v", created)
	}

	var got GameState
	if code := call(t, app, http.MethodGet, "/api/games/"+created.ID, "", &got); code != http.StatusOK {
		t.Fatalf("get game: status %d", code)
	}
	if diff := cmp.Diff(created.FEN, got.FEN); diff != "" {
		t.Errorf("fetched game differs (-created +got):\n%s", diff)
	}
}

func TestCreateAsBlack(t *testing.T) {
	app, _ := newTestApp(t, nil)

	state := createGame(t, app, `{"color":"black","difficulty":"easy"}`)
	if state.Human != "Black" {
		t.Errorf("human = %s, want Black", state.Human)
	}
	if len(state.Moves) != 1 || state.Turn != "Black" {
		t.Errorf("computer should have opened for White: %+v", state)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	app, _ := newTestApp(t, nil)

	for _, body := range []string{`{"color":"green"}`, `{"difficulty":"brutal"}`, `{not json`} {
		var resp map[string]string
		if code := call(t, app, http.MethodPost, "/api/games", body, &resp); code != http.StatusBadRequest {
			t.Errorf("create %s: status %d, want 400", body, code)
		}
		if resp["error"] == "" {
			t.Errorf("create %s: missing error message", body)
		}
	}
}

func TestMoveAndReply(t *testing.T) {
	app, _ := newTestApp(t, nil)
	game := createGame(t, app, `{"difficulty":"easy"}`)

	var state GameState
	code := call(t, app, http.MethodPost, "/api/games/"+game.ID+"/move", `{"move":"e2e4"}`, &state)
	if code != http.StatusOK {
		t.Fatalf("move: status %d", code)
	}
	if len(state.Moves) != 2 || state.Moves[0] != "e2e4" {
		t.Fatalf("expected human move and reply, got %v", state.Moves)
	}
	if state.Turn != "White" || state.LastMove != state.Moves[1] {
		t.Errorf("unexpected state after reply: %+v", state)
	}
}

func TestMoveErrors(t *testing.T) {
	app, _ := newTestApp(t, nil)
	game := createGame(t, app, `{"difficulty":"easy"}`)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"illegal", "/api/games/" + game.ID + "/move", `{"move":"e2e5"}`, http.StatusBadRequest},
		{"garbage", "/api/games/" + game.ID + "/move", `{"move":"zz"}`, http.StatusBadRequest},
		{"opponent piece", "/api/games/" + game.ID + "/move", `{"move":"e7e5"}`, http.StatusBadRequest},
		{"bad json", "/api/games/" + game.ID + "/move", `{"move":`, http.StatusBadRequest},
		{"unknown game", "/api/games/nope/move", `{"move":"e2e4"}`, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var resp map[string]any
			if code := call(t, app, http.MethodPost, tc.path, tc.body, &resp); code != tc.want {
				t.Errorf("status %d, want %d (%v)", code, tc.want, resp)
			}
		})
	}
}

func TestLegalMoves(t *testing.T) {
	app, _ := newTestApp(t, nil)
	game := createGame(t, app, `{"difficulty":"easy"}`)

	var resp struct {
		Square  string   `json:"square"`
		Targets []string `json:"targets"`
	}
	if code := call(t, app, http.MethodGet, "/api/games/"+game.ID+"/moves/e2", "", &resp); code != http.StatusOK {
		t.Fatalf("moves e2: status %d", code)
	}
	sort.Strings(resp.Targets)
	if diff := cmp.Diff([]string{"e3", "e4"}, resp.Targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	for _, sq := range []string{"e7", "e4", "z9"} {
		if code := call(t, app, http.MethodGet, "/api/games/"+game.ID+"/moves/"+sq, "", nil); code != http.StatusBadRequest {
			t.Errorf("moves %s: status %d, want 400", sq, code)
		}
	}
}

func TestHintsAndUndo(t *testing.T) {
	app, _ := newTestApp(t, nil)
	game := createGame(t, app, `{"difficulty":"easy"}`)
	base := "/api/games/" + game.ID

	if code := call(t, app, http.MethodPost, base+"/undo", "", nil); code != http.StatusConflict {
		t.Errorf("undo with no moves: status %d, want 409", code)
	}

	var state GameState
	for i := 0; i < session.MaxHints; i++ {
		if code := call(t, app, http.MethodPost, base+"/hint", "", &state); code != http.StatusOK {
			t.Fatalf("hint %d: status %d", i, code)
		}
		if state.Hint == "" {
			t.Errorf("hint %d: no move suggested", i)
		}
	}
	if state.HintsLeft != 0 {
		t.Errorf("hints left = %d, want 0", state.HintsLeft)
	}
	if code := call(t, app, http.MethodPost, base+"/hint", "", nil); code != http.StatusConflict {
		t.Errorf("third hint: status %d, want 409", code)
	}

	call(t, app, http.MethodPost, base+"/move", `{"move":"d2d4"}`, nil)
	if code := call(t, app, http.MethodPost, base+"/undo", "", &state); code != http.StatusOK {
		t.Fatalf("undo: status %d", code)
	}
	if len(state.Moves) != 0 || state.FEN != board.StartFEN || state.UndosLeft != 2 {
		t.Errorf("undo should restore the start position: %+v", state)
	}

	if code := call(t, app, http.MethodPost, base+"/restart", "", &state); code != http.StatusOK {
		t.Fatalf("restart: status %d", code)
	}
	if state.HintsLeft != 2 || state.UndosLeft != 3 {
		t.Errorf("restart should refill the counters: %+v", state)
	}
}

func TestBoardPNG(t *testing.T) {
	app, _ := newTestApp(t, nil)
	game := createGame(t, app, `{"difficulty":"easy"}`)

	tests := []struct {
		query string
		size  int
	}{
		{"", 8 * 60},
		{"?size=20&flip=true&select=e2", 8 * 20},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/games/"+game.ID+"/board.png"+tc.query, nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("board%s: status %d", tc.query, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type %q, want image/png", ct)
		}
		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode png: %v", err)
		}
		if b := img.Bounds(); b.Dx() != tc.size || b.Dy() != tc.size {
			t.Errorf("board%s: image is %v, want %dx%d", tc.query, b, tc.size, tc.size)
		}
	}

	if code := call(t, app, http.MethodGet, "/api/games/"+game.ID+"/board.png?select=k0", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad select: status %d, want 400", code)
	}
}

func TestDeleteGame(t *testing.T) {
	app, _ := newTestApp(t, nil)
	game := createGame(t, app, `{"difficulty":"easy"}`)

	if code := call(t, app, http.MethodDelete, "/api/games/"+game.ID, "", nil); code != http.StatusNoContent {
		t.Fatalf("delete: status %d", code)
	}
	if code := call(t, app, http.MethodGet, "/api/games/"+game.ID, "", nil); code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", code)
	}
	if code := call(t, app, http.MethodDelete, "/api/games/"+game.ID, "", nil); code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", code)
	}
}

func TestGamesSurviveRestart(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	app, _ := newTestApp(t, store)
	game := createGame(t, app, `{"difficulty":"easy"}`)
	var played GameState
	call(t, app, http.MethodPost, "/api/games/"+game.ID+"/move", `{"move":"g1f3"}`, &played)

	// A fresh manager over the same store stands in for a restarted server.
	app, _ = newTestApp(t, store)
	var got GameState
	if code := call(t, app, http.MethodGet, "/api/games/"+game.ID, "", &got); code != http.StatusOK {
		t.Fatalf("get after restart: status %d", code)
	}
	if diff := cmp.Diff(played.Moves, got.Moves); diff != "" {
		t.Errorf("moves mismatch (-before +after):\n%s", diff)
	}
	if got.Name != game.Name || got.Difficulty != "easy" {
		t.Errorf("metadata lost: %+v", got)
	}

	var list struct {
		Games []Summary `json:"games"`
	}
	call(t, app, http.MethodGet, "/api/games", "", &list)
	if len(list.Games) != 1 || list.Games[0].ID != game.ID {
		t.Errorf("list = %+v, want the one saved game", list.Games)
	}
}

func TestFinishedGameIsCountedOnce(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	// Mate in one for White: Ra1-a8.
	sess := session.New(session.Options{Depth: 1})
	rec := sess.Record()
	rec.FEN = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	if err := store.SaveGame(&storage.SavedGame{ID: "mate", Name: "quick-finish", Session: rec}); err != nil {
		t.Fatal(err)
	}

	app, _ := newTestApp(t, store)
	var state GameState
	if code := call(t, app, http.MethodPost, "/api/games/mate/move", `{"move":"a1a8"}`, &state); code != http.StatusOK {
		t.Fatalf("move: status %d", code)
	}
	if state.Status != "checkmate" || state.Winner != "White" || !state.Check {
		t.Fatalf("expected checkmate for White: %+v", state)
	}
	if code := call(t, app, http.MethodPost, "/api/games/mate/hint", "", nil); code != http.StatusConflict {
		t.Errorf("hint after mate: status %d, want 409", code)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 || stats.WinsByDiff["easy"] != 1 {
		t.Errorf("stats = %+v, want one easy win", stats)
	}
}
