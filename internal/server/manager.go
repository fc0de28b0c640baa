package server

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/session"
	"github.com/hailam/retrochess/internal/storage"
)

// ErrGameNotFound is returned for an unknown game id.
var ErrGameNotFound = errors.New("game not found")

// Game is one hosted session. All access to the session goes through the
// manager, which holds mu for the duration of each call.
type Game struct {
	ID         string
	Name       string
	Created    time.Time
	Difficulty engine.Difficulty

	mu       sync.Mutex
	sess     *session.Session
	recorded bool // result already counted in the statistics
}

// Summary is the listing entry of a game.
type Summary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Human   string    `json:"human"`
	Message string    `json:"message"`
	Updated time.Time `json:"updated"`
}

// GameManager keeps the live games and mirrors them to the store.
type GameManager struct {
	games map[string]*Game
	store *storage.Storage // optional
	mu    sync.RWMutex
	now   func() time.Time
}

// NewGameManager creates a manager. store may be nil, in which case games
// live only in memory and no statistics are kept.
func NewGameManager(store *storage.Storage) *GameManager {
	return &GameManager{
		games: make(map[string]*Game),
		store: store,
		now:   time.Now,
	}
}

// Create starts a new game. When the human plays Black the computer makes
// its first move before Create returns.
func (gm *GameManager) Create(human board.Color, diff engine.Difficulty) (*Game, error) {
	g := &Game{
		ID:         uuid.New().String(),
		Name:       petname.Generate(2, "-"),
		Created:    gm.now(),
		Difficulty: diff,
		sess: session.New(session.Options{
			Human: human,
			Depth: diff.Depth(),
			Now:   gm.now,
		}),
	}

	gm.mu.Lock()
	gm.games[g.ID] = g
	gm.mu.Unlock()

	log.Printf("[HTTP] new game %s (%s) human=%s difficulty=%s", g.ID, g.Name, g.sess.Human(), diff)

	err := gm.Update(g, func(s *session.Session) error {
		return computerReply(s)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Get returns the game with the given id, loading it from the store if it is
// not live.
func (gm *GameManager) Get(id string) (*Game, error) {
	gm.mu.RLock()
	g, ok := gm.games[id]
	gm.mu.RUnlock()
	if ok {
		return g, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	saved, err := gm.store.LoadGame(id)
	if errors.Is(err, storage.ErrGameNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	sess := session.New(session.Options{Now: gm.now})
	if err := sess.Restore(saved.Session); err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	g = &Game{
		ID:         saved.ID,
		Name:       saved.Name,
		Created:    saved.Created,
		Difficulty: engine.DifficultyForDepth(sess.Depth()),
		sess:       sess,
		recorded:   sess.Status().IsOver(),
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// Another request may have loaded it meanwhile.
	if live, ok := gm.games[id]; ok {
		return live, nil
	}
	gm.games[id] = g
	return g, nil
}

// List returns the known games, most recently changed first.
func (gm *GameManager) List() ([]Summary, error) {
	if gm.store != nil {
		saved, err := gm.store.ListGames()
		if err != nil {
			return nil, err
		}
		out := make([]Summary, 0, len(saved))
		for _, sg := range saved {
			out = append(out, Summary{
				ID:      sg.ID,
				Name:    sg.Name,
				Human:   sg.Session.Human,
				Message: savedMessage(sg.Session),
				Updated: sg.Updated,
			})
		}
		return out, nil
	}

	gm.mu.RLock()
	games := make([]*Game, 0, len(gm.games))
	for _, g := range gm.games {
		games = append(games, g)
	}
	gm.mu.RUnlock()

	out := make([]Summary, 0, len(games))
	for _, g := range games {
		g.mu.Lock()
		out = append(out, Summary{
			ID:      g.ID,
			Name:    g.Name,
			Human:   g.sess.Human().String(),
			Message: g.sess.Message(),
			Updated: g.Created,
		})
		g.mu.Unlock()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Updated.After(out[j].Updated)
	})
	return out, nil
}

// Delete forgets a game and removes it from the store.
func (gm *GameManager) Delete(id string) error {
	gm.mu.Lock()
	_, live := gm.games[id]
	delete(gm.games, id)
	gm.mu.Unlock()

	if gm.store == nil {
		if !live {
			return ErrGameNotFound
		}
		return nil
	}
	err := gm.store.DeleteGame(id)
	if errors.Is(err, storage.ErrGameNotFound) {
		if live {
			return nil
		}
		return ErrGameNotFound
	}
	return err
}

// View runs fn with the game's session locked. fn must not keep the session.
func (gm *GameManager) View(g *Game, fn func(*session.Session) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.sess)
}

// Update runs fn with the game's session locked, then saves the game and
// counts its result once it is over. The game is saved even when fn fails
// part way, since fn may already have changed it.
func (gm *GameManager) Update(g *Game, fn func(*session.Session) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := fn(g.sess)
	if serr := gm.persist(g); serr != nil {
		log.Printf("[HTTP] save game %s: %v", g.ID, serr)
		if err == nil {
			err = serr
		}
	}
	return err
}

// persist writes the game to the store and records a finished game in the
// statistics. Caller holds g.mu.
func (gm *GameManager) persist(g *Game) error {
	st := g.sess.Status()
	if !st.IsOver() {
		g.recorded = false
	}
	if gm.store == nil {
		return nil
	}

	saved := &storage.SavedGame{
		ID:      g.ID,
		Name:    g.Name,
		Created: g.Created,
		Session: g.sess.Record(),
	}
	if err := gm.store.SaveGame(saved); err != nil {
		return err
	}

	if g.recorded {
		return nil
	}
	result, over := storage.ResultFromStatus(st, g.sess.Human())
	if !over {
		return nil
	}
	result.Difficulty = g.Difficulty
	result.Duration = gm.now().Sub(g.Created)
	if err := gm.store.RecordGame(result); err != nil {
		return err
	}
	g.recorded = true
	log.Printf("[HTTP] game %s finished: %s", g.ID, st)
	return nil
}

// computerReply lets the computer move if it is its turn.
func computerReply(s *session.Session) error {
	if s.Status().IsOver() || s.IsHumanTurn() {
		return nil
	}
	m, err := s.ComputerMove()
	if err != nil {
		return err
	}
	log.Printf("[AI] %s plays %s", s.Computer(), m)
	return nil
}

// savedMessage rebuilds the status line of a stored session.
func savedMessage(rec session.Record) string {
	sess := session.New(session.Options{})
	if err := sess.Restore(rec); err != nil {
		return "unreadable game"
	}
	return sess.Message()
}
