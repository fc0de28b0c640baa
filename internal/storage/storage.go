package storage

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/session"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	prefixGame     = "game:"
)

// ErrGameNotFound is returned when no saved game has the requested id.
var ErrGameNotFound = errors.New("game not found")

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// Color converts the preference to a board color.
func (c PlayerColor) Color() board.Color {
	if c == ColorBlack {
		return board.Black
	}
	return board.White
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string            `json:"username"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	PlayerColor PlayerColor       `json:"player_color"`
	LastPlayed  time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  engine.Medium,
		PlayerColor: ColorWhite,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByColor    map[string]int `json:"wins_by_color"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByColor: make(map[string]int),
		WinsByDiff:  make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Won        bool
	Draw       bool
	Human      board.Color
	Difficulty engine.Difficulty
	Duration   time.Duration
}

// ResultFromStatus builds the result of a finished game from the human's
// point of view. The second value is false while the game is still on.
func ResultFromStatus(st board.Status, human board.Color) (GameResult, bool) {
	switch st.Kind {
	case board.Checkmate:
		return GameResult{Won: st.Winner == human, Human: human}, true
	case board.Stalemate:
		return GameResult{Draw: true, Human: human}, true
	}
	return GameResult{}, false
}

// SavedGame is a stored session with its metadata.
type SavedGame struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Created time.Time      `json:"created"`
	Updated time.Time      `json:"updated"`
	Session session.Record `json:"session"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	// Older records may lack the maps.
	if stats.WinsByColor == nil {
		stats.WinsByColor = make(map[string]int)
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	if result.Draw {
		stats.Draws++
		stats.CurrentStreak = 0
	} else if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByColor[result.Human.String()]++
		stats.WinsByDiff[result.Difficulty.String()]++
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// SaveGame stores game under its ID, replacing any previous version.
func (s *Storage) SaveGame(game *SavedGame) error {
	if game.ID == "" {
		return errors.New("save game: empty id")
	}
	now := time.Now()
	if game.Created.IsZero() {
		game.Created = now
	}
	game.Updated = now
	return s.put(prefixGame+game.ID, game)
}

// LoadGame returns the saved game with the given id.
func (s *Storage) LoadGame(id string) (*SavedGame, error) {
	game := &SavedGame{}
	found, err := s.get(prefixGame+id, game)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(id string) error {
	key := []byte(prefixGame + id)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrGameNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns all saved games, most recently updated first.
func (s *Storage) ListGames() ([]*SavedGame, error) {
	var games []*SavedGame
	prefix := []byte(prefixGame)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			game := &SavedGame{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, game)
			})
			if err != nil {
				return err
			}
			games = append(games, game)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Updated.After(games[j].Updated)
	})
	return games, nil
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the JSON stored under key into v, leaving v untouched and
// reporting false when the key does not exist.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
