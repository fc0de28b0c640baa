// RetroChess - play chess against the computer in a terminal
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/storage"
	"github.com/hailam/retrochess/internal/ui"
)

var (
	dbDir      = flag.String("db", "", "database directory (default: platform data directory)")
	difficulty = flag.String("difficulty", "", "difficulty for this game: easy, medium or hard")
	side       = flag.String("color", "", "side to play: white or black")
	noColor    = flag.Bool("nocolor", false, "plain text board")
)

func main() {
	flag.Parse()

	var (
		store *storage.Storage
		err   error
	)
	if *dbDir != "" {
		store, err = storage.Open(*dbDir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if loaded, err := store.LoadPreferences(); err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			prefs = loaded
		}
	}
	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			log.Fatal(err)
		}
		prefs.Difficulty = d
	}
	if *side != "" {
		c, ok := board.ParseColor(*side)
		if !ok {
			log.Fatalf("unknown color %q", *side)
		}
		prefs.PlayerColor = storage.ColorWhite
		if c == board.Black {
			prefs.PlayerColor = storage.ColorBlack
		}
	}

	game := ui.NewGame(ui.Config{
		In:      os.Stdin,
		Out:     os.Stdout,
		Storage: store,
		Color:   !*noColor && ui.ColorSupported(os.Stdout),
		Prefs:   prefs,
	})
	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}
