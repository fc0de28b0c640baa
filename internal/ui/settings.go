package ui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/storage"
)

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	if g.storage == nil {
		g.prefs = storage.DefaultPreferences()
		return
	}

	var err error
	g.prefs, err = g.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		g.prefs = storage.DefaultPreferences()
	}
}

// applyPreferences carries the preferences over to the session and board.
func (g *Game) applyPreferences() {
	g.difficulty = g.prefs.Difficulty
	g.sess.SetDepth(g.difficulty.Depth())
	g.sess.SetHuman(g.prefs.PlayerColor.Color())
	g.renderer.SetFlipped(g.sess.Human() == board.Black)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	g.prefs.Difficulty = g.difficulty
	if g.sess.Human() == board.Black {
		g.prefs.PlayerColor = storage.ColorBlack
	} else {
		g.prefs.PlayerColor = storage.ColorWhite
	}

	if g.storage == nil {
		return
	}
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// checkFirstLaunch asks for the player's name on first launch.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}

	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if !isFirst {
		return
	}

	fmt.Fprintln(g.out, "Welcome to RetroChess!")
	fmt.Fprint(g.out, "What is your name? ")
	if line, ok := g.readLine(); ok {
		if name := strings.TrimSpace(line); name != "" {
			g.prefs.Username = name
		}
	}

	if err := g.storage.MarkFirstLaunchComplete(); err != nil {
		log.Printf("Warning: Failed to mark first launch complete: %v", err)
	}
	g.savePreferences()
}

// recordResult adds the finished game to the statistics, once per game.
func (g *Game) recordResult() {
	if g.recorded {
		return
	}
	result, over := storage.ResultFromStatus(g.sess.Status(), g.sess.Human())
	if !over {
		return
	}
	g.recorded = true
	if g.storage == nil {
		return
	}

	result.Difficulty = g.difficulty
	result.Duration = g.now().Sub(g.started)
	if err := g.storage.RecordGame(result); err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}
}

// printStats writes the player's statistics.
func (g *Game) printStats(w io.Writer) {
	if g.storage == nil {
		fmt.Fprintln(w, "Statistics are not kept in this session.")
		return
	}
	stats, err := g.storage.LoadStats()
	if err != nil {
		fmt.Fprintf(w, "Could not load statistics: %v\n", err)
		return
	}

	fmt.Fprintf(w, "%s: %d played, %d won, %d lost, %d drawn (%.0f%% wins)\n",
		g.prefs.Username, stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate())
	fmt.Fprintf(w, "Current streak %d, best streak %d, time played %s\n",
		stats.CurrentStreak, stats.LongestWinStrk, stats.TotalPlayTime.Round(time.Second))
}
