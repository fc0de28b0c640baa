package ui

import (
	"strings"

	"github.com/hailam/retrochess/internal/board"
)

// Command is one line typed by the player.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a line into a command. A bare coordinate move such as
// "e2e4" becomes the "move" command. ok is false for a blank line.
func ParseCommand(line string) (cmd Command, ok bool) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, false
	}
	if len(fields) == 1 && looksLikeMove(fields[0]) {
		return Command{Name: "move", Args: fields}, true
	}

	name := fields[0]
	switch name {
	case "exit", "q":
		name = "quit"
	case "new":
		name = "restart"
	case "?":
		name = "help"
	case "level", "difficulty":
		name = "level"
	}
	return Command{Name: name, Args: fields[1:]}, true
}

// looksLikeMove reports whether s has the shape of a coordinate move. The
// squares themselves are checked when the move is played.
func looksLikeMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	_, err := board.ParseMove(s)
	return err == nil
}
