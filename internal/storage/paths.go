// Package storage provides persistent storage for user preferences, game
// statistics and saved games.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "retrochess"

// homeEnv names a directory that replaces the platform data directory.
const homeEnv = "RETROCHESS_HOME"

// GetDataDir returns the data directory for the application, creating it if
// needed. $RETROCHESS_HOME wins when set; otherwise it is platform specific:
// - macOS: ~/Library/Application Support/retrochess/
// - Linux: ~/.local/share/retrochess/
// - Windows: %APPDATA%/retrochess/
func GetDataDir() (string, error) {
	if dir := os.Getenv(homeEnv); dir != "" {
		return ensureDir(dir)
	}

	var baseDir string
	switch runtime.GOOS {
	case "darwin":
		// macOS: ~/Library/Application Support/
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		// Windows: %APPDATA%
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: ~/.local/share/
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return ensureDir(filepath.Join(baseDir, appName))
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	return ensureDir(filepath.Join(dataDir, "db"))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
