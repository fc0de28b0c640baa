package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/server"
	"github.com/hailam/retrochess/internal/storage"
)

var (
	addr       = flag.String("addr", ":3000", "listen address")
	dbDir      = flag.String("db", "", "database directory (default: platform data directory)")
	memory     = flag.Bool("memory", false, "keep games in memory only")
	difficulty = flag.String("difficulty", "medium", "default difficulty: easy, medium or hard")
	origins    = flag.String("origins", "*", "allowed CORS origins")
)

func main() {
	flag.Parse()

	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal(err)
	}

	var store *storage.Storage
	switch {
	case *memory:
	case *dbDir != "":
		store, err = storage.Open(*dbDir)
	default:
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Fatal("could not open database: ", err)
	}
	if store != nil {
		defer store.Close()
	}

	app := server.New(server.NewGameManager(store), server.Config{
		AllowOrigins: *origins,
		Difficulty:   d,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("[HTTP] shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("[HTTP] shutdown: %v", err)
		}
	}()

	log.Printf("[HTTP] listening on %s", *addr)
	if err := app.Listen(*addr); err != nil {
		log.Printf("[HTTP] %v", err)
	}
}
