package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	difficulty = flag.String("difficulty", "medium", "default difficulty: easy, medium or hard")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal(err)
	}
	eng := engine.NewEngine()
	eng.SetDifficulty(d)

	// Create and run UCI protocol handler
	protocol := uci.New(eng, os.Stdin, os.Stdout, os.Stderr)
	if err := protocol.Run(); err != nil {
		log.Printf("uci: %v", err)
	}
}
