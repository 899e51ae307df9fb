// Shmoopland is a whimsical, data-driven text adventure.
// Usage: shmoopland [--version] [--plain] [--check] [--script <file>] [--trace] [--seed <n>] [content_dir]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/nathoo/shmoopland/cli"
	"github.com/nathoo/shmoopland/config"
	"github.com/nathoo/shmoopland/data"
	"github.com/nathoo/shmoopland/engine"
	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/nlp"
	"github.com/nathoo/shmoopland/loader"
	"github.com/nathoo/shmoopland/logger"
	"github.com/nathoo/shmoopland/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: shmoopland [--version] [--plain] [--check] [--script <file>] [--trace] [--seed <n>] [content_dir]\n"

func main() {
	plain := false
	trace := false
	check := false
	var contentDir, scriptFile string
	var seed int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("shmoopland %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--check":
			check = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --seed %q\n", args[i])
				os.Exit(1)
			}
			seed = n
		case "--help", "-h":
			fmt.Print(usage)
			return
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg, os.Stderr)

	if contentDir == "" {
		contentDir = cfg.ContentDir
	}
	store, err := loadContent(contentDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}
	if check {
		fmt.Printf("%s: %d locations, %d items, %d recipes, %d npcs, %d quests\n",
			store.Game.Title, len(store.Locations), len(store.Items), len(store.Recipes),
			len(store.NPCs), len(store.Quests))
		return
	}

	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []engine.Option{engine.WithSeed(seed), engine.WithLogger(log)}
	if cfg.NLP {
		opts = append(opts, engine.WithTagger(nlp.NewProseTagger()))
	}
	eng := engine.New(store, opts...)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadContent loads a content pack from dir, or the built-in pack when dir
// is empty.
func loadContent(dir string, log *slog.Logger) (*content.Store, error) {
	if dir == "" {
		return loader.LoadFS(data.Game(), loader.WithLogger(log))
	}
	return loader.Load(dir, loader.WithLogger(log))
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
