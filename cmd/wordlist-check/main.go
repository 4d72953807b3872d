// Command wordlist-check validates a dictionary dataset before it is
// deployed. It loads the file the same way the server does and prints the
// entry and distinct-word counts.
//
// Flags:
//
//	--path     dataset file (default: dictionary.path from config)
//	--verbose  also report entries that can never match a search
//
// Exit codes: 0 = dataset is valid, 1 = error.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/heartmarshall/wordlookup/internal/adapter/wordlist"
	"github.com/heartmarshall/wordlookup/internal/config"
)

func main() {
	pathFlag := flag.String("path", "", "dataset file (default: dictionary.path from config)")
	verboseFlag := flag.Bool("verbose", false, "report entries that can never match")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	path := *pathFlag
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			logger.Error("load app config", slog.String("error", err.Error()))
			os.Exit(1)
		}
		path = cfg.Dictionary.Path
	}

	store, err := wordlist.Load(path)
	if err != nil {
		logger.Error("invalid dataset", slog.String("path", path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	unmatchable := 0
	for i, e := range store.Entries() {
		if e.Word != "" {
			continue
		}
		unmatchable++
		if *verboseFlag {
			logger.Warn("entry has no word", slog.Int("index", i), slog.String("definition", e.Definition))
		}
	}

	fmt.Printf("%s: %d entries, %d distinct words, %d without a word\n",
		path, store.Len(), store.DistinctWords(), unmatchable)
}
