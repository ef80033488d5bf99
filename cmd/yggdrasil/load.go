package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kashari/golog"
	"github.com/spf13/cobra"

	"github.com/kashari/yggdrasil/corpus"
	"github.com/kashari/yggdrasil/tree"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a corpus file into a tree and report size/timing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.CorpusPath == "" {
			return fmt.Errorf("--corpus is required")
		}

		t, n, elapsed, err := loadCorpus(cfg.CorpusPath, cfg.CorpusFormat)
		if err != nil {
			return err
		}
		golog.Info("loaded {} records into tree (size={}) in {}", n, t.Size(), elapsed)
		return nil
	},
}

// loadCorpus opens path and streams it into a fresh tree via corpus.Load,
// picking the decoder named by format ("tab" or "json").
func loadCorpus(path, format string) (*tree.Tree[corpus.Record], int, time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	decoder := corpus.TabDecoder()
	if format == "json" {
		decoder = corpus.JSONLineDecoder()
	}

	t := tree.New[corpus.Record]()
	start := time.Now()
	n, err := corpus.Load(f, t, decoder)
	elapsed := time.Since(start)
	if err != nil {
		golog.Warn("corpus load finished with errors: {}", err)
	}
	return t, n, elapsed, nil
}

// comparatorFor builds a MatchRanked-compatible comparator over Records for
// the CLI's own in-memory (non-server) tree, mirroring the comparator names
// RegisterTreeRoutes accepts over HTTP.
func comparatorFor(name, field string) func(a, b corpus.Record) bool {
	switch name {
	case "lexicographic":
		return func(a, b corpus.Record) bool { return a.Pattern < b.Pattern }
	case "numeric":
		if field == "" || field == "score" {
			return func(a, b corpus.Record) bool { return a.Score > b.Score }
		}
		num := func(r corpus.Record) float64 {
			var m map[string]any
			if err := json.Unmarshal([]byte(r.Value), &m); err != nil {
				return 0
			}
			f, _ := m[field].(float64)
			return f
		}
		return func(a, b corpus.Record) bool { return num(a) > num(b) }
	default:
		return nil
	}
}
