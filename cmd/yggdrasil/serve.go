package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kashari/golog"
	"github.com/spf13/cobra"

	"github.com/kashari/yggdrasil"
	"github.com/kashari/yggdrasil/corpus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the suggest server, optionally preloading a corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		router := yggdrasil.New().WithWorkerPool(16).WithRateLimiter(200, time.Second)
		if cfg.LogFile != "" {
			router = router.WithFileLogging(cfg.LogFile)
		}

		store := yggdrasil.NewTreeStore()
		yggdrasil.RegisterTreeRoutes(router, store, cfg.DefaultK)

		if cfg.CorpusPath != "" {
			if err := preload(store, "default", cfg.CorpusPath, cfg.CorpusFormat); err != nil {
				return err
			}
		}

		golog.Info("serving on :{}", cfg.Listen)
		return router.Start(cfg.Listen)
	},
}

// preload reads path into the named index of store using the server's own
// string-valued tree, so corpus-loaded records are visible through the same
// /v1/trees/:name/... routes as values inserted over HTTP.
func preload(store *yggdrasil.TreeStore, name, path, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	base := corpus.TabDecoder()
	if format == "json" {
		base = corpus.JSONLineDecoder()
	}
	decoder := func(line []byte) (string, string, error) {
		pattern, rec, err := base(line)
		return pattern, rec.Value, err
	}

	idx := store.Index(name)
	start := time.Now()
	n, loadErr := corpus.Load(f, idx.Tree, decoder)
	if loadErr != nil {
		golog.Warn("corpus preload finished with errors: {}", loadErr)
	}
	golog.Info("preloaded {} records from {} in {}", n, path, time.Since(start))
	return nil
}
