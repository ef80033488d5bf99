package main

import (
	"os"

	"github.com/kashari/golog"
	"github.com/spf13/cobra"
)

var cfg = defaultConfig()

var rootCmd = &cobra.Command{
	Use:   "yggdrasil",
	Short: "A UTF-8 prefix-rank suggestion index and server",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.Listen, "listen", cfg.Listen, "port to listen on")
	pf.StringVar(&cfg.CorpusPath, "corpus", cfg.CorpusPath, "corpus file to load on startup")
	pf.StringVar(&cfg.CorpusFormat, "corpus-format", cfg.CorpusFormat, "corpus line format: tab or json")
	pf.IntVar(&cfg.DefaultK, "k", cfg.DefaultK, "default result bound for ranked queries")
	pf.StringVar(&cfg.Comparator, "comparator", cfg.Comparator, "ranking comparator: insertion, lexicographic, or numeric")
	pf.StringVar(&cfg.ComparatorKey, "field", cfg.ComparatorKey, "JSON field name used by the numeric comparator")
	pf.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "optional file to additionally log to")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		golog.Error("{}", err)
		os.Exit(1)
	}
}
