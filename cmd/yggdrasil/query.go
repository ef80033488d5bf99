package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kashari/yggdrasil/corpus"
	"github.com/kashari/yggdrasil/tree"
)

// Palette mirrors the IBM Carbon colors the corpus's own style helpers use
// for log-level coloring, reused here for table rows instead.
const (
	colorBlue60   = "#4589ff"
	colorGray60   = "#8d8d8d"
	colorGray10   = "#f4f4f4"
	colorOrange40 = "#ff832b"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBlue60)).Padding(0, 1)
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray10)).Padding(0, 1)
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorOrange40)).Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray60)).Italic(true)
)

var queryPrefix string
var queryRanked bool

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "One-shot exhaustive or ranked match against a loaded corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.CorpusPath == "" {
			return fmt.Errorf("--corpus is required")
		}
		if queryPrefix == "" {
			return fmt.Errorf("--prefix is required")
		}

		t, n, elapsed, err := loadCorpus(cfg.CorpusPath, cfg.CorpusFormat)
		if err != nil {
			return err
		}
		fmt.Println(emptyStyle.Render(fmt.Sprintf("loaded %d records in %s", n, elapsed)))

		var results []string
		if queryRanked {
			cmp := comparatorFor(cfg.Comparator, cfg.ComparatorKey)
			if cmp == nil {
				for _, rec := range t.Match(queryPrefix) {
					results = append(results, rec.Pattern)
					if len(results) >= cfg.DefaultK {
						break
					}
				}
			} else {
				ranked := tree.MatchRanked(t, queryPrefix, func(r corpus.Record) corpus.Record { return r }, cmp, cfg.DefaultK)
				for _, rec := range ranked {
					results = append(results, rec.Pattern)
				}
			}
		} else {
			for _, rec := range t.Match(queryPrefix) {
				results = append(results, rec.Pattern)
			}
		}

		printResultTable(queryPrefix, results)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryPrefix, "prefix", "", "prefix to match against")
	queryCmd.Flags().BoolVar(&queryRanked, "ranked", false, "use ranked match (MatchRanked) instead of exhaustive Match")
}

func printResultTable(prefix string, results []string) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Matches for %q (%d)", prefix, len(results))))
	if len(results) == 0 {
		fmt.Println(emptyStyle.Render("  (no matches)"))
		return
	}
	for i, r := range results {
		fmt.Println(rankStyle.Render(fmt.Sprintf("%3d", i+1)) + rowStyle.Render(r))
	}
}
