// Command cabal analyzes allpairs similarity reports for cliques of
// similar handins.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cabal",
		Short: "Analyze allpairs similarity reports for cliques of similar handins",
		Long: `Cabal reads an allpairs similarity report and shows how handins group
into cliques of mutual similarity as the similarity threshold is relaxed,
one threshold boundary at a time.

Lower percentages mean stricter similarity: a clique shown at 2% connects
handins whose pairwise difference is at most 2%.`,
		Version: version,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <report>",
		Short: "Print clique evolution across similarity thresholds",
		Long: `Analyze parses an allpairs report (or loads a table previously saved
with "cabal convert", detected by its magic number) and prints, for each
threshold boundary, the cliques present at that threshold and how they
relate to the previous boundary's cliques.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
	addParserFlags(analyzeCmd)
	analyzeCmd.Flags().Uint32P("max-similarity", "m", defaultMaxSimilarity, "Maximum percentage to display similarities at (lower is more similar)")
	analyzeCmd.Flags().Uint32("step", defaultStep, "Threshold step in percentage points")

	convertCmd := &cobra.Command{
		Use:   "convert <report> <table>",
		Short: "Parse an allpairs report and save the similarity table in binary form",
		Long: `Convert parses an allpairs report once and writes the resulting
similarity table to disk in a compact binary format that "cabal analyze"
loads without re-parsing.`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}
	addParserFlags(convertCmd)

	rootCmd.PersistentFlags().String("log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.AddCommand(analyzeCmd, convertCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addParserFlags registers the flags shared by every command that parses
// an allpairs report.
func addParserFlags(cmd *cobra.Command) {
	cmd.Flags().String("handin-name", defaultHandinName, "File name used in the paths in the allpairs report")
	cmd.Flags().String("id-pattern", "", "Regexp whose first capture group extracts an id from a path (overrides --handin-name)")
	cmd.Flags().Bool("normalize-ids", false, "Fold extracted ids to Unicode NFC")
}
