package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/ADSteele916/cabal"
	"github.com/spf13/cobra"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}

	idPattern, err := buildIDPattern(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	table, err := loadTable(data, idPattern, cfg.NormalizeIDs)
	if err != nil {
		return err
	}
	slog.Info("similarity table ready", "names", table.Len(), "edges", table.EdgeCount())

	limit := cfg.MaxSimilarity * cabal.PPMPerPercent
	step := cfg.Step * cabal.PPMPerPercent
	exports, err := cabal.EvolveCliques(table, limit, step)
	if err != nil {
		return err
	}

	for _, threshold := range exports {
		slog.Debug("boundary reached", "ppm", threshold.Boundary, "cliques", len(threshold.Cliques.Cliques))
		fmt.Printf("At %d%%\n", threshold.Boundary/cabal.PPMPerPercent)
		fmt.Println(threshold.Cliques)
	}
	return nil
}

// buildIDPattern compiles the id-extraction pattern: an explicit
// --id-pattern wins, otherwise the pattern is derived from the handin
// file name using the conventional <assignment>/<id>/<handin> layout.
func buildIDPattern(cfg config) (*regexp.Regexp, error) {
	expr := cfg.IDPattern
	if expr == "" {
		expr = "^[^/]+/(.+)/" + cfg.HandinName
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid id pattern %q: %w", expr, err)
	}
	return pattern, nil
}

// loadTable builds the similarity table from raw input bytes, which are
// either a table saved by "cabal convert" (recognized by its magic
// number) or an allpairs report to parse.
func loadTable(data []byte, idPattern *regexp.Regexp, normalize bool) (*cabal.PPMTable, error) {
	if bytes.HasPrefix(data, []byte(cabal.TableMagic)) {
		slog.Debug("input recognized as a serialized table")
		table := new(cabal.PPMTable)
		if _, err := table.ReadFrom(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to load similarity table: %w", err)
		}
		return table, nil
	}

	opts := []cabal.LoadOption{cabal.WithIDPattern(idPattern)}
	if normalize {
		opts = append(opts, cabal.WithIDNormalization())
	}
	return cabal.LoadAllpairs(bytes.NewReader(data), opts...)
}
