package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ADSteele916/cabal"
	"github.com/spf13/cobra"
)

func runConvert(cmd *cobra.Command, args []string) error {
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

	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer in.Close()

	opts := []cabal.LoadOption{cabal.WithIDPattern(idPattern)}
	if cfg.NormalizeIDs {
		opts = append(opts, cabal.WithIDNormalization())
	}
	table, err := cabal.LoadAllpairs(in, opts...)
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[1], err)
	}
	n, err := table.WriteTo(out)
	if err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", args[1], err)
	}

	slog.Info("similarity table saved", "path", args[1], "bytes", n, "names", table.Len())
	return nil
}
