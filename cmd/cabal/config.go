package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

const (
	defaultMaxSimilarity uint32 = 6
	defaultStep          uint32 = 1
	defaultHandinName           = "handin.rkt"
	defaultLogLevel             = "warn"
)

// config carries every tunable the commands share.
type config struct {
	// MaxSimilarity is the largest percentage boundary to report at.
	MaxSimilarity uint32 `koanf:"max_similarity"`

	// Step is the boundary step in percentage points.
	Step uint32 `koanf:"step"`

	// HandinName is the handin file name appearing in report paths; it
	// anchors the default id pattern.
	HandinName string `koanf:"handin_name"`

	// IDPattern, when set, replaces the pattern derived from HandinName.
	IDPattern string `koanf:"id_pattern"`

	// NormalizeIDs folds extracted ids to Unicode NFC.
	NormalizeIDs bool `koanf:"normalize_ids"`

	// LogLevel controls diagnostic output on stderr.
	LogLevel string `koanf:"log_level"`
}

func defaultConfig() config {
	return config{
		MaxSimilarity: defaultMaxSimilarity,
		Step:          defaultStep,
		HandinName:    defaultHandinName,
		LogLevel:      defaultLogLevel,
	}
}

// loadConfig builds the effective config by layering, lowest precedence
// first:
//  1. built-in defaults
//  2. a YAML file named by CABAL_CONFIG, when set
//  3. CABAL_* environment variables (CABAL_MAX_SIMILARITY and friends)
//  4. flags the user set explicitly on the command line
func loadConfig(cmd *cobra.Command) (config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if path := os.Getenv("CABAL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Map env keys like CABAL_MAX_SIMILARITY -> max_similarity to match
	// the koanf tags on the struct.
	envProvider := env.Provider("CABAL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "cabal_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return cfg, fmt.Errorf("failed to load environment config: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}

	if cfg.MaxSimilarity > 100 {
		return cfg, fmt.Errorf("max-similarity must be between 0 and 100, got %d", cfg.MaxSimilarity)
	}
	if cfg.Step == 0 {
		return cfg, errors.New("step must be at least 1")
	}
	return cfg, nil
}

// applyFlags overrides config fields with any flag the user set
// explicitly. Flags a command does not define are simply skipped.
func applyFlags(cmd *cobra.Command, cfg *config) error {
	flags := cmd.Flags()

	if flags.Changed("max-similarity") {
		v, err := flags.GetUint32("max-similarity")
		if err != nil {
			return err
		}
		cfg.MaxSimilarity = v
	}
	if flags.Changed("step") {
		v, err := flags.GetUint32("step")
		if err != nil {
			return err
		}
		cfg.Step = v
	}
	if flags.Changed("handin-name") {
		v, err := flags.GetString("handin-name")
		if err != nil {
			return err
		}
		cfg.HandinName = v
	}
	if flags.Changed("id-pattern") {
		v, err := flags.GetString("id-pattern")
		if err != nil {
			return err
		}
		cfg.IDPattern = v
	}
	if flags.Changed("normalize-ids") {
		v, err := flags.GetBool("normalize-ids")
		if err != nil {
			return err
		}
		cfg.NormalizeIDs = v
	}
	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = v
	}
	return nil
}

// setupLogging points the default slog logger at stderr with the
// configured level, keeping stdout clean for report output.
func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
