// Package cli implements the langkit command line interface: one-shot
// analysis of files using the same engine an editor host embeds.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/langkit/internal/detect"
	"github.com/dshills/langkit/internal/engine"
	"github.com/dshills/langkit/internal/logging"
	"github.com/dshills/langkit/internal/profile"
)

var (
	version = "dev"

	profilesDir  string
	langOverride string
	logLevel     string
	asJSON       bool
)

var rootCmd = &cobra.Command{
	Use:          "langkit",
	Short:        "Language analysis for editor hosts",
	Long:         `Langkit tokenizes, indexes, and completes source files using JSON language profiles. Each subcommand runs one analysis over a file and prints the result.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilesDir, "profiles", "",
		"directory of profile JSON files searched before the built-ins")
	rootCmd.PersistentFlags().StringVar(&langOverride, "lang", "",
		"profile id to use instead of detecting from the file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false,
		"emit machine-readable JSON instead of formatted text")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func newLogger() (*slog.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = logLevel
	return logging.New(cfg)
}

// analysis bundles the engine state the subcommands share: a registry over
// the configured profile directory, one open buffer for the target file,
// and a completed background pass.
type analysis struct {
	engine   *engine.Engine
	bufferID string
	language string
	text     string
}

// analyzeFile loads a file, resolves its language, opens it as a buffer,
// and waits for the extraction pass so every snapshot is ready.
func analyzeFile(path string) (*analysis, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	language := langOverride
	if language == "" {
		language = detect.New(logger).Language(path, data)
	}

	registry := profile.NewRegistry(
		profile.WithDir(profilesDir),
		profile.WithLogger(logger),
	)
	eng := engine.New(registry, engine.Options{Logger: logger})

	text := string(data)
	id := eng.OpenBuffer(language, text)
	if err := eng.Flush(id); err != nil {
		return nil, err
	}

	return &analysis{engine: eng, bufferID: id, language: language, text: text}, nil
}

func (a *analysis) close() {
	a.engine.CloseBuffer(a.bufferID)
}
