package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chunkcache/internal/config"
	"chunkcache/internal/locator"
)

var (
	// Global flags
	verbose    bool
	bookDir    string
	configPath string

	// Shared state built once per invocation
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chunkcache",
	Short: "chunkcache - cached-chunk extraction for executable tutorial books",
	Long: `chunkcache keeps the chapters of an executable tutorial book honest about
their dependencies. A chapter's code chunks are baked once into a persisted
execution cache; later chapters reconstruct the variables they need from
that cache instead of re-running expensive computation, and receive a
collapsible transcript of the code that originally produced them.

Typical flow:
  chunkcache bake 03-quality-control.md
  chunkcache extract quality-control --chunk filtering --objects sce,discard`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(resolveConfigPath()); err != nil {
			return err
		}
		if bookDir != "" {
			cfg.Book.BaseDir = bookDir
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(logLevel())
		if logger, err = zcfg.Build(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	base := bookDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, config.DefaultFileName)
}

func logLevel() zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	switch cfg.Logging.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// bookLocator builds the document locator for the configured book layout.
func bookLocator() *locator.Locator {
	return locator.NewWithStrategies(cfg.Book.BaseDir,
		locator.Direct,
		locator.Shared(cfg.Book.SharedDir),
		locator.ChapterSuffix,
	)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&bookDir, "book-dir", "", "book directory (default: config, then current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to chunkcache.yaml")

	rootCmd.AddCommand(bakeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(transcriptCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
