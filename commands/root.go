package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmowery/weightline/internal/analyzer"
	"github.com/kmowery/weightline/internal/core/constants"
	"github.com/kmowery/weightline/internal/util"
)

var (
	// Logging related
	debug bool

	// Data path
	dataDir string

	// Output related
	outputFormat string
	timezone     string

	// Timeline window
	date            string
	displayDays     int
	fetchWindowDays int
	reset           bool

	rootCmd = &cobra.Command{
		Use:   "weightline [flags]",
		Short: "Daily weight timeline tool",
		Long: `weightline derives a dense daily weight timeline from sparse weigh-in logs.

The tool scans JSONL measurement files in the data directory, collapses multiple
weigh-ins per day to one representative entry, fills gaps by carrying the last
known weight forward, and renders the result.

Examples:
  weightline                                  # Last 30 days ending today
  weightline --dir /path/to/exports           # Analyze specified directory
  weightline --date 2025-06-01 --days 14      # 14 days ending 2025-06-01
  weightline --output json                    # Output in JSON format
  weightline --timezone America/New_York      # Group weigh-ins by New York days
  weightline watch                            # Re-render whenever files change`,
		RunE: runAnalyze,
	}
)

const (
	defaultLogFile  = "~/.weightline/logs/app.log"
	defaultCacheDir = "~/.weightline/cache"
	defaultDataDir  = "~/.weightline/data"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Measurement data directory path")

	// Timeline window
	rootCmd.PersistentFlags().StringVar(&date, "date", "",
		"Last day of the display window (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().IntVar(&displayDays, "days", constants.DefaultDisplayDays,
		"Number of days to display")
	rootCmd.PersistentFlags().IntVar(&fetchWindowDays, "window", constants.DefaultFetchWindowDays,
		"Lookback window for seeding carry-forward, in days")

	// Output configuration
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "",
		"Alias for --output")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for day grouping (e.g., Asia/Shanghai, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before analysis")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	config, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	a := analyzer.New(config)
	return a.Run()
}

// buildConfig initializes logging and directories and assembles the
// analyzer configuration shared by the root and watch commands.
func buildConfig(cmd *cobra.Command) (*analyzer.Config, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
	util.InitializeTimeProvider(timezone)

	dataDir = expandPath(dataDir)
	cacheDir := expandPath(defaultCacheDir)

	if err := ensureDir(cacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if reset {
		if err := clearCache(cacheDir); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	return &analyzer.Config{
		DataDir:         dataDir,
		CacheDir:        cacheDir,
		OutputFormat:    outputFormat,
		Timezone:        timezone,
		Date:            date,
		DisplayDays:     displayDays,
		FetchWindowDays: fetchWindowDays,
		Concurrency:     runtime.NumCPU(),
	}, nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
