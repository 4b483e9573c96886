package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/cache"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/config"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/vault"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagRoot   string
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:   "daily-news-briefing",
	Short: "Generate a daily news digest document",
	Long: `daily-news-briefing acquires per-topic news summaries through a
configurable provider, caches them for the day, and renders a single
Markdown document into the archive folder.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "base directory the archive folder lives under (default: current directory)")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daily-news-briefing %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openCache opens the sqlite-backed daily cache. The cache is best-effort:
// if it cannot be opened, generation proceeds on an in-memory store so a
// broken cache file never blocks the day's document.
func openCache() cache.Store {
	store, err := cache.Open(config.CachePath())
	if err != nil {
		warnColor.Fprintf(os.Stderr, "[warn] opening cache: %v (continuing without persistence)\n", err)
		return cache.NewMemory()
	}
	// Entries from days the process slept through are stale now.
	store.PruneNotMatching(time.Now().Format("2006-01-02"))
	return store
}

func openVault() vault.Store {
	return vault.NewFS(flagRoot)
}
