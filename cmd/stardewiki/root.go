// Command stardewiki serves Stardew Valley wiki content over MCP or HTTP and
// offers search/page subcommands for manual checks.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oakhollow/stardewiki/wiki"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "stardewiki",
	Short: "Stardew Valley wiki retrieval and extraction service",
	Long: `stardewiki answers Stardew Valley questions from the official wiki:
smart search, structured page extraction, and markdown rendering, exposed as
MCP tools (mcp), an HTTP API (serve), or one-shot CLI calls (search, page).`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// .env is optional; real environment wins.
		_ = godotenv.Load()
		setupLogging()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default info)")
}

// setupLogging installs a JSON slog handler on stderr. Stdout stays clean for
// MCP protocol traffic and subcommand output.
func setupLogging() {
	level := flagLogLevel
	if level == "" {
		level = env("LOG_LEVEL", "info")
	}
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

// loadService builds the service from the config file and environment
// overrides.
func loadService() (*wiki.Service, error) {
	cfg, err := wiki.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if v := os.Getenv("WIKI_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("WIKI_SITE_URL"); v != "" {
		cfg.SiteURL = v
	}
	if v := os.Getenv("HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}
	cfg.Logger = slog.Default()
	return wiki.New(cfg)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
