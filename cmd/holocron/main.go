package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/holocron-tools/holocron/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	gamePath   string
	dbPath     string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "holocron",
	Short: "Game installation resource inspection and extraction tool",
	Long: `holocron resolves resources across all the physical sources of a game
installation (the override directory, module capsules, texture packs,
stream directories, and the chitin key/blob archive) using the same
layered priority rules the game itself applies.

Point it at an installation root to query where a resource comes from,
extract resources to loose files, or export the full resolved index to
a SQLite catalog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("path") {
			cfg.Path = gamePath
		}
		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if cmd.Flags().Changed("no-progress") {
			cfg.NoProgress = noProgress
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}
		slog.SetDefault(slog.New(handler))

		if cfg.Path == "" {
			return fmt.Errorf("no installation path configured (use --path or a config file)")
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default holocron.yaml in $HOME or .)")
	rootCmd.PersistentFlags().StringVarP(&gamePath, "path", "p", "", "installation root directory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "database", "", "catalog database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bars")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
