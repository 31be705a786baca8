package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/wastat/internal/config"
)

var version = "dev"

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:           "wastat",
		Short:         "WhatsApp chat export statistics - parse exports, analyze activity, search messages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error); default from config")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(messagesCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends logs to stderr so stdout stays clean for TSV and JSON.
// An empty level falls back to the config, then to info.
func setupLogging(level string) error {
	if level == "" {
		level = "info"
		if cfg, err := config.Load(); err == nil {
			level = cfg.LogLevel
		}
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
	return nil
}
