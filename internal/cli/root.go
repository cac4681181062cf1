// Package cli provides the command-line interface for debridget.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NamanBalaji/debridget/internal/config"
	"github.com/NamanBalaji/debridget/internal/engine"
	"github.com/NamanBalaji/debridget/internal/logger"
)

// NewRootCmd creates the root command for debridget.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "debridget",
		Short:         "Download manager for debrid links",
		Long:          `Streams already unlocked debrid links to disk, exposing progress over an HTTP API or a terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to "+config.LogPath())

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "debridget %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewGetCmd())

	return rootCmd
}

// setup loads configuration and starts logging for a command.
func setup(cmd *cobra.Command) (*config.Config, error) {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, err
	}

	if err := logger.InitLogging(debug, config.LogPath()); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", config.Path(), err)
	}

	return cfg, nil
}

func engineConfig(cfg *config.Config) *engine.Config {
	return &engine.Config{
		DownloadDir:   cfg.DownloadDir,
		ChunkSize:     cfg.ChunkSize,
		StagingSuffix: cfg.StagingSuffix,
		UserAgent:     cfg.UserAgent,
	}
}
