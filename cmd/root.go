// Package cmd defines and implements the CLI commands for the ghtrends executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/config"
	"github.com/ymaeda/gh-trending-tracker/internal/logging"
	"github.com/ymaeda/gh-trending-tracker/internal/metrics"
)

// root carries the services shared by every subcommand, built once in the
// root command's PersistentPreRunE after configuration is loaded.
type root struct {
	cfg    config.Config
	logger *zap.Logger
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string
	rt := &root{}

	cmd := &cobra.Command{
		Use:   "ghtrends",
		Short: "Tracks GitHub Trending across language, locale and time-window facets.",
		Long: `ghtrends periodically scrapes the GitHub Trending pages across every
programming-language facet, records which facet combinations each repository
appeared under, and maintains a cumulative store of dated snapshots plus a
rolling latest view.`,
		SilenceUsage: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			metrics.Init()
			rt.cfg = cfg
			rt.logger = logger
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newGatherCmd(rt))
	cmd.AddCommand(newOrganizeCmd(rt))
	cmd.AddCommand(newServeCmd(rt))

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
