package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ymaeda/gh-trending-tracker/internal/clock/system"
	"github.com/ymaeda/gh-trending-tracker/internal/fetch"
	"github.com/ymaeda/gh-trending-tracker/internal/gather"
	"github.com/ymaeda/gh-trending-tracker/internal/id/uuid"
	"github.com/ymaeda/gh-trending-tracker/internal/snapshot"
	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// newGatherCmd creates the 'gather' subcommand, which runs one collection
// batch for a single (time window, spoken language) combination.
func newGatherCmd(rt *root) *cobra.Command {
	var since, spokenLanguage string

	cmd := &cobra.Command{
		Use:   "gather",
		Short: "Collects one batch of trending pages and writes a run snapshot",
		Long: `Fetches every facet's trending page under the configured concurrency
ceiling, aggregates repositories that appear under multiple facets, and
writes the per-run snapshot plus the refreshed facet cache.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := rt.cfg
			fetcher := fetch.NewCollyFetcher(fetch.Config{
				UserAgent: cfg.Fetch.UserAgent,
				Timeout:   cfg.Fetch.Timeout(),
			}, rt.logger.Named("fetcher"))
			extractor := trending.NewExtractor(cfg.Source.BaseURL, rt.logger.Named("extract"))
			orchestrator := fetch.NewOrchestrator(
				fetcher,
				extractor,
				cfg.Fetch.Concurrency,
				cfg.Fetch.Timeout(),
				cfg.Fetch.Cooldown(),
				rt.logger.Named("fetch"),
			)
			store, err := snapshot.NewStore(cfg.Paths.WorkDir, cfg.Paths.DataDir, system.New(), rt.logger.Named("snapshot"))
			if err != nil {
				return err
			}

			runner := gather.NewRunner(
				fetcher,
				orchestrator,
				store,
				cfg.Source.BaseURL,
				uuid.NewGenerator(),
				rt.logger.Named("gather"),
			)
			return runner.Run(ctx, since, spokenLanguage)
		},
	}

	cmd.Flags().StringVar(&since, "since", "daily", "time window facet (daily, weekly or monthly)")
	cmd.Flags().StringVar(&spokenLanguage, "spoken-language", trending.FacetAll,
		`spoken language facet code, or "all" for unfiltered`)

	return cmd
}
