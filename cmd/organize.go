package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/clock/system"
	"github.com/ymaeda/gh-trending-tracker/internal/snapshot"
)

// newOrganizeCmd creates the 'organize' subcommand, which folds every run
// snapshot into the cumulative store.
func newOrganizeCmd(rt *root) *cobra.Command {
	return &cobra.Command{
		Use:   "organize",
		Short: "Merges run snapshots into the cumulative latest and hourly views",
		Long: `Reads every per-run snapshot in the work directory, folds them into one
identity-keyed map with accumulated facet memberships, and overwrites the
rolling latest view plus the current hour's archive file.`,

		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := snapshot.NewStore(
				rt.cfg.Paths.WorkDir,
				rt.cfg.Paths.DataDir,
				system.New(),
				rt.logger.Named("snapshot"),
			)
			if err != nil {
				return err
			}

			result, err := store.Merge()
			if err != nil {
				return err
			}
			rt.logger.Info("organize finished",
				zap.Int("snapshots", result.Snapshots),
				zap.Int("repositories", result.Repositories),
			)
			return nil
		},
	}
}
