package commands

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"talentpool/internal/scheduler"
)

// SweepCmd promotes due scheduled adverts once and exits.
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Publish scheduled adverts whose publish time has passed",
	Long: `Run a single publish sweep and exit.

Intended for cron or a Kubernetes CronJob when the API runs with --no-sweep.
Running it more often than needed is harmless; already published adverts are
left untouched.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sweeper := scheduler.NewSweeper(store.adverts, scheduler.SweeperConfig{}, nil, logger)
	result, err := sweeper.RunOnce(cmd.Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "due=%d promoted=%d failed=%d\n", result.Due, result.Promoted, result.Failed)
	if result.Failed > 0 {
		return errors.Newf("%d adverts could not be published", result.Failed)
	}
	return nil
}
