package cmd

import (
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/armadaproject/bootstats/internal/bootstats"
	"github.com/armadaproject/bootstats/internal/common/app"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	"github.com/armadaproject/bootstats/internal/common/logging"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the categories assigned to this task and write the results",
		Long: `Bootstrap the mean and median of every value column within every level of each category assigned
to this task, writing one CSV file per category to the output directory.

Inside a SLURM job array the categories are split into contiguous chunks, one per array task, using
SLURM_ARRAY_TASK_COUNT, SLURM_ARRAY_TASK_ID and SLURM_ARRAY_TASK_MIN.`,
		RunE: runBootstrap,
	}
	addInputFlags(cmd.Flags())
	addCategoryFlags(cmd.Flags())
	cmd.Flags().String("output", "", "Directory the result files are written to (default: working directory)")
	cmd.Flags().Int("iterations", 1000, "Number of bootstrap iterations")
	cmd.Flags().Int64("seed", 0, "Seed for reproducible results (default: seeded from the clock)")
	cmd.Flags().Int("workers", 0, "Iterations evaluated concurrently (default: one per core)")
	cmd.Flags().String("value-prefix", "IPIP", "Bootstrap the numeric columns whose name starts with this prefix")
	cmd.Flags().Int("task-id", 1, "Id of this task within the job array")
	cmd.Flags().Int("task-min", 1, "Smallest task id of the job array")
	cmd.Flags().Int("progress-interval", 100, "Log progress every this many iterations (0 disables)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file once done")
	cmd.Flags().Duration("timeout", 0*time.Second, "Stop after this long (0 means no limit)")
	cmd.Flags().String("log-level", "info", "Log level")
	cmd.Flags().String("log-format", "text", "Log format, text or json")
	return cmd
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := logging.Configure(log.StandardLogger(), os.Stdout, config.Logging); err != nil {
		return errors.WithStack(&bootstatserrors.ErrInvalidArgument{Name: "logging", Value: config.Logging, Message: err.Error()})
	}

	ctx, cancel := app.CreateContextWithShutdown(bootcontext.New(cmd.Context(), log.WithField("command", cmd.Name())))
	defer cancel()

	summary, err := bootstats.New(config).Run(ctx)
	if summary != nil && len(summary.Failed) > 0 {
		ctx.Log.Errorf("Failed categories: %v", summary.Failed)
	}
	return err
}
