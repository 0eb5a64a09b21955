package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/bootstats/internal/bootstats"
	"github.com/armadaproject/bootstats/internal/bootstats/chunk"
	"github.com/armadaproject/bootstats/internal/common"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the categories each task of a job array would process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			common.ConfigureCommandLineLogging()
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// Every task is listed, so the task id is irrelevant here.
			config.Task = chunk.Task{Count: config.Task.Count, ID: 1, MinID: 1}
			if err := config.Task.Validate(); err != nil {
				return err
			}
			a := bootstats.New(config)
			a.Out = cmd.OutOrStdout()
			return a.Plan()
		},
	}
	addInputFlags(cmd.Flags())
	addCategoryFlags(cmd.Flags())
	return cmd
}
