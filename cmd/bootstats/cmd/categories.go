package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/armadaproject/bootstats/internal/bootstats"
	"github.com/armadaproject/bootstats/internal/common"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the categorical columns of the input table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			common.ConfigureCommandLineLogging()
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if config.InputPath == "" {
				return errors.WithStack(&bootstatserrors.ErrInvalidArgument{
					Name:    "inputPath",
					Value:   "",
					Message: "an input table is required",
				})
			}
			a := bootstats.New(config)
			a.Out = cmd.OutOrStdout()
			return a.Categories()
		},
	}
	addInputFlags(cmd.Flags())
	return cmd
}
