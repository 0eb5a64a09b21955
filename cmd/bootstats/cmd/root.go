package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/armadaproject/bootstats/internal/bootstats/configuration"
)

const (
	CustomConfigLocation string = "config"
	DefaultConfigPath    string = "./config/bootstats"
)

// Flags that override configuration keys when given on the command line.
var flagKeys = map[string]string{
	"input":               "inputPath",
	"categorical-columns": "table.categoricalColumns",
	"output":              "outputDir",
	"iterations":          "iterations",
	"seed":                "seed",
	"workers":             "workers",
	"categories":          "categories",
	"value-prefix":        "valueColumnPrefix",
	"task-count":          "task.count",
	"task-id":             "task.id",
	"task-min":            "task.minId",
	"progress-interval":   "progressInterval",
	"metrics-file":        "metricsFile",
	"timeout":             "timeout",
	"log-level":           "logging.level",
	"log-format":          "logging.format",
}

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bootstats",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "Bootstrap confidence intervals of survey scale statistics by category",
	}

	cmd.PersistentFlags().StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)")

	cmd.AddCommand(
		runCmd(),
		planCmd(),
		categoriesCmd(),
	)

	return cmd
}

func addInputFlags(flags *pflag.FlagSet) {
	flags.String("input", "", "Path of the input CSV table, optionally gzipped")
	flags.String("categorical-columns", "", "Comma-separated columns read as categorical even if every value is a number, e.g. integer-coded levels")
}

func addCategoryFlags(flags *pflag.FlagSet) {
	flags.String("categories", "", `Semicolon-separated categories, each a comma-separated list of columns, e.g. "gender;gender,smoke"`)
	flags.Int("task-count", 1, "Number of tasks in the job array")
}

// loadConfig reads the configuration files, the environment and the flags of cmd that were set.
func loadConfig(cmd *cobra.Command) (configuration.Configuration, error) {
	v := viper.New()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && f.Changed {
			v.Set(key, f.Value.String())
		}
	})

	userSpecifiedConfigs, err := cmd.Flags().GetStringSlice(CustomConfigLocation)
	if err != nil {
		return configuration.Configuration{}, errors.WithStack(err)
	}
	workingDir, err := os.Getwd()
	if err != nil {
		return configuration.Configuration{}, errors.WithStack(err)
	}

	return configuration.Load(v, DefaultConfigPath, userSpecifiedConfigs, workingDir)
}
