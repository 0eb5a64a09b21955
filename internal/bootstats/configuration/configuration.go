package configuration

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/armadaproject/bootstats/internal/bootstats/aggregate"
	"github.com/armadaproject/bootstats/internal/bootstats/bootstrap"
	"github.com/armadaproject/bootstats/internal/bootstats/category"
	"github.com/armadaproject/bootstats/internal/bootstats/chunk"
	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	"github.com/armadaproject/bootstats/internal/common/config"
	"github.com/armadaproject/bootstats/internal/common/logging"
)

type Configuration struct {
	// Path of the input table, a CSV file, optionally gzipped.
	InputPath string `validate:"required"`
	// Directory results are written to. Created if missing.
	OutputDir string `validate:"required"`
	// Number of bootstrap iterations per category.
	Iterations int `validate:"gte=1"`
	// Seed for reproducible runs. Nil seeds from the clock.
	Seed *int64
	// Maximum number of iterations evaluated concurrently. 0 uses one worker per core.
	Workers int `validate:"gte=0"`
	// Groupings to bootstrap. Empty means one per categorical column of the input.
	Categories []category.Spec
	// Explicit list of value columns. Takes precedence over ValueColumnPrefix.
	ValueColumns []string
	// Value columns are the numeric columns whose name starts with this prefix. Empty selects all numeric columns.
	ValueColumnPrefix string
	Table             TableConfig
	// Position of this process within a job array.
	Task chunk.Task
	// Log every this many iterations. 0 disables iteration logging.
	ProgressInterval int `validate:"gte=0"`
	// If set, run metrics are written here in the Prometheus text format once the run completes.
	MetricsFile string
	// Stop after this long. 0 means no limit.
	Timeout time.Duration `validate:"gte=0"`
	Logging logging.Config
}

type TableConfig struct {
	// Cell values treated as missing.
	NullValues []string
	// Columns removed after loading, e.g. the subject id.
	DropColumns []string
	// Columns loaded as categorical even when every value is a number.
	CategoricalColumns []string
	// Single-character field delimiter.
	Delimiter string `validate:"len=1"`
}

// LoadOptions converts the table configuration into loader options.
func (c TableConfig) LoadOptions() table.LoadOptions {
	return table.LoadOptions{
		NullValues:         c.NullValues,
		DropColumns:        c.DropColumns,
		CategoricalColumns: c.CategoricalColumns,
		Delimiter:          []rune(c.Delimiter)[0],
	}
}

// ValueSelector returns the selector described by ValueColumns and ValueColumnPrefix.
func (c Configuration) ValueSelector() aggregate.ValueSelector {
	switch {
	case len(c.ValueColumns) > 0:
		return aggregate.Columns(c.ValueColumns...)
	case c.ValueColumnPrefix != "":
		return aggregate.Prefix(c.ValueColumnPrefix)
	default:
		return aggregate.AllNumeric()
	}
}

// BootstrapOptions returns driver options for this configuration. workers replaces a Workers value of 0.
func (c Configuration) BootstrapOptions(workers int) bootstrap.Options {
	if c.Workers > 0 {
		workers = c.Workers
	}
	return bootstrap.Options{
		Iterations: c.Iterations,
		Seed:       c.Seed,
		Workers:    workers,
	}
}

// Validate checks struct tags, then the cross-field constraints tags cannot express.
func (c Configuration) Validate() error {
	if err := config.Validate(c); err != nil {
		config.LogValidationErrors(err)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			return errors.WithStack(&bootstatserrors.ErrInvalidArgument{
				Name:    first.Namespace(),
				Value:   first.Value(),
				Message: "fails " + first.Tag() + " validation",
			})
		}
		return errors.WithStack(err)
	}
	if err := c.Task.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.WithStack(&bootstatserrors.ErrInvalidArgument{Name: "logging", Value: c.Logging.Level, Message: err.Error()})
	}
	return nil
}

// Default category list of the SAPA survey.
var defaultCategories = []string{
	"collected", "gender", "relstatus", "marstatus", "exer", "smoke", "country", "education", "jobstatus",
	"gender,smoke", "education,smoke", "gender,relstatus",
}

// SetDefaults registers a default for every key, which also makes every key visible to viper's AutomaticEnv.
func SetDefaults(v *viper.Viper, workingDir string) {
	loadOpts := table.DefaultLoadOptions()
	logs := logging.DefaultConfig()

	v.SetDefault("inputPath", "")
	v.SetDefault("outputDir", workingDir)
	v.SetDefault("iterations", 1000)
	v.SetDefault("workers", 0)
	v.SetDefault("categories", defaultCategories)
	v.SetDefault("valueColumns", []string{})
	v.SetDefault("valueColumnPrefix", "IPIP")
	v.SetDefault("table.nullValues", loadOpts.NullValues)
	v.SetDefault("table.dropColumns", loadOpts.DropColumns)
	v.SetDefault("table.categoricalColumns", []string{})
	v.SetDefault("table.delimiter", string(loadOpts.Delimiter))
	v.SetDefault("task.count", chunk.SingleJob.Count)
	v.SetDefault("task.id", chunk.SingleJob.ID)
	v.SetDefault("task.minId", chunk.SingleJob.MinID)
	v.SetDefault("progressInterval", 100)
	v.SetDefault("metricsFile", "")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("logging.level", logs.Level)
	v.SetDefault("logging.format", logs.Format)
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.level", logs.Level)
	v.SetDefault("logging.file.format", logging.FormatJson)
	v.SetDefault("logging.file.logFile", "bootstats.log")
	v.SetDefault("logging.file.maxSizeMb", 100)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAgeDays", 7)
	v.SetDefault("logging.file.compress", true)
}

// BindEnv binds the environment variables understood by the batch scripts, and the job-array variables set by
// SLURM. Other keys are read from BOOT_<KEY> through AutomaticEnv.
func BindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"inputPath":  "BOOT_INPUT_PATH",
		"iterations": "BOOT_N_ITER",
		"outputDir":  "BOOT_OUTPUT_DIR",
		"seed":       "BOOT_SEED",
		"workers":    "BOOT_WORKERS",
		"categories": "BOOT_CATEGORIES",
		"task.count": "SLURM_ARRAY_TASK_COUNT",
		"task.id":    "SLURM_ARRAY_TASK_ID",
		"task.minId": "SLURM_ARRAY_TASK_MIN",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// DecoderOptions are the viper decoder options needed to unmarshal a Configuration.
func DecoderOptions() []viper.DecoderConfigOption {
	return []viper.DecoderConfigOption{config.CustomHooks(category.DecodeHooks()...)}
}

// Load reads the configuration from defaultPath/config.yaml, overrideConfigs, the environment and any flags
// already bound to v, in increasing order of precedence. It does not validate the result.
func Load(v *viper.Viper, defaultPath string, overrideConfigs []string, workingDir string) (Configuration, error) {
	var c Configuration
	SetDefaults(v, workingDir)
	if err := BindEnv(v); err != nil {
		return c, err
	}
	if err := common.LoadConfig(v, &c, defaultPath, overrideConfigs, DecoderOptions()...); err != nil {
		return c, err
	}
	return c, nil
}
