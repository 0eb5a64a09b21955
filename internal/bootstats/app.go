package bootstats

import (
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/bootstats/internal/bootstats/bootstrap"
	"github.com/armadaproject/bootstats/internal/bootstats/category"
	"github.com/armadaproject/bootstats/internal/bootstats/chunk"
	"github.com/armadaproject/bootstats/internal/bootstats/configuration"
	"github.com/armadaproject/bootstats/internal/bootstats/metrics"
	"github.com/armadaproject/bootstats/internal/bootstats/runner"
	"github.com/armadaproject/bootstats/internal/bootstats/sink"
	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
	"github.com/armadaproject/bootstats/internal/common/util"
)

// App holds what the bootstats commands share.
type App struct {
	Config configuration.Configuration
	// Out is used to write command output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the application's output.
	Out io.Writer
	// Clock used to time the run. Tests can use a fake clock.
	Clock clock.Clock
	// Sinks receiving every report in addition to the CSV files in Config.OutputDir.
	Sinks []sink.Sink
}

func New(config configuration.Configuration) *App {
	return &App{
		Config: config,
		Out:    os.Stdout,
		Clock:  clock.RealClock{},
	}
}

func (a *App) loadTable() (*table.Table, error) {
	return table.Load(a.Config.InputPath, a.Config.Table.LoadOptions())
}

// categories returns the configured categories, or one per categorical column of t if none are configured.
func (a *App) categories(t *table.Table) []category.Spec {
	if len(a.Config.Categories) > 0 {
		return a.Config.Categories
	}
	return category.FromTable(t)
}

// Run bootstraps the categories assigned to this task and writes one CSV file per category.
// The configuration must have been validated.
func (a *App) Run(ctx *bootcontext.Context) (*runner.Summary, error) {
	task := a.Config.Task
	if err := task.Validate(); err != nil {
		return nil, err
	}
	ctx = bootcontext.WithLogFields(ctx, logrus.Fields{"taskIndex": task.Index(), "taskCount": task.Count})
	if task.IsArray() {
		ctx.Log.Infof("Running as task %d of a %d task array", task.Index(), task.Count)
	}
	if a.Config.Timeout > 0 {
		var cancel func()
		ctx, cancel = bootcontext.WithTimeout(ctx, a.Config.Timeout)
		defer cancel()
	}

	t, err := a.loadTable()
	if err != nil {
		return nil, err
	}
	ctx.Log.Infof("Loaded %s: %d rows, %d columns", a.Config.InputPath, t.NumRows(), len(t.ColumnNames()))

	assigned, err := chunk.Chunk(a.categories(t), task.Count, task.Index())
	if err != nil {
		return nil, err
	}

	m := metrics.New(strconv.Itoa(task.Index()))
	opts := a.Config.BootstrapOptions(runtime.NumCPU())
	opts.Progress = runner.ProgressLogger(a.Config.ProgressInterval, m)
	driver, err := bootstrap.NewDriver(opts)
	if err != nil {
		return nil, err
	}

	sinks := append(sink.Multi{sink.NewCSVSink(a.Config.OutputDir)}, a.Sinks...)
	r := runner.New(driver, sinks, runner.WithMetrics(m), runner.WithClock(a.Clock))
	summary, runErr := r.Run(ctx, t, assigned, a.Config.ValueSelector())

	var result *multierror.Error
	if runErr != nil {
		result = multierror.Append(result, runErr)
	}
	if a.Config.MetricsFile != "" {
		if err := m.WriteToTextfile(a.Config.MetricsFile); err != nil {
			ctx.Log.WithError(err).Error("Failed to write metrics")
			result = multierror.Append(result, err)
		}
	}
	return summary, result.ErrorOrNil()
}

// Plan prints the categories every task of the array would process.
func (a *App) Plan() error {
	categories := a.Config.Categories
	if len(categories) == 0 {
		if a.Config.InputPath == "" {
			return errors.New("no categories configured; an input table is needed to derive them")
		}
		t, err := a.loadTable()
		if err != nil {
			return err
		}
		categories = a.categories(t)
	}
	plan, err := chunk.Plan(categories, a.Config.Task.Count)
	if err != nil {
		return err
	}

	b := util.NewTabbedStringBuilder()
	b.Row("Task", "Categories")
	for i, specs := range plan {
		b.Row(i+1, strings.Join(category.Names(specs), "; "))
	}
	_, err = io.WriteString(a.Out, b.String())
	return errors.WithStack(err)
}

// Categories prints the categorical columns of the input table along with their number of levels.
func (a *App) Categories() error {
	t, err := a.loadTable()
	if err != nil {
		return err
	}
	b := util.NewTabbedStringBuilder()
	b.Row("Column", "Levels")
	for _, name := range t.ColumnNamesOfKind(table.Categorical) {
		c, err := t.Categorical(name)
		if err != nil {
			return err
		}
		b.Row(name, len(c.Levels))
	}
	_, err = io.WriteString(a.Out, b.String())
	return errors.WithStack(err)
}
