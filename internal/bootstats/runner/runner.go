package runner

import (
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/bootstats/internal/bootstats/aggregate"
	"github.com/armadaproject/bootstats/internal/bootstats/bootstrap"
	"github.com/armadaproject/bootstats/internal/bootstats/category"
	"github.com/armadaproject/bootstats/internal/bootstats/metrics"
	"github.com/armadaproject/bootstats/internal/bootstats/sink"
	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	"github.com/armadaproject/bootstats/internal/common/logging"
)

// Driver bootstraps the statistics of one category.
type Driver interface {
	Run(ctx *bootcontext.Context, t *table.Table, groupColumns []string, valueColumns []string) (*bootstrap.Report, error)
	Iterations() int
}

// Runner processes a list of categories one after another, handing every report to a sink.
type Runner struct {
	driver  Driver
	sink    sink.Sink
	clock   clock.Clock
	metrics *metrics.Metrics
	runId   string
}

type Option func(*Runner)

func WithClock(c clock.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithRunId(id string) Option {
	return func(r *Runner) { r.runId = id }
}

func New(driver Driver, s sink.Sink, opts ...Option) *Runner {
	r := &Runner{
		driver:  driver,
		sink:    s,
		clock:   clock.RealClock{},
		metrics: metrics.New(""),
		runId:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) RunId() string {
	return r.runId
}

// Summary describes the outcome of Run.
type Summary struct {
	RunId        string
	ValueColumns []string
	Succeeded    []string
	Failed       []string
	Elapsed      time.Duration
}

// Run bootstraps every category in order.
//
// Failing to resolve the value columns is fatal and returns an ErrInput before any category is processed.
// A category whose driver or sink fails is logged and skipped; the failures are returned together as a
// multierror of ErrCategory once every category has been tried. Cancelling ctx abandons the remaining
// categories.
func (r *Runner) Run(ctx *bootcontext.Context, t *table.Table, categories []category.Spec, selector aggregate.ValueSelector) (*Summary, error) {
	start := r.clock.Now()
	ctx = bootcontext.WithLogField(ctx, "runId", r.runId)
	summary := &Summary{RunId: r.runId}

	valueColumns, err := selector.Resolve(t)
	if err != nil {
		return summary, errors.WithStack(&bootstatserrors.ErrInput{
			Message: "cannot select value columns by " + selector.String(),
			Err:     err,
		})
	}
	summary.ValueColumns = valueColumns

	logBanner(ctx, t, categories, valueColumns, r.driver.Iterations())
	if len(categories) == 0 {
		ctx.Log.Warn("No categories assigned to this task")
	}

	var result *multierror.Error
	for i, spec := range categories {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		cctx := bootcontext.WithLogFields(ctx, logrus.Fields{"category": spec.Tag(), "position": i + 1})
		if err := r.runCategory(cctx, t, spec, valueColumns); err != nil {
			logging.WithStacktrace(cctx.Log, err).Error("Category failed")
			summary.Failed = append(summary.Failed, spec.Tag())
			result = multierror.Append(result, &bootstatserrors.ErrCategory{Tag: spec.Tag(), Err: err})
			continue
		}
		summary.Succeeded = append(summary.Succeeded, spec.Tag())
	}

	end := r.clock.Now()
	summary.Elapsed = end.Sub(start)
	r.metrics.ReportRunFinished(summary.Elapsed, end)
	ctx.Log.
		WithField("succeeded", len(summary.Succeeded)).
		WithField("failed", len(summary.Failed)).
		Infof("Finished in %s", summary.Elapsed)
	return summary, result.ErrorOrNil()
}

func (r *Runner) runCategory(ctx *bootcontext.Context, t *table.Table, spec category.Spec, valueColumns []string) error {
	start := r.clock.Now()
	if err := spec.Validate(t); err != nil {
		r.metrics.ReportCategoryFailed(r.clock.Since(start))
		return err
	}

	ctx.Log.Infof("Bootstrapping %d iterations", r.driver.Iterations())
	report, err := r.driver.Run(ctx, t, spec.Columns(), valueColumns)
	if err != nil {
		r.metrics.ReportCategoryFailed(r.clock.Since(start))
		return err
	}
	undefined := report.Undefined()
	for _, err := range undefined {
		ctx.Log.Warn(err.Error())
	}
	if err := r.sink.Write(ctx, spec, report); err != nil {
		r.metrics.ReportCategoryFailed(r.clock.Since(start))
		return err
	}

	duration := r.clock.Since(start)
	r.metrics.ReportCategorySucceeded(duration, len(report.Results), len(undefined))
	ctx.Log.WithField("results", len(report.Results)).Infof("Category done in %s", duration)
	return nil
}

func logBanner(ctx *bootcontext.Context, t *table.Table, categories []category.Spec, valueColumns []string, iterations int) {
	node, err := os.Hostname()
	if err != nil {
		node = "unknown"
	}
	ctx.Log.Infof("Running with %d cores on node %s", runtime.NumCPU(), node)
	ctx.Log.Infof("Operating on categories %v", category.Names(categories))
	ctx.Log.Infof("Table has %d rows; bootstrapping %d value columns over %d iterations", t.NumRows(), len(valueColumns), iterations)
}
