package bootstrap

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/bootstats/internal/bootstats/aggregate"
	"github.com/armadaproject/bootstats/internal/bootstats/resample"
	"github.com/armadaproject/bootstats/internal/bootstats/stat"
	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	"github.com/armadaproject/bootstats/internal/common/util"
)

const (
	LowerQuantile  = 0.025
	MedianQuantile = 0.5
	UpperQuantile  = 0.975
)

type Options struct {
	// Number of resamples. Must be at least 1.
	Iterations int
	// Seed of the master RNG from which every iteration's seed is drawn. Nil seeds from the clock.
	Seed *int64
	// Maximum number of iterations evaluated concurrently. Values below 2 run sequentially.
	Workers int
	// Called after every completed iteration with the context passed to Run. May be called from several
	// goroutines at once.
	Progress func(ctx *bootcontext.Context, done, total int)
	// Builds the resampler used by the iteration with the given seed. Defaults to uniform resampling.
	NewResampler func(seed int64) resample.Resampler
}

// Driver repeats resample-then-aggregate and reduces the accumulated statistics to percentile intervals.
type Driver struct {
	opts Options
}

func NewDriver(opts Options) (*Driver, error) {
	if opts.Iterations < 1 {
		return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "iterations",
			Value:   opts.Iterations,
			Message: "at least one iteration is required",
		})
	}
	if opts.NewResampler == nil {
		opts.NewResampler = func(seed int64) resample.Resampler {
			return resample.New(rand.New(rand.NewSource(seed)))
		}
	}
	return &Driver{opts: opts}, nil
}

func (d *Driver) Iterations() int {
	return d.opts.Iterations
}

// Result is the bootstrap distribution of one statistic of one scale within one group, reduced to its
// median and 95% percentile interval.
type Result struct {
	Group  []string
	Scale  string
	Stat   aggregate.Stat
	Median float64
	Lower  float64
	Upper  float64
	// Number of iterations in which the statistic was defined.
	N int
	// Set when the statistic was undefined in every iteration. Median, Lower and Upper are NaN.
	Undefined bool
}

type Report struct {
	GroupColumns []string
	ValueColumns []string
	Iterations   int
	Results      []Result
}

// Undefined returns an ErrUndefinedStatistic for every undefined result.
func (r *Report) Undefined() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Undefined {
			errs = append(errs, &bootstatserrors.ErrUndefinedStatistic{
				Category: strings.Join(r.GroupColumns, ","),
				Group:    res.Group,
				Scale:    res.Scale,
				Stat:     string(res.Stat),
			})
		}
	}
	return errs
}

// Run bootstraps the mean and median of every value column within every group of t.
//
// Iteration i resamples with a source seeded by the i-th seed drawn from the master RNG, so for a fixed
// seed the report does not depend on Workers. Cancelling ctx stops outstanding iterations and returns
// the context's error.
func (d *Driver) Run(ctx *bootcontext.Context, t *table.Table, groupColumns []string, valueColumns []string) (*Report, error) {
	projected, err := t.Select(append(slices.Clone(groupColumns), valueColumns...)...)
	if err != nil {
		return nil, err
	}
	// Fails fast on wrongly typed columns before any resampling.
	if _, err := aggregate.Aggregate(projected.Take(nil), groupColumns, valueColumns); err != nil {
		return nil, err
	}

	n := d.opts.Iterations
	seeds := util.Seeds(util.NewRand(d.opts.Seed), n)
	samples := make([][]aggregate.Row, n)
	var done atomic.Int64

	iterate := func(i int) error {
		sample := d.opts.NewResampler(seeds[i]).Resample(projected)
		rows, err := aggregate.Aggregate(sample, groupColumns, valueColumns)
		if err != nil {
			return err
		}
		samples[i] = rows
		completed := done.Add(1)
		if d.opts.Progress != nil {
			d.opts.Progress(ctx, int(completed), n)
		}
		return nil
	}

	if d.opts.Workers < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := iterate(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := bootcontext.ErrGroup(ctx)
		g.SetLimit(d.opts.Workers)
		for i := 0; i < n; i++ {
			i := i
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return iterate(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return &Report{
		GroupColumns: slices.Clone(groupColumns),
		ValueColumns: slices.Clone(valueColumns),
		Iterations:   n,
		Results:      reduce(samples, valueColumns),
	}, nil
}

type accumulator struct {
	codes  []int32
	group  []string
	scale  string
	stat   aggregate.Stat
	values []float64
}

type key struct {
	group string
	scale string
	stat  aggregate.Stat
}

func reduce(samples [][]aggregate.Row, valueColumns []string) []Result {
	accumulators := make(map[key]*accumulator)
	for _, rows := range samples {
		for _, row := range rows {
			k := key{group: row.Key(), scale: row.Scale, stat: row.Stat}
			acc, ok := accumulators[k]
			if !ok {
				acc = &accumulator{codes: row.GroupCodes, group: row.Group, scale: row.Scale, stat: row.Stat}
				accumulators[k] = acc
			}
			if !row.Undefined {
				acc.values = append(acc.values, row.Value)
			}
		}
	}

	ordered := make([]*accumulator, 0, len(accumulators))
	for _, acc := range accumulators {
		ordered = append(ordered, acc)
	}
	scaleOrder := make(map[string]int, len(valueColumns))
	for i, c := range valueColumns {
		scaleOrder[c] = i
	}
	statOrder := make(map[aggregate.Stat]int, len(aggregate.Stats))
	for i, s := range aggregate.Stats {
		statOrder[s] = i
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if c := slices.Compare(a.codes, b.codes); c != 0 {
			return c < 0
		}
		if a.scale != b.scale {
			return scaleOrder[a.scale] < scaleOrder[b.scale]
		}
		return statOrder[a.stat] < statOrder[b.stat]
	})

	results := make([]Result, len(ordered))
	for i, acc := range ordered {
		results[i] = summarise(acc)
	}
	return results
}

func summarise(acc *accumulator) Result {
	res := Result{
		Group: acc.group,
		Scale: acc.scale,
		Stat:  acc.stat,
		N:     len(acc.values),
	}
	if len(acc.values) == 0 {
		res.Undefined = true
		res.Median, res.Lower, res.Upper = math.NaN(), math.NaN(), math.NaN()
		return res
	}
	sorted := stat.Sorted(acc.values)
	res.Median = stat.Quantile(MedianQuantile, sorted)
	res.Lower = stat.Quantile(LowerQuantile, sorted)
	res.Upper = stat.Quantile(UpperQuantile, sorted)
	return res
}
