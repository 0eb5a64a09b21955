package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/bootstats/internal/bootstats/stat"
	"github.com/armadaproject/bootstats/internal/bootstats/table"
)

type Stat string

const (
	StatMean   Stat = "mean"
	StatMedian Stat = "median"
)

// Stats lists the statistics computed per group and scale, in output order.
var Stats = []Stat{StatMean, StatMedian}

// Row is the value of one statistic of one scale within one group of one sample.
type Row struct {
	// Level of each group column, in group column order.
	Group []string
	// Group encoded as level codes; used to order output by level.
	GroupCodes []int32
	Scale      string
	Stat       Stat
	Value      float64
	// Set when the group had no non-missing value for Scale. Value is NaN.
	Undefined bool
}

// Key identifies the group of a row within a single table.
func (r Row) Key() string {
	return GroupKey(r.GroupCodes)
}

// GroupKey encodes level codes as a comparable map key.
func GroupKey(codes []int32) string {
	var sb strings.Builder
	for i, c := range codes {
		if i > 0 {
			sb.WriteByte(0)
		}
		sb.WriteString(strconv.FormatInt(int64(c), 10))
	}
	return sb.String()
}

type group struct {
	codes []int32
	rows  []int
}

// Aggregate computes the mean and median of every value column within every combination of group column
// levels present in sample.
//
// Rows with a missing level in any group column are left out of every group. Missing values in a value column
// only drop the row from that column's statistics. A group without any non-missing value for a column gets
// Undefined mean and median rows for it. With no group columns the whole sample is a single group.
// Groups are returned in order of first appearance in sample.
func Aggregate(sample *table.Table, groupColumns []string, valueColumns []string) ([]Row, error) {
	groupCols := make([]*table.CategoricalColumn, len(groupColumns))
	for i, name := range groupColumns {
		c, err := sample.Categorical(name)
		if err != nil {
			return nil, errors.WithMessage(err, "group column")
		}
		groupCols[i] = c
	}
	valueCols := make([]*table.NumericColumn, len(valueColumns))
	for i, name := range valueColumns {
		c, err := sample.Numeric(name)
		if err != nil {
			return nil, errors.WithMessage(err, "value column")
		}
		valueCols[i] = c
	}

	groups := groupRows(sample.NumRows(), groupCols)

	rows := make([]Row, 0, len(groups)*len(valueCols)*len(Stats))
	values := make([]float64, 0, sample.NumRows())
	for _, g := range groups {
		levels := make([]string, len(groupCols))
		for i, c := range groupCols {
			levels[i] = c.Levels[g.codes[i]]
		}
		for _, vc := range valueCols {
			values = values[:0]
			for _, r := range g.rows {
				if v := vc.Values[r]; !table.IsMissing(v) {
					values = append(values, v)
				}
			}
			mean, median, undefined := math.NaN(), math.NaN(), len(values) == 0
			if !undefined {
				mean = stat.Mean(values)
				median = stat.Median(stat.Sorted(values))
			}
			rows = append(rows,
				Row{Group: levels, GroupCodes: g.codes, Scale: vc.Name, Stat: StatMean, Value: mean, Undefined: undefined},
				Row{Group: levels, GroupCodes: g.codes, Scale: vc.Name, Stat: StatMedian, Value: median, Undefined: undefined},
			)
		}
	}
	return rows, nil
}

func groupRows(numRows int, groupCols []*table.CategoricalColumn) []*group {
	var groups []*group
	index := make(map[string]*group)
	codes := make([]int32, len(groupCols))
rows:
	for r := 0; r < numRows; r++ {
		for i, c := range groupCols {
			code := c.Codes[r]
			if code == table.MissingCode {
				continue rows
			}
			codes[i] = code
		}
		key := GroupKey(codes)
		g, ok := index[key]
		if !ok {
			g = &group{codes: append([]int32(nil), codes...)}
			index[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	return groups
}
