package aggregate

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
)

func isNA(s string) bool { return s == "NA" }

func testTable() *table.Table {
	return table.MustNew(
		table.NewCategorical("gender", []string{"male", "female", "male", "NA", "female"}, isNA),
		table.NewCategorical("smoke", []string{"yes", "no", "no", "yes", "no"}, isNA),
		table.NewNumeric("IPIP_A", 1, 4, 3, 100, math.NaN()),
		table.NewNumeric("IPIP_B", math.NaN(), 2, math.NaN(), 1, math.NaN()),
	)
}

func find(rows []Row, group []string, scale string, stat Stat) (Row, bool) {
	for _, r := range rows {
		if assert.ObjectsAreEqual(group, r.Group) && r.Scale == scale && r.Stat == stat {
			return r, true
		}
	}
	return Row{}, false
}

func TestAggregate(t *testing.T) {
	tests := map[string]struct {
		groupColumns []string
		scale        string
		group        []string
		mean         float64
		median       float64
		undefined    bool
	}{
		"missing group value excluded": {
			groupColumns: []string{"gender"},
			scale:        "IPIP_A",
			group:        []string{"male"},
			mean:         2,
			median:       2,
		},
		"missing value excluded per column": {
			groupColumns: []string{"gender"},
			scale:        "IPIP_A",
			group:        []string{"female"},
			mean:         4,
			median:       4,
		},
		"no observation is undefined": {
			groupColumns: []string{"gender"},
			scale:        "IPIP_B",
			group:        []string{"male"},
			undefined:    true,
		},
		"composite key": {
			groupColumns: []string{"gender", "smoke"},
			scale:        "IPIP_A",
			group:        []string{"male", "no"},
			mean:         3,
			median:       3,
		},
		"overall": {
			scale:  "IPIP_A",
			group:  []string{},
			mean:   27,
			median: 3.5,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := Aggregate(testTable(), tc.groupColumns, []string{"IPIP_A", "IPIP_B"})
			require.NoError(t, err)

			mean, ok := find(rows, tc.group, tc.scale, StatMean)
			require.True(t, ok)
			median, ok := find(rows, tc.group, tc.scale, StatMedian)
			require.True(t, ok)

			assert.Equal(t, tc.undefined, mean.Undefined)
			assert.Equal(t, tc.undefined, median.Undefined)
			if tc.undefined {
				assert.True(t, math.IsNaN(mean.Value))
				assert.True(t, math.IsNaN(median.Value))
			} else {
				assert.InDelta(t, tc.mean, mean.Value, 1e-12)
				assert.InDelta(t, tc.median, median.Value, 1e-12)
			}
		})
	}
}

func TestAggregate_RowCount(t *testing.T) {
	rows, err := Aggregate(testTable(), []string{"gender", "smoke"}, []string{"IPIP_A", "IPIP_B"})
	require.NoError(t, err)
	// Groups: (male,yes), (female,no), (male,no); the NA gender row is dropped.
	assert.Len(t, rows, 3*2*2)
}

func TestAggregate_AllEqualGroup(t *testing.T) {
	input := table.MustNew(
		table.NewCategorical("g", []string{"a", "a", "a", "b"}, nil),
		table.NewNumeric("v", 2.5, 2.5, 2.5, 9),
	)
	rows, err := Aggregate(input, []string{"g"}, []string{"v"})
	require.NoError(t, err)
	for _, stat := range Stats {
		r, ok := find(rows, []string{"a"}, "v", stat)
		require.True(t, ok)
		assert.Equal(t, 2.5, r.Value)
	}
}

func TestAggregate_GroupsInOrderOfFirstAppearance(t *testing.T) {
	input := table.MustNew(
		table.NewCategorical("g", []string{"b", "a", "b"}, nil),
		table.NewNumeric("v", 1, 2, 3),
	)
	rows, err := Aggregate(input, []string{"g"}, []string{"v"})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"b"}, rows[0].Group)
	assert.Equal(t, StatMean, rows[0].Stat)
	assert.Equal(t, StatMedian, rows[1].Stat)
	assert.Equal(t, []string{"a"}, rows[2].Group)
}

func TestAggregate_InvalidColumns(t *testing.T) {
	tests := map[string]struct {
		groupColumns []string
		valueColumns []string
	}{
		"unknown group column":  {groupColumns: []string{"nope"}, valueColumns: []string{"IPIP_A"}},
		"numeric group column":  {groupColumns: []string{"IPIP_A"}, valueColumns: []string{"IPIP_B"}},
		"unknown value column":  {groupColumns: []string{"gender"}, valueColumns: []string{"nope"}},
		"categorical value col": {groupColumns: []string{"gender"}, valueColumns: []string{"smoke"}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Aggregate(testTable(), tc.groupColumns, tc.valueColumns)
			var e *bootstatserrors.ErrInvalidArgument
			assert.True(t, errors.As(err, &e), "expected ErrInvalidArgument, got %v", err)
		})
	}
}

func TestValueSelector(t *testing.T) {
	input := table.MustNew(
		table.NewNumeric("IPIP_A", 1),
		table.NewCategorical("gender", []string{"male"}, nil),
		table.NewNumeric("age", 30),
		table.NewNumeric("IPIP_B", 2),
	)
	tests := map[string]struct {
		selector ValueSelector
		expected []string
		err      bool
	}{
		"columns keep given order": {selector: Columns("IPIP_B", "age"), expected: []string{"IPIP_B", "age"}},
		"prefix":                   {selector: Prefix("IPIP_"), expected: []string{"IPIP_A", "IPIP_B"}},
		"all numeric":              {selector: AllNumeric(), expected: []string{"IPIP_A", "age", "IPIP_B"}},
		"matching":                 {selector: Matching("age", func(n string) bool { return n == "age" }), expected: []string{"age"}},
		"categorical column":       {selector: Columns("gender"), err: true},
		"unknown column":           {selector: Columns("nope"), err: true},
		"nothing selected":         {selector: Prefix("BFI_"), err: true},
		"empty list":               {selector: Columns(), err: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			selected, err := tc.selector.Resolve(input)
			if tc.err {
				var e *bootstatserrors.ErrInvalidArgument
				assert.True(t, errors.As(err, &e))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, selected)
		})
	}
}
