package category

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	commonslices "github.com/armadaproject/bootstats/internal/common/slices"
)

const (
	// OverallTag names the empty spec, which groups the whole table together.
	OverallTag = "overall"

	columnSeparator = ","
	specSeparator   = ";"
)

// Spec is an ordered, immutable list of categorical column names defining a grouping.
// The order does not change the statistics, only the order of the group-key columns in the output.
type Spec struct {
	columns []string
}

// New returns a spec grouping by columns. Whitespace around names is trimmed and empty names are dropped.
func New(columns ...string) Spec {
	var cols []string
	for _, c := range columns {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return Spec{columns: cols}
}

// Parse parses a comma-separated list of column names, e.g. "gender,smoke". The empty string is the overall spec.
func Parse(s string) Spec {
	return New(strings.Split(s, columnSeparator)...)
}

// ParseList parses semicolon-separated specs, e.g. "gender;gender,smoke".
func ParseList(s string) []Spec {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return commonslices.Map(strings.Split(s, specSeparator), Parse)
}

// Columns returns a copy of the column names. The overall spec has no columns; the result is then empty but never nil.
func (s Spec) Columns() []string {
	return append([]string{}, s.columns...)
}

func (s Spec) Len() int {
	return len(s.columns)
}

func (s Spec) IsOverall() bool {
	return len(s.columns) == 0
}

// Name joins the column names with commas. The overall spec has an empty name.
func (s Spec) Name() string {
	return strings.Join(s.columns, columnSeparator)
}

// Tag identifies the spec in logs, metrics and in-memory results. The overall spec is tagged OverallTag.
func (s Spec) Tag() string {
	if s.IsOverall() {
		return OverallTag
	}
	return s.Name()
}

// FileName is boot_<col1,col2,...>.csv, or boot.csv for the overall spec.
func (s Spec) FileName() string {
	if s.IsOverall() {
		return "boot.csv"
	}
	return "boot_" + s.Name() + ".csv"
}

func (s Spec) String() string {
	return s.Tag()
}

func (s Spec) Equal(other Spec) bool {
	return slices.Equal(s.columns, other.columns)
}

// Validate checks that every column of s exists in t and is categorical.
func (s Spec) Validate(t *table.Table) error {
	for _, c := range s.columns {
		if _, err := t.Categorical(c); err != nil {
			return errors.WithMessagef(err, "category %s", s.Tag())
		}
	}
	if len(commonslices.Unique(s.columns)) != len(s.columns) {
		return errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "category",
			Value:   s.Name(),
			Message: "columns must be distinct",
		})
	}
	return nil
}

// FromTable returns one single-column spec per categorical column of t, in table order.
// This is the category list used when none is configured.
func FromTable(t *table.Table) []Spec {
	return commonslices.Map(t.ColumnNamesOfKind(table.Categorical), func(name string) Spec { return New(name) })
}

// Names returns the tags of specs.
func Names(specs []Spec) []string {
	return commonslices.Map(specs, Spec.Tag)
}
