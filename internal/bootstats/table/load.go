package table

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	"github.com/armadaproject/bootstats/internal/common/compress"
	"github.com/armadaproject/bootstats/internal/common/slices"
	"github.com/armadaproject/bootstats/internal/common/util"
)

// LoadOptions controls how a CSV file is turned into a Table.
type LoadOptions struct {
	// Cell values treated as missing.
	NullValues []string
	// Columns removed after reading, e.g. the subject id. Each must exist.
	DropColumns []string
	// Columns always loaded as categorical, even if every value parses as a number.
	CategoricalColumns []string
	// Field delimiter. Zero means ','.
	Delimiter rune
}

// DefaultLoadOptions treats "NA" and empty cells as missing and drops the RID subject id column.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NullValues:  []string{"NA", ""},
		DropColumns: []string{"RID"},
		Delimiter:   ',',
	}
}

// Load reads a table from a CSV file, decompressing it if it is gzipped.
// Every failure is returned as an *ErrInput carrying the path.
func Load(path string, opts LoadOptions) (*Table, error) {
	rc, err := compress.OpenFile(path)
	if err != nil {
		return nil, &bootstatserrors.ErrInput{Path: path, Message: "cannot open table", Err: err}
	}
	defer util.CloseResource(path, rc)
	t, err := Read(rc, opts)
	if err != nil {
		var inputErr *bootstatserrors.ErrInput
		if errors.As(err, &inputErr) && inputErr.Path == "" {
			inputErr.Path = path
			return nil, inputErr
		}
		return nil, &bootstatserrors.ErrInput{Path: path, Err: err}
	}
	return t, nil
}

// Read parses CSV from r. The first record is the header. A column whose non-missing values all parse as floats
// is numeric; any other column is categorical with levels in order of first appearance. A column with no
// non-missing value at all is numeric.
func Read(r io.Reader, opts LoadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &bootstatserrors.ErrInput{Message: "table has no header"}
	}
	if err != nil {
		return nil, &bootstatserrors.ErrInput{Message: "cannot parse header", Err: err}
	}
	header = slices.Map(header, strings.TrimSpace)
	if len(slices.Unique(header)) != len(header) {
		return nil, &bootstatserrors.ErrInput{Message: "header contains duplicate column names"}
	}

	raw := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &bootstatserrors.ErrInput{Message: "cannot parse record", Err: err}
		}
		for i, v := range record {
			raw[i] = append(raw[i], v)
		}
	}

	nulls := make(map[string]bool, len(opts.NullValues))
	for _, v := range opts.NullValues {
		nulls[v] = true
	}
	isNull := func(v string) bool { return nulls[v] }
	forced := make(map[string]bool, len(opts.CategoricalColumns))
	for _, name := range opts.CategoricalColumns {
		forced[name] = true
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		if forced[name] {
			columns[i] = NewCategorical(name, raw[i], isNull)
			continue
		}
		if values, ok := parseNumeric(raw[i], isNull); ok {
			columns[i] = NewNumeric(name, values...)
		} else {
			columns[i] = NewCategorical(name, raw[i], isNull)
		}
	}

	t, err := New(columns...)
	if err != nil {
		return nil, &bootstatserrors.ErrInput{Message: "malformed table", Err: err}
	}
	for _, name := range opts.CategoricalColumns {
		if _, err := t.Column(name); err != nil {
			return nil, &bootstatserrors.ErrInput{Message: "categorical column not found", Err: err}
		}
	}
	if len(opts.DropColumns) > 0 {
		t, err = t.Drop(opts.DropColumns...)
		if err != nil {
			return nil, &bootstatserrors.ErrInput{Message: "cannot drop column", Err: err}
		}
	}
	return t, nil
}

func parseNumeric(raw []string, isNull func(string) bool) ([]float64, bool) {
	values := make([]float64, len(raw))
	for i, v := range raw {
		if isNull(v) {
			values[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		values[i] = f
	}
	return values, true
}
