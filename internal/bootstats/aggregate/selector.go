package aggregate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/bootstats/internal/bootstats/table"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
)

// ValueSelector picks the numeric columns whose statistics are bootstrapped.
type ValueSelector struct {
	description string
	names       []string
	match       func(name string) bool
}

// Columns selects exactly the named columns, in the given order. Each must exist and be numeric.
func Columns(names ...string) ValueSelector {
	return ValueSelector{
		description: "columns " + strings.Join(names, ","),
		names:       append([]string(nil), names...),
	}
}

// Prefix selects the numeric columns whose name starts with p, in table order.
func Prefix(p string) ValueSelector {
	return Matching("prefix "+p, func(name string) bool { return strings.HasPrefix(name, p) })
}

// AllNumeric selects every numeric column, in table order.
func AllNumeric() ValueSelector {
	return Matching("all numeric columns", func(string) bool { return true })
}

// Matching selects the numeric columns accepted by match, in table order.
func Matching(description string, match func(name string) bool) ValueSelector {
	return ValueSelector{description: description, match: match}
}

func (s ValueSelector) String() string {
	return s.description
}

// Resolve returns the names of the columns of t selected by s. Selecting nothing is an error.
func (s ValueSelector) Resolve(t *table.Table) ([]string, error) {
	var selected []string
	if s.match == nil {
		for _, name := range s.names {
			if _, err := t.Numeric(name); err != nil {
				return nil, err
			}
		}
		selected = append(selected, s.names...)
	} else {
		for _, name := range t.ColumnNamesOfKind(table.Numeric) {
			if s.match(name) {
				selected = append(selected, name)
			}
		}
	}
	if len(selected) == 0 {
		return nil, errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "valueColumns",
			Value:   s.description,
			Message: "selects no numeric column",
		})
	}
	return selected, nil
}
