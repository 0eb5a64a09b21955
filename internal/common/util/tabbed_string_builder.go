package util

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// TabbedStringBuilder builds a string of lines whose tab-separated cells are aligned into columns.
// Writing to a strings.Builder cannot fail, so unlike *tabwriter.Writer it returns no errors.
type TabbedStringBuilder struct {
	sb     *strings.Builder
	writer *tabwriter.Writer
}

// NewTabbedStringBuilder pads every column to its widest cell plus one space.
func NewTabbedStringBuilder() *TabbedStringBuilder {
	sb := &strings.Builder{}
	return &TabbedStringBuilder{
		sb:     sb,
		writer: tabwriter.NewWriter(sb, 1, 1, 1, ' ', 0),
	}
}

// Row writes one line made of cells.
func (t *TabbedStringBuilder) Row(cells ...any) {
	for i, c := range cells {
		if i > 0 {
			_, _ = fmt.Fprint(t.writer, "\t")
		}
		_, _ = fmt.Fprint(t.writer, c)
	}
	_, _ = fmt.Fprint(t.writer, "\n")
}

// String flushes pending rows and returns everything written so far.
func (t *TabbedStringBuilder) String() string {
	_ = t.writer.Flush()
	return t.sb.String()
}
