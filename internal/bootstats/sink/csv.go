package sink

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/armadaproject/bootstats/internal/bootstats/bootstrap"
	"github.com/armadaproject/bootstats/internal/bootstats/category"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
)

// MissingValue is written in place of undefined statistics.
const MissingValue = "NA"

var resultColumns = []string{"scale", "stat", "median", "ci95.ll", "ci95.ul"}

// CSVSink writes each report to Dir/<spec.FileName()>. Files are written to a temporary file in Dir and
// renamed into place, so readers never observe a partial file.
type CSVSink struct {
	Dir string
}

func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{Dir: dir}
}

func (s *CSVSink) Path(spec category.Spec) string {
	return filepath.Join(s.Dir, spec.FileName())
}

func (s *CSVSink) Write(ctx *bootcontext.Context, spec category.Spec, report *bootstrap.Report) error {
	path := s.Path(spec)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeAtomic(path, report); err != nil {
		return errors.WithStack(&bootstatserrors.ErrSink{Tag: spec.Tag(), Path: path, Err: err})
	}
	ctx.Log.WithField("path", path).Debugf("wrote %d results", len(report.Results))
	return nil
}

func (s *CSVSink) writeAtomic(path string, report *bootstrap.Report) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, report); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Encode writes report as CSV with one row per result: the group levels, then scale, stat, median,
// ci95.ll and ci95.ul.
func Encode(w io.Writer, report *bootstrap.Report) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(report.GroupColumns)+len(resultColumns))
	header = append(header, report.GroupColumns...)
	header = append(header, resultColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, r := range report.Results {
		n := copy(record, r.Group)
		record[n] = r.Scale
		record[n+1] = string(r.Stat)
		record[n+2] = formatValue(r.Median, r.Undefined)
		record[n+3] = formatValue(r.Lower, r.Undefined)
		record[n+4] = formatValue(r.Upper, r.Undefined)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64, undefined bool) string {
	if undefined || math.IsNaN(v) {
		return MissingValue
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
