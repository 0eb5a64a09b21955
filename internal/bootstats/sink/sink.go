package sink

import (
	"github.com/hashicorp/go-multierror"

	"github.com/armadaproject/bootstats/internal/bootstats/bootstrap"
	"github.com/armadaproject/bootstats/internal/bootstats/category"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
)

// Sink persists the report computed for one category.
type Sink interface {
	Write(ctx *bootcontext.Context, spec category.Spec, report *bootstrap.Report) error
}

// Multi writes every report to each of its sinks, in order, even if some of them fail.
type Multi []Sink

func (m Multi) Write(ctx *bootcontext.Context, spec category.Spec, report *bootstrap.Report) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Write(ctx, spec, report); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
