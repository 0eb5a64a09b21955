package runner

import (
	"github.com/armadaproject/bootstats/internal/bootstats/metrics"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
)

// ProgressLogger returns a bootstrap progress callback that counts iterations in m and logs every interval
// iterations, as well as the last one. An interval below 1 disables logging.
func ProgressLogger(interval int, m *metrics.Metrics) func(ctx *bootcontext.Context, done, total int) {
	return func(ctx *bootcontext.Context, done, total int) {
		if m != nil {
			m.ReportIterations(1)
		}
		if interval < 1 {
			return
		}
		if done%interval == 0 || done == total {
			ctx.Log.Infof("Iteration %d/%d", done, total)
		}
	}
}
