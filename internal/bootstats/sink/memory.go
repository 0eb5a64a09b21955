package sink

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/bootstats/internal/bootstats/bootstrap"
	"github.com/armadaproject/bootstats/internal/bootstats/category"
	"github.com/armadaproject/bootstats/internal/common/bootcontext"
)

// MemorySink keeps every report in memory, keyed by category tag. A later report for the same tag replaces
// the earlier one.
type MemorySink struct {
	mu      sync.Mutex
	reports map[string]*bootstrap.Report
}

func NewMemorySink() *MemorySink {
	return &MemorySink{reports: make(map[string]*bootstrap.Report)}
}

func (s *MemorySink) Write(_ *bootcontext.Context, spec category.Spec, report *bootstrap.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[spec.Tag()] = report
	return nil
}

func (s *MemorySink) Get(tag string) (*bootstrap.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[tag]
	return r, ok
}

// Tags returns the tags of all stored reports, sorted.
func (s *MemorySink) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := maps.Keys(s.reports)
	slices.Sort(tags)
	return tags
}
