package validate

import (
	"sync"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
)

// BatchStatistics is a read-only snapshot of the running totals.
type BatchStatistics struct {
	Total           int
	Conforming      int
	NonConforming   int
	NeedsReview     int
	ExtractionError int
	// ConformityRate is conforming/total as a percentage; 0 when nothing
	// has been recorded.
	ConformityRate float64
}

// StatsAccumulator tallies verdict counts across a batch. Record must be
// called exactly once per document; it is safe for concurrent use. Counters
// only grow; a fresh batch gets a fresh accumulator.
type StatsAccumulator struct {
	mu     sync.Mutex
	counts map[constants.Status]int
	total  int
}

func NewStatsAccumulator() *StatsAccumulator {
	return &StatsAccumulator{counts: make(map[constants.Status]int)}
}

// Record folds one verdict status into the running totals.
func (s *StatsAccumulator) Record(status constants.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[status]++
	s.total++
}

// Snapshot returns a copy of the totals at this instant.
func (s *StatsAccumulator) Snapshot() BatchStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := BatchStatistics{
		Total:           s.total,
		Conforming:      s.counts[constants.StatusConforming],
		NonConforming:   s.counts[constants.StatusNonConforming],
		NeedsReview:     s.counts[constants.StatusNeedsReview],
		ExtractionError: s.counts[constants.StatusExtractionError],
	}
	if s.total > 0 {
		stats.ConformityRate = float64(stats.Conforming) / float64(s.total) * 100
	}
	return stats
}
