package deploy

import (
	"sync"
)

// UpdateStats counts files written per category. It is safe for concurrent
// use by synchronizers running in parallel.
type UpdateStats struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewUpdateStats creates an empty stats record.
func NewUpdateStats() *UpdateStats {
	return &UpdateStats{counts: make(map[string]int)}
}

// Inc adds one written file to category.
func (s *UpdateStats) Inc(category string) {
	s.Add(category, 1)
}

// Add adds n written files to category.
func (s *UpdateStats) Add(category string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[category] += n
}

// Get returns the count for category.
func (s *UpdateStats) Get(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[category]
}

// Total returns the sum over all categories.
func (s *UpdateStats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Counts returns a copy of the per-category counts.
func (s *UpdateStats) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}
