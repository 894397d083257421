package telemetry

import (
	"sort"
	"sync"
)

// Bucket upper bounds for the two histogram families. Latency bounds
// are in seconds, size bounds in bytes.
var (
	latencyBounds = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	sizeBounds    = []float64{100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000}
)

// histogram accumulates observations into fixed buckets. bounds are
// immutable after construction; counts[len(bounds)] is the overflow
// bucket that becomes +Inf at exposition.
type histogram struct {
	mu     sync.Mutex
	bounds []float64
	counts []uint64
	sum    float64
	total  uint64
}

func newHistogram(bounds []float64) *histogram {
	return &histogram{bounds: bounds, counts: make([]uint64, len(bounds)+1)}
}

// observe files v into the first bucket whose upper bound is at least
// v, matching the inclusive le semantics of the text format.
func (h *histogram) observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	h.counts[i]++
	h.sum += v
	h.total++
	h.mu.Unlock()
}

// snapshot returns cumulative bucket counts plus the running sum and
// total observation count.
func (h *histogram) snapshot() (cum []uint64, sum float64, total uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cum = make([]uint64, len(h.counts))
	var running uint64
	for i, c := range h.counts {
		running += c
		cum[i] = running
	}
	return cum, h.sum, h.total
}
