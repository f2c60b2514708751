package validation

import (
	"fmt"
	"math"
	"sort"

	"seedforge/internal/domain"
)

// Benchmark is the reference distribution for one segment. Boundaries are
// inclusive upper bucket edges in ascending order; values above the last edge
// count toward the last bucket. Static configuration, never mutated.
type Benchmark struct {
	Segment       domain.Segment
	Boundaries    []float64
	Probabilities []float64
}

func (b Benchmark) Validate() error {
	if b.Segment.IsZero() {
		return fmt.Errorf("benchmark: missing segment")
	}
	if len(b.Boundaries) == 0 {
		return fmt.Errorf("benchmark %s: no buckets", b.Segment)
	}
	if len(b.Boundaries) != len(b.Probabilities) {
		return fmt.Errorf("benchmark %s: %d boundaries vs %d probabilities",
			b.Segment, len(b.Boundaries), len(b.Probabilities))
	}
	if !sort.Float64sAreSorted(b.Boundaries) {
		return fmt.Errorf("benchmark %s: boundaries not ascending", b.Segment)
	}
	var sum float64
	for _, p := range b.Probabilities {
		if p < 0 {
			return fmt.Errorf("benchmark %s: negative probability %v", b.Segment, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("benchmark %s: probabilities sum to %v, want 1", b.Segment, sum)
	}
	return nil
}

// bucket returns the index of the bucket v falls into.
func (b Benchmark) bucket(v float64) int {
	for i, edge := range b.Boundaries {
		if v <= edge {
			return i
		}
	}
	return len(b.Boundaries) - 1
}

// RateBand is the accepted (min,max) window for a scalar rate, keyed by
// work-item type in the rate validator.
type RateBand struct {
	Min float64
	Max float64
}

func (b RateBand) Validate() error {
	if b.Min < 0 || b.Max > 1 || b.Min > b.Max {
		return fmt.Errorf("rate band [%v,%v] outside [0,1]", b.Min, b.Max)
	}
	return nil
}

func (b RateBand) Contains(rate float64) bool {
	return rate >= b.Min && rate <= b.Max
}
