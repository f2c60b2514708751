package validation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"seedforge/internal/domain"
)

const (
	// smoothingEpsilon is added to every bucket before renormalizing so the
	// divergence sum never hits a zero-probability term.
	smoothingEpsilon = 1e-10

	// minSampleSize is the segment population below which divergence is not
	// computed. Undersampled segments are skipped, not penalized.
	minSampleSize = 10
)

// Observation is one empirical value attributed to a segment, typically a
// completed work item's cycle time in days.
type Observation struct {
	Segment domain.Segment
	Value   float64
}

// DivergenceValidator buckets observed values against per-segment benchmark
// distributions and scores them with KL divergence.
type DivergenceValidator struct {
	benchmarks map[domain.Segment]Benchmark
	threshold  float64
	logger     *slog.Logger
}

type DivergenceOption func(*DivergenceValidator)

func WithDivergenceLogger(l *slog.Logger) DivergenceOption {
	return func(v *DivergenceValidator) { v.logger = l }
}

func NewDivergenceValidator(benchmarks []Benchmark, threshold float64, opts ...DivergenceOption) (*DivergenceValidator, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("divergence validator: threshold must be positive, got %v", threshold)
	}
	byKey := make(map[domain.Segment]Benchmark, len(benchmarks))
	for _, b := range benchmarks {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("divergence validator: %w", err)
		}
		byKey[b.Segment] = b
	}
	v := &DivergenceValidator{
		benchmarks: byKey,
		threshold:  threshold,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate buckets the observations per segment and emits one result per
// benchmark that has enough samples. Segments without a benchmark are
// ignored; benchmarks without enough observations are skipped.
func (v *DivergenceValidator) Validate(observations []Observation) []Result {
	grouped := make(map[domain.Segment][]float64)
	for _, o := range observations {
		grouped[o.Segment] = append(grouped[o.Segment], o.Value)
	}

	segments := make([]domain.Segment, 0, len(v.benchmarks))
	for seg := range v.benchmarks {
		segments = append(segments, seg)
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].String() < segments[j].String() })

	results := make([]Result, 0, len(segments))
	for _, seg := range segments {
		bench := v.benchmarks[seg]
		values := grouped[seg]
		if len(values) < minSampleSize {
			v.logger.Debug("skipping undersampled segment",
				"segment", seg.String(), "samples", len(values), "min", minSampleSize)
			continue
		}

		observed := make([]float64, len(bench.Probabilities))
		for _, val := range values {
			observed[bench.bucket(val)]++
		}
		for i := range observed {
			observed[i] /= float64(len(values))
		}

		score := klDivergence(observed, bench.Probabilities)
		status := StatusSuccess
		if score > v.threshold {
			status = StatusFailure
		}
		results = append(results, Result{
			Category:   CategoryDistribution,
			Segment:    seg.String(),
			Status:     status,
			Metric:     score,
			Threshold:  v.threshold,
			SampleSize: len(values),
			Details:    fmt.Sprintf("KL divergence %.6f over %d buckets", score, len(bench.Probabilities)),
		})
	}
	return results
}

// klDivergence computes sum(p*ln(p/q)) after epsilon-smoothing and
// renormalizing both vectors. Identical vectors score zero within epsilon.
func klDivergence(observed, benchmark []float64) float64 {
	p := smooth(observed)
	q := smooth(benchmark)
	var sum float64
	for i := range p {
		sum += p[i] * math.Log(p[i]/q[i])
	}
	return sum
}

func smooth(vec []float64) []float64 {
	out := make([]float64, len(vec))
	var total float64
	for i, v := range vec {
		out[i] = v + smoothingEpsilon
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
