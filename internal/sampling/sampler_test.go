package sampling

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"seedforge/pkg/testutil"
)

type SamplerSuite struct {
	suite.Suite
	sampler *Sampler
	rng     *rand.Rand
}

func TestSamplerSuite(t *testing.T) {
	suite.Run(t, new(SamplerSuite))
}

func (s *SamplerSuite) SetupTest() {
	s.sampler = New()
	s.rng = rand.New(rand.NewPCG(7, 11))
}

func (s *SamplerSuite) TestBoundsInvariant() {
	specs := []Spec{
		{Kind: KindNormal, Mean: 5, StdDev: 3, Min: 0, Max: 10},
		{Kind: KindLogNormal, Mean: 1.5, StdDev: 0.8, Min: 0.5, Max: 168},
		{Kind: KindLogNormal, Mean: 2.5, StdDev: 1.0, Min: 1, Max: 336},
		{Kind: KindUnknown, Min: 2, Max: 9},
	}
	for _, spec := range specs {
		for range 1000 {
			v := s.sampler.Sample(s.rng, spec)
			s.GreaterOrEqual(v, spec.Min)
			s.LessOrEqual(v, spec.Max)
		}
	}
}

func (s *SamplerSuite) TestNormalFallbackReturnsMean() {
	// A window more than six standard deviations away from the mean: every
	// scripted draw returns the mean itself, which is out of bounds, so all
	// attempts exhaust and the sampler must hand back exactly the mean.
	spec := Spec{Kind: KindNormal, Mean: 0, StdDev: 1, Min: 10, Max: 12}
	src := &testutil.ScriptedSource{} // NormFloat64 yields 0 forever
	got := s.sampler.Sample(src, spec)
	s.InDelta(spec.Mean, got, 1e-12)
}

func (s *SamplerSuite) TestLogNormalFallbackReturnsCenter() {
	spec := Spec{Kind: KindLogNormal, Mean: 2, StdDev: 0.1, Min: 1000, Max: 2000}
	src := &testutil.ScriptedSource{}
	got := s.sampler.Sample(src, spec)
	s.InDelta(math.Exp(2), got, 1e-9)
}

func (s *SamplerSuite) TestFallbackCountsAttempts() {
	counter := &countingFallback{}
	sampler := New(
		WithRetryPolicy(RetryPolicy{MaxAttempts: 3}),
		WithFallbackCounter(counter),
	)
	spec := Spec{Kind: KindNormal, Mean: 0, StdDev: 1, Min: 50, Max: 60}
	src := &testutil.ScriptedSource{Norms: []float64{1, 2, 3, 4, 5}}
	sampler.Sample(src, spec)
	// Exactly MaxAttempts draws were consumed before falling back.
	s.Len(src.Norms, 2)
	s.Equal(1, counter.n)
}

func (s *SamplerSuite) TestWeighted() {
	s.Run("weights need not be normalized", func() {
		spec := Spec{
			Kind:    KindWeighted,
			Values:  []float64{1, 2, 3},
			Weights: []float64{10, 30, 60},
		}
		counts := map[float64]int{}
		for range 6000 {
			counts[s.sampler.Sample(s.rng, spec)]++
		}
		// Rough proportionality is enough; exact ratios are the rng's business.
		s.Greater(counts[3], counts[2])
		s.Greater(counts[2], counts[1])
		s.Greater(counts[1], 0)
	})

	s.Run("zero-weight values are never drawn", func() {
		spec := Spec{
			Kind:    KindWeighted,
			Values:  []float64{1, 2},
			Weights: []float64{0, 5},
		}
		for range 200 {
			s.Equal(2.0, s.sampler.Sample(s.rng, spec))
		}
	})

	s.Run("mismatched lists degrade to uniform over bounds", func() {
		spec := Spec{
			Kind:    KindWeighted,
			Values:  []float64{1, 2},
			Weights: []float64{1},
			Min:     4,
			Max:     5,
		}
		v := s.sampler.Sample(s.rng, spec)
		s.GreaterOrEqual(v, 4.0)
		s.LessOrEqual(v, 5.0)
	})
}

func (s *SamplerSuite) TestUnknownKindUniform() {
	spec := Spec{Kind: KindUnknown, Min: -3, Max: 3}
	for range 500 {
		v := s.sampler.Sample(s.rng, spec)
		s.GreaterOrEqual(v, -3.0)
		s.LessOrEqual(v, 3.0)
	}
	// Degenerate window collapses to min.
	s.Equal(1.5, s.sampler.Sample(s.rng, Spec{Kind: KindUnknown, Min: 1.5, Max: 1.5}))
}

func TestParseKind(t *testing.T) {
	require.Equal(t, KindWeighted, ParseKind("weighted"))
	require.Equal(t, KindNormal, ParseKind("normal"))
	require.Equal(t, KindLogNormal, ParseKind("lognormal"))
	require.Equal(t, KindUnknown, ParseKind("zipf"))
	require.Equal(t, KindUnknown, ParseKind(""))
}

type countingFallback struct{ n int }

func (c *countingFallback) Inc() { c.n++ }
