package sampling

import (
	"log/slog"
	"math"
)

// Source is the randomness a sampler consumes. *rand.Rand from math/rand/v2
// satisfies it; tests substitute scripted sources.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

// RetryPolicy names the bounded-retry behavior so it can be tested in
// isolation: draws that miss [min,max] are retried up to MaxAttempts, after
// which the sampler falls back to the distribution's mean. Falling back to
// the mean, not a boundary, keeps tight-bound configurations from skewing
// generated data toward extremes.
type RetryPolicy struct {
	MaxAttempts int
}

// DefaultRetryPolicy matches the downstream distributional tests.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 10}

// FallbackCounter is notified each time bound retries are exhausted.
// Satisfied by prometheus counters.
type FallbackCounter interface {
	Inc()
}

// Sampler draws bounded values. The zero value is not usable; construct
// with New.
type Sampler struct {
	policy    RetryPolicy
	logger    *slog.Logger
	fallbacks FallbackCounter
}

type Option func(*Sampler)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Sampler) {
		if p.MaxAttempts > 0 {
			s.policy = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sampler) { s.logger = logger }
}

func WithFallbackCounter(c FallbackCounter) Option {
	return func(s *Sampler) { s.fallbacks = c }
}

func New(opts ...Option) *Sampler {
	s := &Sampler{policy: DefaultRetryPolicy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample draws one value honoring spec's bounds. It never fails: exhausted
// retries recover to the distribution mean and unknown kinds recover to a
// uniform draw over [min,max].
func (s *Sampler) Sample(rng Source, spec Spec) float64 {
	switch spec.Kind {
	case KindWeighted:
		return s.sampleWeighted(rng, spec)
	case KindNormal:
		return s.sampleBounded(rng, spec, func() float64 {
			return rng.NormFloat64()*spec.StdDev + spec.Mean
		}, spec.Mean)
	case KindLogNormal:
		// Mean/StdDev are log-space; the fallback center is the value-space
		// image of the log-space mean.
		return s.sampleBounded(rng, spec, func() float64 {
			return math.Exp(rng.NormFloat64()*spec.StdDev + spec.Mean)
		}, math.Exp(spec.Mean))
	default:
		return s.uniform(rng, spec)
	}
}

func (s *Sampler) sampleWeighted(rng Source, spec Spec) float64 {
	if len(spec.Values) == 0 || len(spec.Values) != len(spec.Weights) {
		return s.uniform(rng, spec)
	}
	var total float64
	for _, w := range spec.Weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return spec.Values[rng.IntN(len(spec.Values))]
	}
	target := rng.Float64() * total
	for i, w := range spec.Weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return spec.Values[i]
		}
	}
	return spec.Values[len(spec.Values)-1]
}

func (s *Sampler) sampleBounded(rng Source, spec Spec, draw func() float64, fallback float64) float64 {
	for range s.policy.MaxAttempts {
		v := draw()
		if v >= spec.Min && v <= spec.Max {
			return v
		}
	}
	if s.fallbacks != nil {
		s.fallbacks.Inc()
	}
	if s.logger != nil {
		s.logger.Debug("bounded sampling exhausted, using distribution mean",
			"kind", spec.Kind.String(),
			"min", spec.Min,
			"max", spec.Max,
			"fallback", fallback,
		)
	}
	return fallback
}

func (s *Sampler) uniform(rng Source, spec Spec) float64 {
	if spec.Max <= spec.Min {
		return spec.Min
	}
	return spec.Min + rng.Float64()*(spec.Max-spec.Min)
}
