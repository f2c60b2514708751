// Package metrics registers the Prometheus instruments the engine reports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"seedforge/internal/sampling"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	EntitiesGenerated  *prometheus.CounterVec
	SamplerFallbacks   prometheus.Counter
	RegistryTiers      *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	GenerationSeconds  prometheus.Histogram
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EntitiesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seedforge_entities_generated_total",
			Help: "Entities written to the corpus, by entity kind",
		}, []string{"entity"}),
		SamplerFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "seedforge_sampler_fallbacks_total",
			Help: "Samples that exhausted bound retries and fell back to the distribution mean",
		}),
		RegistryTiers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seedforge_registry_resolutions_total",
			Help: "Distribution registry lookups, by resolution tier",
		}, []string{"tier"}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "seedforge_validation_failures_total",
			Help: "Validation results that were not successes",
		}),
		GenerationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "seedforge_generation_duration_seconds",
			Help:    "Wall time of a full corpus generation run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// Generated records n entities of one kind.
func (m *Metrics) Generated(entity string, n int) {
	m.EntitiesGenerated.WithLabelValues(entity).Add(float64(n))
}

// RunCompleted records the wall time of a finished generation run.
func (m *Metrics) RunCompleted(elapsed time.Duration) {
	m.GenerationSeconds.Observe(elapsed.Seconds())
}

// TierCounter adapts RegistryTiers to the sampling registry's observer.
func (m *Metrics) TierCounter() sampling.TierCounter {
	return tierCounter{vec: m.RegistryTiers}
}

type tierCounter struct {
	vec *prometheus.CounterVec
}

func (c tierCounter) Observe(tier sampling.Tier) {
	c.vec.WithLabelValues(tier.String()).Inc()
}
