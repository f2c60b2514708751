package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seedforge/internal/domain"
)

// CorpusSource is the read side of the store boundary: validation never sees
// live generator state, only a materialized snapshot.
type CorpusSource interface {
	Snapshot(ctx context.Context) (*domain.Corpus, error)
}

// FailureCounter receives one tick per non-success result, for metrics.
type FailureCounter interface {
	Inc()
}

type noopCounter struct{}

func (noopCounter) Inc() {}

// Service runs the full validation pass: cycle-time divergence per segment,
// completion-rate bands per work-item type, and corpus integrity. A snapshot
// fault becomes an error-status result, never a panic or process failure.
type Service struct {
	source     CorpusSource
	divergence *DivergenceValidator
	rates      *RateValidator
	integrity  *IntegrityChecker
	now        func() time.Time
	failures   FailureCounter
	logger     *slog.Logger
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithFailureCounter(c FailureCounter) ServiceOption {
	return func(s *Service) { s.failures = c }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func NewService(source CorpusSource, divergence *DivergenceValidator, rates *RateValidator, integrity *IntegrityChecker, opts ...ServiceOption) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("validation service: nil corpus source")
	}
	if divergence == nil || rates == nil || integrity == nil {
		return nil, fmt.Errorf("validation service: all validators are required")
	}
	s := &Service{
		source:     source,
		divergence: divergence,
		rates:      rates,
		integrity:  integrity,
		now:        time.Now,
		failures:   noopCounter{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run snapshots the corpus and produces the full report. It never returns an
// error for data-quality findings; those are carried in the report itself.
func (s *Service) Run(ctx context.Context) Report {
	now := s.now()

	corpus, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Error("corpus snapshot failed", "error", err)
		result := Result{
			Category: CategoryCorpusAccess,
			Status:   StatusError,
			Details:  err.Error(),
		}
		s.failures.Inc()
		return BuildReport([]Result{result}, now)
	}

	var results []Result
	results = append(results, s.divergence.Validate(CycleTimeObservations(corpus))...)
	results = append(results, s.rates.Validate(CompletionRates(corpus))...)
	results = append(results, s.integrity.Check(corpus, now)...)

	for _, r := range results {
		if r.Status != StatusSuccess {
			s.failures.Inc()
		}
	}
	return BuildReport(results, now)
}

// CycleTimeObservations extracts per-segment cycle times from completed
// tasks. Tasks on unknown projects are dropped here; the integrity pass
// reports them as dangling references.
func CycleTimeObservations(corpus *domain.Corpus) []Observation {
	projects := corpus.ProjectByID()
	var obs []Observation
	for _, t := range corpus.Tasks {
		if t.Lifecycle.CycleTimeDays == nil {
			continue
		}
		project, ok := projects[t.ProjectID]
		if !ok {
			continue
		}
		obs = append(obs, Observation{
			Segment: project.Segment(),
			Value:   *t.Lifecycle.CycleTimeDays,
		})
	}
	return obs
}

// CompletionRates computes the completed fraction of tasks per work-item
// type.
func CompletionRates(corpus *domain.Corpus) []RateSample {
	projects := corpus.ProjectByID()
	totals := make(map[string]int)
	completed := make(map[string]int)
	for _, t := range corpus.Tasks {
		project, ok := projects[t.ProjectID]
		if !ok {
			continue
		}
		totals[project.WorkItemType]++
		if t.Completed() {
			completed[project.WorkItemType]++
		}
	}

	samples := make([]RateSample, 0, len(totals))
	for typ, total := range totals {
		samples = append(samples, RateSample{
			WorkItemType: typ,
			Rate:         float64(completed[typ]) / float64(total),
			SampleSize:   total,
		})
	}
	return samples
}
