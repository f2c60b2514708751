package validation

import (
	"fmt"
	"log/slog"
	"sort"
)

// RateSample is a scalar rate computed upstream over one work-item type,
// e.g. the fraction of that type's tasks that completed.
type RateSample struct {
	WorkItemType string
	Rate         float64
	SampleSize   int
}

// RateValidator checks scalar rates by range membership. It is deliberately
// independent of the divergence calculation: a rate either sits inside its
// configured band or it does not.
type RateValidator struct {
	bands  map[string]RateBand
	logger *slog.Logger
}

type RateOption func(*RateValidator)

func WithRateLogger(l *slog.Logger) RateOption {
	return func(v *RateValidator) { v.logger = l }
}

func NewRateValidator(bands map[string]RateBand, opts ...RateOption) (*RateValidator, error) {
	for typ, band := range bands {
		if err := band.Validate(); err != nil {
			return nil, fmt.Errorf("rate validator: type %q: %w", typ, err)
		}
	}
	v := &RateValidator{bands: bands, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate emits one result per sample that has a configured band. Types
// without a band are ignored; undersampled types are skipped.
func (v *RateValidator) Validate(samples []RateSample) []Result {
	sorted := make([]RateSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].WorkItemType < sorted[j].WorkItemType })

	results := make([]Result, 0, len(sorted))
	for _, sample := range sorted {
		band, ok := v.bands[sample.WorkItemType]
		if !ok {
			continue
		}
		if sample.SampleSize < minSampleSize {
			v.logger.Debug("skipping undersampled rate",
				"type", sample.WorkItemType, "samples", sample.SampleSize)
			continue
		}
		status := StatusSuccess
		if !band.Contains(sample.Rate) {
			status = StatusFailure
		}
		results = append(results, Result{
			Category:   CategoryCompletionRate,
			Segment:    sample.WorkItemType,
			Status:     status,
			Metric:     sample.Rate,
			Threshold:  band.Max,
			SampleSize: sample.SampleSize,
			Details:    fmt.Sprintf("rate %.3f against band [%.2f, %.2f]", sample.Rate, band.Min, band.Max),
		})
	}
	return results
}
