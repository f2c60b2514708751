package validation

import (
	"fmt"
	"strings"
	"time"
)

// Report is the operator-facing aggregation of one validation run. Any
// failed category fails the whole report; a corpus-read error outranks both.
type Report struct {
	GeneratedAt time.Time
	Overall     Status
	Results     []Result
}

// remediations is the fixed suggestion menu, keyed by failing category.
var remediations = map[Category]string{
	CategoryDistribution:   "recalibrate the distribution registry entries for the failing segments, or widen the similarity threshold if the benchmark is stale",
	CategoryCompletionRate: "adjust the department base completion rates or work-item-type adjustments feeding the lifecycle engine",
	CategoryTemporal:       "inspect lifecycle clamp windows and the injected reference time; ordering violations usually mean the anchor predates the corpus",
	CategoryReferential:    "regenerate the corpus in one run; dangling references usually mean a partial write or mixed batches in the store",
	CategoryCorpusAccess:   "verify the store DSN and connectivity, then rerun validation",
}

// BuildReport computes the overall verdict over the collected results.
func BuildReport(results []Result, generatedAt time.Time) Report {
	overall := StatusSuccess
	for _, r := range results {
		switch r.Status {
		case StatusError:
			overall = StatusError
		case StatusFailure:
			if overall != StatusError {
				overall = StatusFailure
			}
		}
	}
	return Report{GeneratedAt: generatedAt, Overall: overall, Results: results}
}

// Failures returns the non-success results, preserving order.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status != StatusSuccess {
			out = append(out, res)
		}
	}
	return out
}

// Render produces the human-readable report text.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validation report (%s)\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "overall: %s\n\n", r.Overall)

	for _, res := range r.Results {
		fmt.Fprintf(&b, "  [%-7s] %-24s", res.Status, res.Category)
		if res.Segment != "" {
			fmt.Fprintf(&b, " %s", res.Segment)
		}
		fmt.Fprintf(&b, "  metric=%.4f threshold=%.4f n=%d", res.Metric, res.Threshold, res.SampleSize)
		if res.Details != "" {
			fmt.Fprintf(&b, "  (%s)", res.Details)
		}
		b.WriteString("\n")
	}

	failures := r.Failures()
	if len(failures) == 0 {
		return b.String()
	}

	b.WriteString("\nsuggested fixes:\n")
	seen := make(map[Category]bool)
	for _, res := range failures {
		if seen[res.Category] {
			continue
		}
		seen[res.Category] = true
		if hint, ok := remediations[res.Category]; ok {
			fmt.Fprintf(&b, "  - %s: %s\n", res.Category, hint)
		}
	}
	return b.String()
}
