package validation

// Status classifies a single validation outcome. StatusError is reserved for
// faults while reading the corpus and is distinct from StatusFailure, which
// means a data-quality constraint was checked and violated.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
)

// Category names the validation family a result belongs to. The remediation
// menu in the report is keyed by category.
type Category string

const (
	CategoryDistribution   Category = "distribution_similarity"
	CategoryCompletionRate Category = "completion_rate"
	CategoryTemporal       Category = "temporal_consistency"
	CategoryReferential    Category = "referential_integrity"
	CategoryCorpusAccess   Category = "corpus_access"
)

// Result is one validation finding. Metric and Threshold are in the same
// unit per category (divergence score, consistency fraction, or rate).
type Result struct {
	Category   Category
	Segment    string
	Status     Status
	Metric     float64
	Threshold  float64
	SampleSize int
	Details    string
}
