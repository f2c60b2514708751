package sampling

import (
	"fmt"
	"log/slog"
	"strings"

	"seedforge/internal/domain"
)

// Tier identifies which layer of the registry satisfied a resolution.
type Tier int

const (
	TierExact Tier = iota
	TierCategory
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierCategory:
		return "category"
	default:
		return "default"
	}
}

// TierCounter observes which fallback tier served each lookup. Satisfied by
// prometheus counter vecs via a thin adapter.
type TierCounter interface {
	Observe(tier Tier)
}

type exactKey struct {
	segment string
	field   string
}

type categoryEntry struct {
	token string
	spec  Spec
}

// Registry maps (segment, fieldName) to a SamplingSpec with three
// resolution tiers: exact key, category-token substring, then a per
// value-kind global default. Segments are numerous, so a small curated
// table plus the substring tier covers most field-name variants; the
// default tier makes resolution total.
//
// The registry is loaded once at startup and read-only afterwards.
type Registry struct {
	exact      map[exactKey]Spec
	categories []categoryEntry
	defaults   map[ValueKind]Spec
	logger     *slog.Logger
	tiers      TierCounter
}

type RegistryOption func(*Registry)

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

func WithTierCounter(c TierCounter) RegistryOption {
	return func(r *Registry) { r.tiers = c }
}

// NewRegistry requires a complete default table: one Spec per ValueKind.
// That invariant is what lets Resolve never fail.
func NewRegistry(defaults map[ValueKind]Spec, opts ...RegistryOption) (*Registry, error) {
	for _, k := range ValueKinds() {
		if _, ok := defaults[k]; !ok {
			return nil, fmt.Errorf("registry defaults missing value kind %q", k)
		}
	}
	r := &Registry{
		exact:    make(map[exactKey]Spec),
		defaults: defaults,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Register installs an exact (segment, fieldName) entry.
func (r *Registry) Register(segment domain.Segment, fieldName string, spec Spec) {
	r.exact[exactKey{segment.String(), normalizeField(fieldName)}] = spec
}

// RegisterCategory installs a substring entry: any field name containing
// token resolves to spec when no exact entry matches.
func (r *Registry) RegisterCategory(token string, spec Spec) {
	r.categories = append(r.categories, categoryEntry{token: normalizeField(token), spec: spec})
}

// Resolve returns the Spec for a field. Resolution order: exact entry,
// first category token contained in the field name, then the global
// default for the field's value kind. It never fails.
func (r *Registry) Resolve(segment domain.Segment, fieldName string, kind ValueKind) Spec {
	field := normalizeField(fieldName)

	if spec, ok := r.exact[exactKey{segment.String(), field}]; ok {
		r.observe(TierExact)
		return spec
	}

	for _, c := range r.categories {
		if strings.Contains(field, c.token) {
			r.observe(TierCategory)
			return c.spec
		}
	}

	if r.logger != nil {
		r.logger.Warn("no registry entry for field, using value-kind default",
			"segment", segment.String(),
			"field", fieldName,
			"value_kind", kind.String(),
		)
	}
	r.observe(TierDefault)
	return r.defaults[kind]
}

func (r *Registry) observe(tier Tier) {
	if r.tiers != nil {
		r.tiers.Observe(tier)
	}
}

func normalizeField(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
