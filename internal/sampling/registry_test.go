package sampling

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"seedforge/internal/domain"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
	tiers    *recordingTiers
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func defaultSpecs() map[ValueKind]Spec {
	return map[ValueKind]Spec{
		ValueEnum:    {Kind: KindWeighted, Values: []float64{0, 1}, Weights: []float64{1, 1}},
		ValueNumber:  {Kind: KindNormal, Mean: 1, StdDev: 0.5, Min: 0, Max: 10},
		ValueDate:    {Kind: KindUnknown, Min: 1, Max: 30},
		ValueBoolean: {Kind: KindWeighted, Values: []float64{0, 1}, Weights: []float64{1, 1}},
		ValueText:    {Kind: KindUnknown, Min: 1, Max: 5},
	}
}

func (s *RegistrySuite) SetupTest() {
	s.tiers = &recordingTiers{}
	var err error
	s.registry, err = NewRegistry(defaultSpecs(), WithTierCounter(s.tiers))
	s.Require().NoError(err)
}

func (s *RegistrySuite) TestIncompleteDefaultsRejected() {
	defaults := defaultSpecs()
	delete(defaults, ValueDate)
	_, err := NewRegistry(defaults)
	s.Error(err)
	s.Contains(err.Error(), "date")
}

func (s *RegistrySuite) TestExactBeatsCategory() {
	seg := domain.NewSegment("engineering", "bug_tracking")
	exact := Spec{Kind: KindWeighted, Values: []float64{3}, Weights: []float64{1}}
	category := Spec{Kind: KindWeighted, Values: []float64{7}, Weights: []float64{1}}

	s.registry.Register(seg, "bug_priority", exact)
	s.registry.RegisterCategory("priority", category)

	got := s.registry.Resolve(seg, "bug_priority", ValueEnum)
	s.Equal(exact, got)
	s.Equal([]Tier{TierExact}, s.tiers.seen)
}

func (s *RegistrySuite) TestCategorySubstringMatch() {
	category := Spec{Kind: KindWeighted, Values: []float64{7}, Weights: []float64{1}}
	s.registry.RegisterCategory("priority", category)

	// No exact entry for this segment: the substring tier serves any field
	// name containing the registered token.
	got := s.registry.Resolve(domain.NewSegment("sales", "sales_pipeline"), "task_priority_level", ValueEnum)
	s.Equal(category, got)
	s.Equal([]Tier{TierCategory}, s.tiers.seen)
}

func (s *RegistrySuite) TestExactEntryScopedToSegment() {
	seg := domain.NewSegment("engineering", "sprint")
	exact := Spec{Kind: KindWeighted, Values: []float64{3}, Weights: []float64{1}}
	s.registry.Register(seg, "estimate_hours", exact)

	// A different segment must not see the exact entry.
	got := s.registry.Resolve(domain.NewSegment("marketing", "campaign"), "estimate_hours", ValueNumber)
	s.Equal(defaultSpecs()[ValueNumber], got)
	s.Equal([]Tier{TierDefault}, s.tiers.seen)
}

func (s *RegistrySuite) TestDefaultTierNeverFails() {
	for _, kind := range ValueKinds() {
		got := s.registry.Resolve(domain.NewSegment("x", "y"), "completely_unmapped_field", kind)
		s.Equal(defaultSpecs()[kind], got)
	}
	s.Len(s.tiers.seen, len(ValueKinds()))
}

func (s *RegistrySuite) TestFieldNameNormalization() {
	seg := domain.NewSegment("Engineering", "Sprint")
	exact := Spec{Kind: KindWeighted, Values: []float64{1}, Weights: []float64{1}}
	s.registry.Register(seg, "  Due_Date_Offset ", exact)

	got := s.registry.Resolve(domain.NewSegment("engineering", "sprint"), "due_date_offset", ValueDate)
	s.Equal(exact, got)
}

type recordingTiers struct{ seen []Tier }

func (r *recordingTiers) Observe(t Tier) { r.seen = append(r.seen, t) }
