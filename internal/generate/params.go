package generate

import (
	"fmt"

	"seedforge/internal/domain"
)

// Source is the explicit randomness a pipeline run consumes. Satisfied by
// *rand.Rand from math/rand/v2.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

type Range struct {
	Min int
	Max int
}

func (r Range) valid() bool { return r.Min >= 0 && r.Max >= r.Min }

// Scale sets how many of each entity a run produces. Ranges are inclusive
// and drawn per parent.
type Scale struct {
	Organizations      int
	TeamsPerOrg        Range
	UsersPerTeam       Range
	ProjectsPerTeam    Range
	SectionsPerProject Range
	TasksPerSection    Range
	TagsPerOrg         Range
	ParallelOrgs       bool
}

// DueBand is one weighted due-date window in whole days after creation.
// MaxDays zero means the band assigns no due date.
type DueBand struct {
	MinDays     int
	MaxDays     int
	Probability float64
}

// FieldSpec declares one custom field a department brings into its
// organizations. Options lists the allowed choices for enum fields and the
// phrase pool for text fields.
type FieldSpec struct {
	Name    string
	Kind    domain.FieldKind
	Options []string
}

// Params is the load-once parameterization of a Pipeline.
type Params struct {
	Scale Scale

	// Departments in generation order; team departments cycle through it.
	Departments []string
	// TypesByDepartment lists the work item types each department runs
	// projects of. Departments absent from the map draw from Departments'
	// union via the "default" entry.
	TypesByDepartment map[string][]string

	// DueDates and UnassignedRates are keyed by work item type with a
	// "default" fallback.
	DueDates        map[string][]DueBand
	UnassignedRates map[string]float64

	SectionNames []string
	TagColors    []string

	// CustomFields is keyed by department; each organization defines a
	// subset of the fields its departments bring.
	CustomFields map[string][]FieldSpec

	// HistoryDays is how far before the anchor the generated activity
	// reaches back.
	HistoryDays int

	// SubtaskRate is the fraction of tasks that get subtasks;
	// SubtaskCompletionRate the fraction of those completed when the
	// parent task is.
	SubtaskRate           float64
	SubtaskCompletionRate float64
}

func (p Params) validate() error {
	if p.Scale.Organizations <= 0 {
		return fmt.Errorf("scale: organizations must be positive")
	}
	for name, r := range map[string]Range{
		"teams per org":        p.Scale.TeamsPerOrg,
		"users per team":       p.Scale.UsersPerTeam,
		"projects per team":    p.Scale.ProjectsPerTeam,
		"sections per project": p.Scale.SectionsPerProject,
		"tasks per section":    p.Scale.TasksPerSection,
		"tags per org":         p.Scale.TagsPerOrg,
	} {
		if !r.valid() {
			return fmt.Errorf("scale: invalid %s range [%d,%d]", name, r.Min, r.Max)
		}
	}
	if len(p.Departments) == 0 {
		return fmt.Errorf("no departments configured")
	}
	if len(p.SectionNames) == 0 {
		return fmt.Errorf("no section names configured")
	}
	if p.HistoryDays <= 0 {
		return fmt.Errorf("history days must be positive")
	}
	if p.SubtaskRate < 0 || p.SubtaskRate > 1 {
		return fmt.Errorf("subtask rate %v outside [0,1]", p.SubtaskRate)
	}
	if p.SubtaskCompletionRate < 0 || p.SubtaskCompletionRate > 1 {
		return fmt.Errorf("subtask completion rate %v outside [0,1]", p.SubtaskCompletionRate)
	}
	for department, fields := range p.CustomFields {
		for _, f := range fields {
			if f.Name == "" {
				return fmt.Errorf("custom fields for %s: empty field name", department)
			}
			if _, ok := domain.ParseFieldKind(string(f.Kind)); !ok {
				return fmt.Errorf("custom field %s.%s: unknown kind %q", department, f.Name, f.Kind)
			}
			if f.Kind == domain.FieldEnum && len(f.Options) == 0 {
				return fmt.Errorf("custom field %s.%s: enum fields need options", department, f.Name)
			}
		}
	}
	return nil
}

func (p Params) fieldsFor(department string) []FieldSpec {
	if fields, ok := p.CustomFields[department]; ok {
		return fields
	}
	return p.CustomFields["default"]
}

func (p Params) dueBands(workItemType string) []DueBand {
	if bands, ok := p.DueDates[workItemType]; ok {
		return bands
	}
	return p.DueDates["default"]
}

func (p Params) unassignedRate(workItemType string) float64 {
	if rate, ok := p.UnassignedRates[workItemType]; ok {
		return rate
	}
	return p.UnassignedRates["default"]
}

func (p Params) typesFor(department string) []string {
	if types, ok := p.TypesByDepartment[department]; ok && len(types) > 0 {
		return types
	}
	return p.TypesByDepartment["default"]
}
