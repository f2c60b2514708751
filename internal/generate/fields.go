package generate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"seedforge/internal/domain"
	"seedforge/internal/sampling"
)

// Custom field completion follows industry benchmarks: fields whose names
// mark them as required are almost always filled, scoring fields usually,
// everything else under half the time.
const (
	requiredFieldRate  = 0.95
	importantFieldRate = 0.80
	optionalFieldRate  = 0.45

	// Date-typed field values land on business days most of the time.
	fieldDateBusinessBias = 0.85

	minFieldsPerDepartment = 3
	maxFieldsPerDepartment = 8
)

var (
	requiredFieldTokens  = []string{"priority", "due", "deadline", "required", "critical", "mandatory"}
	importantFieldTokens = []string{"impact", "effort", "score", "value", "target", "budget", "cost"}
)

// buildFieldDefinitions assembles the organization's custom field catalog:
// each department its teams span contributes a shuffled subset of its
// configured fields, with names kept unique org-wide.
func (p *Pipeline) buildFieldDefinitions(rng *rand.Rand, org domain.Organization, teams []domain.Team) []domain.FieldDefinition {
	seen := make(map[string]bool, len(teams))
	var departments []string
	for _, team := range teams {
		if seen[team.Department] {
			continue
		}
		seen[team.Department] = true
		departments = append(departments, team.Department)
	}

	usedNames := make(map[string]bool)
	var defs []domain.FieldDefinition
	for _, department := range departments {
		fields := append([]FieldSpec(nil), p.params.fieldsFor(department)...)
		if len(fields) == 0 {
			continue
		}
		rng.Shuffle(len(fields), func(i, j int) { fields[i], fields[j] = fields[j], fields[i] })

		count := len(fields)
		if count > minFieldsPerDepartment {
			upper := count
			if upper > maxFieldsPerDepartment {
				upper = maxFieldsPerDepartment
			}
			count = minFieldsPerDepartment + rng.IntN(upper-minFieldsPerDepartment+1)
		}

		for _, field := range fields[:count] {
			name := field.Name
			for n := 2; usedNames[name]; n++ {
				name = fmt.Sprintf("%s %d", field.Name, n)
			}
			usedNames[name] = true
			defs = append(defs, domain.FieldDefinition{
				ID:             uuid.New(),
				OrganizationID: org.ID,
				Name:           name,
				Kind:           field.Kind,
				Options:        field.Options,
				CreatedAt:      org.CreatedAt,
			})
		}
	}
	return defs
}

// buildFieldValues fills the catalog in for each task. Whether a field gets a
// value depends on its name's importance tier; the value itself is drawn
// through the registry under the task's segment, so exact and category
// distribution overrides apply per field name.
func (p *Pipeline) buildFieldValues(rng *rand.Rand, projects []domain.Project, tasks []domain.Task, defs []domain.FieldDefinition) []domain.FieldValue {
	if len(defs) == 0 {
		return nil
	}
	projectByID := make(map[uuid.UUID]domain.Project, len(projects))
	for _, project := range projects {
		projectByID[project.ID] = project
	}

	var values []domain.FieldValue
	for _, task := range tasks {
		seg := projectByID[task.ProjectID].Segment()
		for _, def := range defs {
			if rng.Float64() >= fieldCompletionRate(def.Name) {
				continue
			}
			values = append(values, p.drawFieldValue(rng, seg, def, task))
		}
	}
	return values
}

func (p *Pipeline) drawFieldValue(rng *rand.Rand, seg domain.Segment, def domain.FieldDefinition, task domain.Task) domain.FieldValue {
	value := domain.FieldValue{
		ID:           uuid.New(),
		DefinitionID: def.ID,
		TaskID:       task.ID,
		CreatedAt:    task.Lifecycle.CreatedAt,
	}

	spec := p.registry.Resolve(seg, fieldKey(def.Name), fieldValueKind(def.Kind))
	draw := p.sampler.Sample(rng, spec)

	switch def.Kind {
	case domain.FieldEnum:
		idx := clampInt(int(math.Round(draw)), 0, len(def.Options)-1)
		option := def.Options[idx]
		value.Option = &option
	case domain.FieldNumber:
		number := draw
		value.Number = &number
	case domain.FieldDate:
		day := task.Lifecycle.CreatedAt.AddDate(0, 0, int(math.Round(draw)))
		if rng.Float64() < fieldDateBusinessBias && !p.cal.IsBusinessDay(day) {
			day = p.cal.NextBusinessDay(day)
		}
		date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		value.Date = &date
	case domain.FieldBoolean:
		boolean := draw >= 0.5
		value.Boolean = &boolean
	default:
		text := fmt.Sprintf("%s value", def.Name)
		if len(def.Options) > 0 {
			text = def.Options[rng.IntN(len(def.Options))]
		}
		value.Text = &text
	}
	return value
}

// fieldKey normalizes a display name into the registry's field-name form,
// e.g. "Story Points" into "story_points".
func fieldKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

func fieldCompletionRate(name string) float64 {
	key := fieldKey(name)
	for _, token := range requiredFieldTokens {
		if strings.Contains(key, token) {
			return requiredFieldRate
		}
	}
	for _, token := range importantFieldTokens {
		if strings.Contains(key, token) {
			return importantFieldRate
		}
	}
	return optionalFieldRate
}

func fieldValueKind(k domain.FieldKind) sampling.ValueKind {
	switch k {
	case domain.FieldEnum:
		return sampling.ValueEnum
	case domain.FieldNumber:
		return sampling.ValueNumber
	case domain.FieldDate:
		return sampling.ValueDate
	case domain.FieldBoolean:
		return sampling.ValueBoolean
	default:
		return sampling.ValueText
	}
}
