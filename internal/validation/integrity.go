package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"seedforge/internal/domain"
)

// IntegrityChecker computes corpus-wide consistency fractions and compares
// them against tolerances. Tolerances are minimum acceptable fractions, e.g.
// 0.95 means at most 5% of records may violate temporal ordering.
type IntegrityChecker struct {
	temporalTolerance    float64
	referentialTolerance float64
}

func NewIntegrityChecker(temporalTolerance, referentialTolerance float64) (*IntegrityChecker, error) {
	for _, tol := range []float64{temporalTolerance, referentialTolerance} {
		if tol < 0 || tol > 1 {
			return nil, fmt.Errorf("integrity checker: tolerance %v outside [0,1]", tol)
		}
	}
	return &IntegrityChecker{
		temporalTolerance:    temporalTolerance,
		referentialTolerance: referentialTolerance,
	}, nil
}

// Check runs both integrity passes over the corpus. An empty corpus is
// vacuously consistent.
func (c *IntegrityChecker) Check(corpus *domain.Corpus, now time.Time) []Result {
	return []Result{
		c.temporal(corpus, now),
		c.referential(corpus),
	}
}

func (c *IntegrityChecker) temporal(corpus *domain.Corpus, now time.Time) Result {
	var checked, violations int

	tasksByID := make(map[uuid.UUID]domain.Task, len(corpus.Tasks))
	for _, t := range corpus.Tasks {
		tasksByID[t.ID] = t
		checked++
		if !t.Lifecycle.Ordered(now) {
			violations++
		}
	}
	for _, st := range corpus.Subtasks {
		checked++
		switch {
		case st.CreatedAt.After(now):
			violations++
		case st.CompletedAt != nil && (st.CompletedAt.Before(st.CreatedAt) || st.CompletedAt.After(now)):
			violations++
		}
	}
	for _, cm := range corpus.Comments {
		checked++
		if cm.CreatedAt.After(now) {
			violations++
			continue
		}
		// A comment cannot predate the task it sits on.
		if task, ok := tasksByID[cm.TaskID]; ok && cm.CreatedAt.Before(task.Lifecycle.CreatedAt) {
			violations++
		}
	}
	for _, fv := range corpus.FieldValues {
		checked++
		if fv.CreatedAt.After(now) {
			violations++
			continue
		}
		if task, ok := tasksByID[fv.TaskID]; ok && fv.CreatedAt.Before(task.Lifecycle.CreatedAt) {
			violations++
		}
	}

	return c.result(CategoryTemporal, checked, violations, c.temporalTolerance)
}

func (c *IntegrityChecker) referential(corpus *domain.Corpus) Result {
	orgs := idSet(corpus.Organizations, func(o domain.Organization) uuid.UUID { return o.ID })
	teams := idSet(corpus.Teams, func(t domain.Team) uuid.UUID { return t.ID })
	users := idSet(corpus.Users, func(u domain.User) uuid.UUID { return u.ID })
	projects := idSet(corpus.Projects, func(p domain.Project) uuid.UUID { return p.ID })
	sections := idSet(corpus.Sections, func(s domain.Section) uuid.UUID { return s.ID })
	tasks := idSet(corpus.Tasks, func(t domain.Task) uuid.UUID { return t.ID })
	tags := idSet(corpus.Tags, func(t domain.Tag) uuid.UUID { return t.ID })
	fields := idSet(corpus.Fields, func(f domain.FieldDefinition) uuid.UUID { return f.ID })

	var checked, violations int
	check := func(ok bool) {
		checked++
		if !ok {
			violations++
		}
	}

	for _, t := range corpus.Teams {
		check(orgs[t.OrganizationID])
	}
	for _, u := range corpus.Users {
		check(orgs[u.OrganizationID])
	}
	for _, m := range corpus.Memberships {
		check(teams[m.TeamID])
		check(users[m.UserID])
	}
	for _, p := range corpus.Projects {
		check(teams[p.TeamID])
	}
	for _, s := range corpus.Sections {
		check(projects[s.ProjectID])
	}
	for _, t := range corpus.Tasks {
		check(projects[t.ProjectID])
		check(sections[t.SectionID])
		if t.AssigneeID != nil {
			check(users[*t.AssigneeID])
		}
	}
	for _, st := range corpus.Subtasks {
		check(tasks[st.TaskID])
		if st.AssigneeID != nil {
			check(users[*st.AssigneeID])
		}
	}
	for _, cm := range corpus.Comments {
		check(tasks[cm.TaskID])
		check(users[cm.AuthorID])
	}
	for _, tg := range corpus.Tags {
		check(orgs[tg.OrganizationID])
	}
	for _, tt := range corpus.TaskTags {
		check(tasks[tt.TaskID])
		check(tags[tt.TagID])
	}
	for _, f := range corpus.Fields {
		check(orgs[f.OrganizationID])
	}
	for _, fv := range corpus.FieldValues {
		check(fields[fv.DefinitionID])
		check(tasks[fv.TaskID])
	}

	return c.result(CategoryReferential, checked, violations, c.referentialTolerance)
}

func (c *IntegrityChecker) result(cat Category, checked, violations int, tolerance float64) Result {
	consistency := 1.0
	if checked > 0 {
		consistency = 1 - float64(violations)/float64(checked)
	}
	status := StatusSuccess
	if consistency < tolerance {
		status = StatusFailure
	}
	return Result{
		Category:   cat,
		Status:     status,
		Metric:     consistency,
		Threshold:  tolerance,
		SampleSize: checked,
		Details:    fmt.Sprintf("%d violations over %d checks", violations, checked),
	}
}

func idSet[T any](items []T, id func(T) uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		set[id(item)] = true
	}
	return set
}
