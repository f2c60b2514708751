// Package generate drives corpus production: organizations down to task
// comments, in dependency order, with every timestamp placed by the
// lifecycle engine and every distribution drawn through the registry.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"seedforge/internal/calendar"
	"seedforge/internal/content"
	"seedforge/internal/domain"
	"seedforge/internal/lifecycle"
	"seedforge/internal/sampling"
	"seedforge/internal/store"
)

// Observer receives entity counts as batches are persisted and the wall
// time of each finished run. Satisfied by the metrics layer.
type Observer interface {
	Generated(entity string, n int)
	RunCompleted(elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) Generated(string, int)      {}
func (noopObserver) RunCompleted(time.Duration) {}

// Pipeline owns one corpus generation run. Randomness is derived from the
// configured seed per organization, so sequential and parallel runs produce
// the same corpus.
type Pipeline struct {
	cal        *calendar.Calendar
	sampler    *sampling.Sampler
	registry   *sampling.Registry
	lifecycles *lifecycle.Generator
	provider   content.Provider
	store      store.CorpusStore
	params     Params
	now        time.Time
	seed       uint64
	logger     *slog.Logger
	observer   Observer
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithObserver(obs Observer) Option {
	return func(p *Pipeline) { p.observer = obs }
}

func New(
	cal *calendar.Calendar,
	sampler *sampling.Sampler,
	registry *sampling.Registry,
	lifecycles *lifecycle.Generator,
	provider content.Provider,
	corpusStore store.CorpusStore,
	params Params,
	now time.Time,
	seed uint64,
	opts ...Option,
) (*Pipeline, error) {
	if cal == nil || sampler == nil || registry == nil || lifecycles == nil {
		return nil, fmt.Errorf("pipeline: missing engine dependency")
	}
	if provider == nil {
		return nil, fmt.Errorf("pipeline: missing content provider")
	}
	if corpusStore == nil {
		return nil, fmt.Errorf("pipeline: missing store")
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p := &Pipeline{
		cal:        cal,
		sampler:    sampler,
		registry:   registry,
		lifecycles: lifecycles,
		provider:   provider,
		store:      corpusStore,
		params:     params,
		now:        now.UTC(),
		seed:       seed,
		logger:     slog.New(slog.DiscardHandler),
		observer:   noopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run generates and persists the full corpus, then reports stored counts.
func (p *Pipeline) Run(ctx context.Context) (store.Counts, error) {
	started := time.Now()

	if p.params.Scale.ParallelOrgs {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < p.params.Scale.Organizations; i++ {
			g.Go(func() error {
				return p.generateOrg(gctx, p.orgRand(i), i)
			})
		}
		if err := g.Wait(); err != nil {
			return store.Counts{}, err
		}
	} else {
		for i := 0; i < p.params.Scale.Organizations; i++ {
			if err := p.generateOrg(ctx, p.orgRand(i), i); err != nil {
				return store.Counts{}, err
			}
		}
	}

	corpus, err := p.store.Snapshot(ctx)
	if err != nil {
		return store.Counts{}, fmt.Errorf("snapshot after generation: %w", err)
	}
	counts := store.CountsOf(corpus)
	elapsed := time.Since(started)
	p.observer.RunCompleted(elapsed)
	p.logger.Info("generation finished",
		"organizations", counts.Organizations,
		"tasks", counts.Tasks,
		"elapsed", elapsed,
	)
	return counts, nil
}

// orgRand derives an independent, reproducible stream per organization.
func (p *Pipeline) orgRand(orgIndex int) *rand.Rand {
	return rand.New(rand.NewPCG(p.seed, uint64(orgIndex)))
}

func (p *Pipeline) generateOrg(ctx context.Context, rng *rand.Rand, orgIndex int) error {
	org, err := p.buildOrganization(ctx, rng)
	if err != nil {
		return err
	}

	var (
		teams       []domain.Team
		users       []domain.User
		memberships []domain.TeamMembership
		projects    []domain.Project
		sections    []domain.Section
		tasks       []domain.Task
		subtasks    []domain.Subtask
		comments    []domain.Comment
	)

	teamCount := p.drawRange(rng, p.params.Scale.TeamsPerOrg)
	for t := 0; t < teamCount; t++ {
		team := p.buildTeam(rng, org, t)
		teams = append(teams, team)

		teamUsers, err := p.buildUsers(ctx, rng, org, team, len(users))
		if err != nil {
			return err
		}
		users = append(users, teamUsers...)
		for i, u := range teamUsers {
			role := "member"
			if i == 0 {
				role = "lead"
			}
			memberships = append(memberships, domain.TeamMembership{
				TeamID: team.ID,
				UserID: u.ID,
				Role:   role,
			})
		}

		projectCount := p.drawRange(rng, p.params.Scale.ProjectsPerTeam)
		for range projectCount {
			project, err := p.buildProject(ctx, rng, team)
			if err != nil {
				return err
			}
			projects = append(projects, project)

			projectSections := p.buildSections(rng, project)
			sections = append(sections, projectSections...)

			for _, section := range projectSections {
				taskCount := p.drawRange(rng, p.params.Scale.TasksPerSection)
				for range taskCount {
					task, err := p.buildTask(ctx, rng, project, section, teamUsers)
					if err != nil {
						return err
					}
					tasks = append(tasks, task)

					taskSubs := p.buildSubtasks(ctx, rng, task)
					subtasks = append(subtasks, taskSubs...)

					taskComments, err := p.buildComments(ctx, rng, project, task, teamUsers)
					if err != nil {
						return err
					}
					comments = append(comments, taskComments...)
				}
			}
		}
	}

	tags, err := p.buildTags(ctx, rng, org)
	if err != nil {
		return err
	}
	taskTags := p.buildTaskTags(rng, tasks, tags)

	fieldDefs := p.buildFieldDefinitions(rng, org, teams)
	fieldValues := p.buildFieldValues(rng, projects, tasks, fieldDefs)

	if err := p.persistOrg(ctx, org, teams, users, memberships, projects, sections, tasks, subtasks, comments, tags, taskTags, fieldDefs, fieldValues); err != nil {
		return err
	}

	p.logger.Debug("organization generated",
		"org", org.Name,
		"index", orgIndex,
		"teams", len(teams),
		"tasks", len(tasks),
	)
	return nil
}

func (p *Pipeline) persistOrg(
	ctx context.Context,
	org domain.Organization,
	teams []domain.Team,
	users []domain.User,
	memberships []domain.TeamMembership,
	projects []domain.Project,
	sections []domain.Section,
	tasks []domain.Task,
	subtasks []domain.Subtask,
	comments []domain.Comment,
	tags []domain.Tag,
	taskTags []domain.TaskTag,
	fieldDefs []domain.FieldDefinition,
	fieldValues []domain.FieldValue,
) error {
	steps := []struct {
		entity string
		count  int
		save   func(context.Context) error
	}{
		{"organization", 1, func(ctx context.Context) error {
			return p.store.SaveOrganizations(ctx, []domain.Organization{org})
		}},
		{"team", len(teams), func(ctx context.Context) error { return p.store.SaveTeams(ctx, teams) }},
		{"user", len(users), func(ctx context.Context) error { return p.store.SaveUsers(ctx, users) }},
		{"membership", len(memberships), func(ctx context.Context) error { return p.store.SaveMemberships(ctx, memberships) }},
		{"project", len(projects), func(ctx context.Context) error { return p.store.SaveProjects(ctx, projects) }},
		{"section", len(sections), func(ctx context.Context) error { return p.store.SaveSections(ctx, sections) }},
		{"task", len(tasks), func(ctx context.Context) error { return p.store.SaveTasks(ctx, tasks) }},
		{"subtask", len(subtasks), func(ctx context.Context) error { return p.store.SaveSubtasks(ctx, subtasks) }},
		{"comment", len(comments), func(ctx context.Context) error { return p.store.SaveComments(ctx, comments) }},
		{"tag", len(tags), func(ctx context.Context) error { return p.store.SaveTags(ctx, tags) }},
		{"task_tag", len(taskTags), func(ctx context.Context) error { return p.store.SaveTaskTags(ctx, taskTags) }},
		{"field_definition", len(fieldDefs), func(ctx context.Context) error { return p.store.SaveFieldDefinitions(ctx, fieldDefs) }},
		{"field_value", len(fieldValues), func(ctx context.Context) error { return p.store.SaveFieldValues(ctx, fieldValues) }},
	}
	for _, step := range steps {
		if err := step.save(ctx); err != nil {
			return fmt.Errorf("persist %s batch: %w", step.entity, err)
		}
		p.observer.Generated(step.entity, step.count)
	}
	return nil
}

func (p *Pipeline) buildOrganization(ctx context.Context, rng *rand.Rand) (domain.Organization, error) {
	name, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindCompanyName})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("organization name: %w", err)
	}
	// Organizations predate the activity window by six months to a year
	// and a half.
	age := p.params.HistoryDays + 180 + rng.IntN(365)
	return domain.Organization{
		ID:        uuid.New(),
		Name:      name,
		Domain:    emailDomain(name),
		CreatedAt: p.now.AddDate(0, 0, -age),
	}, nil
}

var teamNameQualifiers = []string{"Core", "Platform", "Growth", "Delivery", "Enablement", "Foundations"}

func (p *Pipeline) buildTeam(rng *rand.Rand, org domain.Organization, index int) domain.Team {
	department := p.params.Departments[index%len(p.params.Departments)]
	qualifier := teamNameQualifiers[rng.IntN(len(teamNameQualifiers))]
	created := org.CreatedAt.AddDate(0, 0, rng.IntN(60))
	return domain.Team{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Name:           fmt.Sprintf("%s %s", titleWords(department), qualifier),
		Department:     department,
		CreatedAt:      created,
	}
}

func (p *Pipeline) buildUsers(ctx context.Context, rng *rand.Rand, org domain.Organization, team domain.Team, offset int) ([]domain.User, error) {
	count := p.drawRange(rng, p.params.Scale.UsersPerTeam)
	users := make([]domain.User, 0, count)
	for i := 0; i < count; i++ {
		name, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindPersonName})
		if err != nil {
			return nil, fmt.Errorf("user name: %w", err)
		}
		role := "member"
		if i == 0 {
			role = "manager"
		}
		users = append(users, domain.User{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			Name:           name,
			Email:          emailFor(name, offset+i, org.Domain),
			Role:           role,
			Department:     team.Department,
			CreatedAt:      team.CreatedAt.AddDate(0, 0, rng.IntN(90)),
		})
	}
	return users, nil
}

func (p *Pipeline) buildProject(ctx context.Context, rng *rand.Rand, team domain.Team) (domain.Project, error) {
	types := p.params.typesFor(team.Department)
	workItemType := types[rng.IntN(len(types))]
	seg := domain.NewSegment(team.Department, workItemType)

	name, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindProjectName, Segment: seg})
	if err != nil {
		return domain.Project{}, fmt.Errorf("project name: %w", err)
	}

	historyStart := p.now.AddDate(0, 0, -p.params.HistoryDays)
	day := p.cal.RandomBusinessDayIn(rng, historyStart, p.now)
	created := p.lifecycles.PlaceActivity(rng, day, seg, lifecycle.ActivityCreation)
	if created.After(p.now) {
		created = p.now
	}

	project := domain.Project{
		ID:           uuid.New(),
		TeamID:       team.ID,
		Name:         name,
		Department:   team.Department,
		WorkItemType: workItemType,
		Status:       domain.ProjectActive,
		StartDate:    created,
		CreatedAt:    created,
	}

	switch draw := rng.Float64(); {
	case draw < 0.15:
		project.Status = domain.ProjectCompleted
		end := p.between(rng, created, p.now)
		project.EndDate = &end
	case draw < 0.22:
		project.Status = domain.ProjectArchived
	}
	return project, nil
}

func (p *Pipeline) buildSections(rng *rand.Rand, project domain.Project) []domain.Section {
	count := p.drawRange(rng, p.params.Scale.SectionsPerProject)
	if count > len(p.params.SectionNames) {
		count = len(p.params.SectionNames)
	}
	sections := make([]domain.Section, 0, count)
	for i := 0; i < count; i++ {
		sections = append(sections, domain.Section{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Name:      p.params.SectionNames[i],
			Position:  i,
		})
	}
	return sections
}

var priorityScale = []domain.Priority{
	domain.PriorityHigh,
	domain.PriorityMedium,
	domain.PriorityLow,
	domain.PriorityNone,
}

func (p *Pipeline) buildTask(ctx context.Context, rng *rand.Rand, project domain.Project, section domain.Section, teamUsers []domain.User) (domain.Task, error) {
	seg := project.Segment()

	name, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindTaskName, Segment: seg})
	if err != nil {
		return domain.Task{}, fmt.Errorf("task name: %w", err)
	}
	description, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindTaskDescription, Segment: seg})
	if err != nil {
		return domain.Task{}, fmt.Errorf("task description: %w", err)
	}

	day := p.cal.RandomBusinessDayIn(rng, project.CreatedAt, p.now)
	created := p.lifecycles.PlaceActivity(rng, day, seg, lifecycle.ActivityCreation)
	if created.Before(project.CreatedAt) {
		created = project.CreatedAt
	}
	if created.After(p.now) {
		created = p.now
	}

	due := p.drawDueDate(rng, project.WorkItemType, created)
	record := p.lifecycles.Generate(rng, domain.WorkItemContext{
		Segment:   seg,
		CreatedAt: created,
		DueDate:   due,
	})

	var assignee *uuid.UUID
	if rng.Float64() >= p.params.unassignedRate(project.WorkItemType) && len(teamUsers) > 0 {
		id := teamUsers[rng.IntN(len(teamUsers))].ID
		assignee = &id
	}

	return domain.Task{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		SectionID:   section.ID,
		AssigneeID:  assignee,
		Name:        name,
		Description: description,
		Priority:    p.drawPriority(rng, seg),
		Lifecycle:   record,
	}, nil
}

func (p *Pipeline) drawPriority(rng *rand.Rand, seg domain.Segment) domain.Priority {
	spec := p.registry.Resolve(seg, "priority", sampling.ValueEnum)
	v := p.sampler.Sample(rng, spec)
	idx := clampInt(int(math.Round(v)), 0, len(priorityScale)-1)
	return priorityScale[idx]
}

// drawDueDate picks a weighted day window and lands the deadline on a
// business day at end of office hours.
func (p *Pipeline) drawDueDate(rng *rand.Rand, workItemType string, created time.Time) *time.Time {
	bands := p.params.dueBands(workItemType)
	if len(bands) == 0 {
		return nil
	}
	draw := rng.Float64()
	var cumulative float64
	band := bands[len(bands)-1]
	for _, b := range bands {
		cumulative += b.Probability
		if draw < cumulative {
			band = b
			break
		}
	}
	if band.MaxDays == 0 {
		return nil
	}
	days := band.MinDays + rng.IntN(band.MaxDays-band.MinDays+1)
	day := created.AddDate(0, 0, days)
	if !p.cal.IsBusinessDay(day) {
		day = p.cal.NextBusinessDay(day)
	}
	due := time.Date(day.Year(), day.Month(), day.Day(), 17, 0, 0, 0, time.UTC)
	return &due
}

func (p *Pipeline) buildSubtasks(ctx context.Context, rng *rand.Rand, task domain.Task) []domain.Subtask {
	if rng.Float64() >= p.params.SubtaskRate {
		return nil
	}
	spec := p.registry.Resolve(domain.Segment{}, "subtask_count", sampling.ValueNumber)
	count := clampInt(int(math.Round(p.sampler.Sample(rng, spec))), 1, 5)

	upper := p.now
	if task.Lifecycle.CompletedAt != nil {
		upper = *task.Lifecycle.CompletedAt
	}

	subtasks := make([]domain.Subtask, 0, count)
	for i := 0; i < count; i++ {
		created := p.between(rng, task.Lifecycle.CreatedAt, upper)
		sub := domain.Subtask{
			ID:         uuid.New(),
			TaskID:     task.ID,
			AssigneeID: task.AssigneeID,
			Name:       fmt.Sprintf("%s (part %d)", task.Name, i+1),
			CreatedAt:  created,
		}
		if task.Completed() && rng.Float64() < p.params.SubtaskCompletionRate {
			completed := p.between(rng, created, *task.Lifecycle.CompletedAt)
			sub.CompletedAt = &completed
		}
		subtasks = append(subtasks, sub)
	}
	return subtasks
}

func (p *Pipeline) buildComments(ctx context.Context, rng *rand.Rand, project domain.Project, task domain.Task, teamUsers []domain.User) ([]domain.Comment, error) {
	if len(teamUsers) == 0 {
		return nil, nil
	}
	spec := p.registry.Resolve(domain.Segment{}, "comment_count", sampling.ValueNumber)
	count := clampInt(int(math.Round(p.sampler.Sample(rng, spec))), 0, 8)
	if count == 0 {
		return nil, nil
	}

	upper := p.now
	if task.Lifecycle.CompletedAt != nil {
		upper = *task.Lifecycle.CompletedAt
	}

	comments := make([]domain.Comment, 0, count)
	for i := 0; i < count; i++ {
		body, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindComment, Segment: project.Segment()})
		if err != nil {
			return nil, fmt.Errorf("comment body: %w", err)
		}
		at := p.between(rng, task.Lifecycle.CreatedAt, upper)
		at = p.lifecycles.PlaceActivity(rng, at, project.Segment(), lifecycle.ActivityComment)
		// Business-day relocation can overshoot the task's own window.
		if at.After(upper) {
			at = upper
		}
		if at.Before(task.Lifecycle.CreatedAt) {
			at = task.Lifecycle.CreatedAt
		}
		comments = append(comments, domain.Comment{
			ID:        uuid.New(),
			TaskID:    task.ID,
			AuthorID:  teamUsers[rng.IntN(len(teamUsers))].ID,
			Body:      body,
			CreatedAt: at,
		})
	}
	return comments, nil
}

var tagColors = []string{"red", "orange", "yellow", "green", "teal", "blue", "purple", "pink", "gray"}

func (p *Pipeline) buildTags(ctx context.Context, rng *rand.Rand, org domain.Organization) ([]domain.Tag, error) {
	count := p.drawRange(rng, p.params.Scale.TagsPerOrg)
	colors := p.params.TagColors
	if len(colors) == 0 {
		colors = tagColors
	}

	// The tag vocabulary is finite, so bound the duplicate retries instead
	// of insisting on the full count.
	seen := make(map[string]struct{}, count)
	tags := make([]domain.Tag, 0, count)
	for attempts := 0; len(tags) < count && attempts < 4*count; attempts++ {
		name, err := p.provider.Generate(ctx, rng, content.Request{Kind: content.KindTagName})
		if err != nil {
			return nil, fmt.Errorf("tag name: %w", err)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, domain.Tag{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			Name:           name,
			Color:          colors[len(tags)%len(colors)],
		})
	}
	return tags, nil
}

func (p *Pipeline) buildTaskTags(rng *rand.Rand, tasks []domain.Task, tags []domain.Tag) []domain.TaskTag {
	if len(tags) == 0 {
		return nil
	}
	var out []domain.TaskTag
	for _, task := range tasks {
		var count int
		switch draw := rng.Float64(); {
		case draw < 0.5:
			count = 0
		case draw < 0.8:
			count = 1
		default:
			count = 2
		}
		if count > len(tags) {
			count = len(tags)
		}
		used := make(map[int]struct{}, count)
		for len(used) < count {
			idx := rng.IntN(len(tags))
			if _, dup := used[idx]; dup {
				continue
			}
			used[idx] = struct{}{}
			out = append(out, domain.TaskTag{TaskID: task.ID, TagID: tags[idx].ID})
		}
	}
	return out
}

func (p *Pipeline) drawRange(rng *rand.Rand, r Range) int {
	if r.Max == r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// between returns a uniform instant in [start, end], second resolution.
func (p *Pipeline) between(rng *rand.Rand, start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	window := end.Sub(start)
	offset := time.Duration(rng.Float64() * float64(window))
	return start.Add(offset).Truncate(time.Second)
}

func emailDomain(company string) string {
	words := strings.Fields(strings.ToLower(company))
	return strings.Join(words, "-") + ".com"
}

func emailFor(name string, n int, domain string) string {
	words := strings.Fields(strings.ToLower(name))
	return fmt.Sprintf("%s.%d@%s", strings.Join(words, "."), n, domain)
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
