package store

import (
	"context"
	"sync"

	"seedforge/internal/domain"
)

// Memory keeps the corpus in process. It is the default backend for tests
// and for runs that only exist to be validated and thrown away.
type Memory struct {
	mu     sync.RWMutex
	corpus domain.Corpus
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveOrganizations(_ context.Context, orgs []domain.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Organizations = append(m.corpus.Organizations, orgs...)
	return nil
}

func (m *Memory) SaveTeams(_ context.Context, teams []domain.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Teams = append(m.corpus.Teams, teams...)
	return nil
}

func (m *Memory) SaveUsers(_ context.Context, users []domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Users = append(m.corpus.Users, users...)
	return nil
}

func (m *Memory) SaveMemberships(_ context.Context, memberships []domain.TeamMembership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Memberships = append(m.corpus.Memberships, memberships...)
	return nil
}

func (m *Memory) SaveProjects(_ context.Context, projects []domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Projects = append(m.corpus.Projects, projects...)
	return nil
}

func (m *Memory) SaveSections(_ context.Context, sections []domain.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Sections = append(m.corpus.Sections, sections...)
	return nil
}

func (m *Memory) SaveTasks(_ context.Context, tasks []domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Tasks = append(m.corpus.Tasks, tasks...)
	return nil
}

func (m *Memory) SaveSubtasks(_ context.Context, subtasks []domain.Subtask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Subtasks = append(m.corpus.Subtasks, subtasks...)
	return nil
}

func (m *Memory) SaveComments(_ context.Context, comments []domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Comments = append(m.corpus.Comments, comments...)
	return nil
}

func (m *Memory) SaveTags(_ context.Context, tags []domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Tags = append(m.corpus.Tags, tags...)
	return nil
}

func (m *Memory) SaveTaskTags(_ context.Context, taskTags []domain.TaskTag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.TaskTags = append(m.corpus.TaskTags, taskTags...)
	return nil
}

func (m *Memory) SaveFieldDefinitions(_ context.Context, defs []domain.FieldDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Fields = append(m.corpus.Fields, defs...)
	return nil
}

func (m *Memory) SaveFieldValues(_ context.Context, values []domain.FieldValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.FieldValues = append(m.corpus.FieldValues, values...)
	return nil
}

// Snapshot returns a shallow copy with fresh slices, so validation can run
// while another goroutine keeps writing.
func (m *Memory) Snapshot(_ context.Context) (*domain.Corpus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := domain.Corpus{
		Organizations: append([]domain.Organization(nil), m.corpus.Organizations...),
		Teams:         append([]domain.Team(nil), m.corpus.Teams...),
		Users:         append([]domain.User(nil), m.corpus.Users...),
		Memberships:   append([]domain.TeamMembership(nil), m.corpus.Memberships...),
		Projects:      append([]domain.Project(nil), m.corpus.Projects...),
		Sections:      append([]domain.Section(nil), m.corpus.Sections...),
		Tasks:         append([]domain.Task(nil), m.corpus.Tasks...),
		Subtasks:      append([]domain.Subtask(nil), m.corpus.Subtasks...),
		Comments:      append([]domain.Comment(nil), m.corpus.Comments...),
		Tags:          append([]domain.Tag(nil), m.corpus.Tags...),
		TaskTags:      append([]domain.TaskTag(nil), m.corpus.TaskTags...),
		Fields:        append([]domain.FieldDefinition(nil), m.corpus.Fields...),
		FieldValues:   append([]domain.FieldValue(nil), m.corpus.FieldValues...),
	}
	return &c, nil
}

func (m *Memory) Close() error { return nil }
