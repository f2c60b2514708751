package store

import (
	"context"

	"seedforge/internal/domain"
)

// CorpusStore is the persistence boundary. Generators hand over fully formed
// records, IDs included; the store only writes them out. Stores are
// interface-driven so the pipeline and the validators can run against
// in-memory, SQLite, or PostgreSQL backends without rewiring.
type CorpusStore interface {
	SaveOrganizations(ctx context.Context, orgs []domain.Organization) error
	SaveTeams(ctx context.Context, teams []domain.Team) error
	SaveUsers(ctx context.Context, users []domain.User) error
	SaveMemberships(ctx context.Context, memberships []domain.TeamMembership) error
	SaveProjects(ctx context.Context, projects []domain.Project) error
	SaveSections(ctx context.Context, sections []domain.Section) error
	SaveTasks(ctx context.Context, tasks []domain.Task) error
	SaveSubtasks(ctx context.Context, subtasks []domain.Subtask) error
	SaveComments(ctx context.Context, comments []domain.Comment) error
	SaveTags(ctx context.Context, tags []domain.Tag) error
	SaveTaskTags(ctx context.Context, taskTags []domain.TaskTag) error
	SaveFieldDefinitions(ctx context.Context, defs []domain.FieldDefinition) error
	SaveFieldValues(ctx context.Context, values []domain.FieldValue) error

	// Snapshot materializes the full corpus for validation.
	Snapshot(ctx context.Context) (*domain.Corpus, error)

	Close() error
}

// Counts summarizes a stored corpus, used for operator output after a run.
type Counts struct {
	Organizations int
	Teams         int
	Users         int
	Projects      int
	Sections      int
	Tasks         int
	Subtasks      int
	Comments      int
	Tags          int
	Fields        int
	FieldValues   int
}

// CountsOf derives counts from a snapshot.
func CountsOf(c *domain.Corpus) Counts {
	return Counts{
		Organizations: len(c.Organizations),
		Teams:         len(c.Teams),
		Users:         len(c.Users),
		Projects:      len(c.Projects),
		Sections:      len(c.Sections),
		Tasks:         len(c.Tasks),
		Subtasks:      len(c.Subtasks),
		Comments:      len(c.Comments),
		Tags:          len(c.Tags),
		Fields:        len(c.Fields),
		FieldValues:   len(c.FieldValues),
	}
}
