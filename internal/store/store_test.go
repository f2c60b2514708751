package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"seedforge/internal/domain"
)

// fixtureCorpus builds one fully linked chain of every entity type.
func fixtureCorpus() *domain.Corpus {
	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

	org := domain.Organization{ID: uuid.New(), Name: "Acme Robotics", Domain: "acmerobotics.example", CreatedAt: now.AddDate(0, -6, 0)}
	team := domain.Team{ID: uuid.New(), OrganizationID: org.ID, Name: "Platform", Department: "engineering", CreatedAt: org.CreatedAt.AddDate(0, 0, 3)}
	user := domain.User{ID: uuid.New(), OrganizationID: org.ID, Name: "Dana Hale", Email: "dana@acmerobotics.example", Role: "engineer", Department: "engineering", CreatedAt: org.CreatedAt.AddDate(0, 0, 5)}
	project := domain.Project{
		ID: uuid.New(), TeamID: team.ID, Name: "Sprint Board", Department: "engineering",
		WorkItemType: "sprint", Status: domain.ProjectActive,
		StartDate: now.AddDate(0, -2, 0), CreatedAt: now.AddDate(0, -2, 0),
	}
	section := domain.Section{ID: uuid.New(), ProjectID: project.ID, Name: "In Progress", Position: 1}

	created := now.AddDate(0, -1, 0)
	started := created.Add(3 * time.Hour)
	completed := created.Add(50 * time.Hour)
	due := created.AddDate(0, 0, 10)
	cycle := completed.Sub(started).Hours() / 24
	lead := completed.Sub(created).Hours() / 24
	task := domain.Task{
		ID: uuid.New(), ProjectID: project.ID, SectionID: section.ID, AssigneeID: &user.ID,
		Name: "Wire up board filters", Description: "Filter by assignee and tag.", Priority: domain.PriorityHigh,
		Lifecycle: domain.LifecycleRecord{
			CreatedAt: created, StartedAt: &started, CompletedAt: &completed, DueDate: &due,
			CycleTimeDays: &cycle, LeadTimeDays: &lead,
		},
	}
	openTask := domain.Task{
		ID: uuid.New(), ProjectID: project.ID, SectionID: section.ID,
		Name: "Investigate flaky export", Description: "", Priority: domain.PriorityNone,
		Lifecycle: domain.LifecycleRecord{CreatedAt: created.Add(24 * time.Hour)},
	}
	subtask := domain.Subtask{ID: uuid.New(), TaskID: task.ID, AssigneeID: &user.ID, Name: "Add filter query", CreatedAt: created.Add(time.Hour)}
	comment := domain.Comment{ID: uuid.New(), TaskID: task.ID, AuthorID: user.ID, Body: "Picking this up.", CreatedAt: started}
	tag := domain.Tag{ID: uuid.New(), OrganizationID: org.ID, Name: "frontend", Color: "#3b82f6"}

	severityField := domain.FieldDefinition{
		ID: uuid.New(), OrganizationID: org.ID, Name: "Bug Severity", Kind: domain.FieldEnum,
		Options: []string{"Blocker", "Critical", "Major", "Minor"}, CreatedAt: org.CreatedAt,
	}
	pointsField := domain.FieldDefinition{
		ID: uuid.New(), OrganizationID: org.ID, Name: "Story Points", Kind: domain.FieldNumber, CreatedAt: org.CreatedAt,
	}
	severity := "Major"
	points := 5.0
	severityValue := domain.FieldValue{
		ID: uuid.New(), DefinitionID: severityField.ID, TaskID: task.ID, Option: &severity, CreatedAt: created,
	}
	pointsValue := domain.FieldValue{
		ID: uuid.New(), DefinitionID: pointsField.ID, TaskID: task.ID, Number: &points, CreatedAt: created,
	}

	return &domain.Corpus{
		Organizations: []domain.Organization{org},
		Teams:         []domain.Team{team},
		Users:         []domain.User{user},
		Memberships:   []domain.TeamMembership{{TeamID: team.ID, UserID: user.ID, Role: "member"}},
		Projects:      []domain.Project{project},
		Sections:      []domain.Section{section},
		Tasks:         []domain.Task{task, openTask},
		Subtasks:      []domain.Subtask{subtask},
		Comments:      []domain.Comment{comment},
		Tags:          []domain.Tag{tag},
		TaskTags:      []domain.TaskTag{{TaskID: task.ID, TagID: tag.ID}},
		Fields:        []domain.FieldDefinition{severityField, pointsField},
		FieldValues:   []domain.FieldValue{severityValue, pointsValue},
	}
}

func saveAll(ctx context.Context, t *testing.T, s CorpusStore, c *domain.Corpus) {
	t.Helper()
	require.NoError(t, s.SaveOrganizations(ctx, c.Organizations))
	require.NoError(t, s.SaveTeams(ctx, c.Teams))
	require.NoError(t, s.SaveUsers(ctx, c.Users))
	require.NoError(t, s.SaveMemberships(ctx, c.Memberships))
	require.NoError(t, s.SaveProjects(ctx, c.Projects))
	require.NoError(t, s.SaveSections(ctx, c.Sections))
	require.NoError(t, s.SaveTasks(ctx, c.Tasks))
	require.NoError(t, s.SaveSubtasks(ctx, c.Subtasks))
	require.NoError(t, s.SaveComments(ctx, c.Comments))
	require.NoError(t, s.SaveTags(ctx, c.Tags))
	require.NoError(t, s.SaveTaskTags(ctx, c.TaskTags))
	require.NoError(t, s.SaveFieldDefinitions(ctx, c.Fields))
	require.NoError(t, s.SaveFieldValues(ctx, c.FieldValues))
}

type StoreSuite struct {
	suite.Suite
	open func(t *testing.T) CorpusStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{
		open: func(*testing.T) CorpusStore { return NewMemory() },
	})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{
		open: func(t *testing.T) CorpusStore {
			s, err := NewSQLite(":memory:")
			require.NoError(t, err)
			return s
		},
	})
}

func (s *StoreSuite) TestRoundTrip() {
	ctx := context.Background()
	st := s.open(s.T())
	defer st.Close()

	want := fixtureCorpus()
	saveAll(ctx, s.T(), st, want)

	got, err := st.Snapshot(ctx)
	s.Require().NoError(err)

	s.Len(got.Organizations, 1)
	s.Equal(want.Organizations[0].ID, got.Organizations[0].ID)
	s.Equal(want.Organizations[0].Name, got.Organizations[0].Name)
	s.WithinDuration(want.Organizations[0].CreatedAt, got.Organizations[0].CreatedAt, time.Second)

	s.Len(got.Teams, 1)
	s.Equal(want.Teams[0].OrganizationID, got.Teams[0].OrganizationID)
	s.Equal("engineering", got.Teams[0].Department)

	s.Len(got.Users, 1)
	s.Equal(want.Users[0].Email, got.Users[0].Email)

	s.Len(got.Memberships, 1)
	s.Equal(want.Memberships[0].UserID, got.Memberships[0].UserID)

	s.Require().Len(got.Projects, 1)
	s.Equal(domain.ProjectActive, got.Projects[0].Status)
	s.Nil(got.Projects[0].EndDate)
	s.Equal("engineering/sprint", got.Projects[0].Segment().String())

	s.Len(got.Sections, 1)

	s.Require().Len(got.Tasks, 2)
	byID := make(map[uuid.UUID]domain.Task)
	for _, task := range got.Tasks {
		byID[task.ID] = task
	}

	completedTask := byID[want.Tasks[0].ID]
	s.Require().NotNil(completedTask.AssigneeID)
	s.Equal(want.Users[0].ID, *completedTask.AssigneeID)
	s.Equal(domain.PriorityHigh, completedTask.Priority)
	s.Require().True(completedTask.Completed())
	s.WithinDuration(*want.Tasks[0].Lifecycle.CompletedAt, *completedTask.Lifecycle.CompletedAt, time.Second)
	s.Require().NotNil(completedTask.Lifecycle.CycleTimeDays)
	s.InDelta(*want.Tasks[0].Lifecycle.CycleTimeDays, *completedTask.Lifecycle.CycleTimeDays, 1e-9)

	openTask := byID[want.Tasks[1].ID]
	s.Nil(openTask.AssigneeID)
	s.False(openTask.Completed())
	s.Nil(openTask.Lifecycle.StartedAt)
	s.Nil(openTask.Lifecycle.DueDate)
	s.Nil(openTask.Lifecycle.LeadTimeDays)

	s.Len(got.Subtasks, 1)
	s.Nil(got.Subtasks[0].CompletedAt)
	s.Len(got.Comments, 1)
	s.Equal(want.Comments[0].Body, got.Comments[0].Body)
	s.Len(got.Tags, 1)
	s.Len(got.TaskTags, 1)

	s.Require().Len(got.Fields, 2)
	defByName := make(map[string]domain.FieldDefinition)
	for _, def := range got.Fields {
		defByName[def.Name] = def
	}
	s.Equal(domain.FieldEnum, defByName["Bug Severity"].Kind)
	s.Equal(want.Fields[0].Options, defByName["Bug Severity"].Options)
	s.Equal(domain.FieldNumber, defByName["Story Points"].Kind)
	s.Nil(defByName["Story Points"].Options)

	s.Require().Len(got.FieldValues, 2)
	valueByDef := make(map[uuid.UUID]domain.FieldValue)
	for _, fv := range got.FieldValues {
		valueByDef[fv.DefinitionID] = fv
	}
	enumValue := valueByDef[defByName["Bug Severity"].ID]
	s.Require().NotNil(enumValue.Option)
	s.Equal("Major", *enumValue.Option)
	s.Nil(enumValue.Number)
	s.Nil(enumValue.Boolean)
	numberValue := valueByDef[defByName["Story Points"].ID]
	s.Require().NotNil(numberValue.Number)
	s.InDelta(5.0, *numberValue.Number, 1e-9)
	s.Nil(numberValue.Text)
	s.Equal(want.Tasks[0].ID, numberValue.TaskID)
}

func (s *StoreSuite) TestEmptySnapshot() {
	st := s.open(s.T())
	defer st.Close()

	got, err := st.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Empty(got.Tasks)
	s.Equal(Counts{}, CountsOf(got))
}

func (s *StoreSuite) TestEmptyBatchIsNoop() {
	ctx := context.Background()
	st := s.open(s.T())
	defer st.Close()

	s.NoError(st.SaveTasks(ctx, nil))
	got, err := st.Snapshot(ctx)
	s.Require().NoError(err)
	s.Empty(got.Tasks)
}

func TestCountsOf(t *testing.T) {
	c := fixtureCorpus()
	counts := CountsOf(c)
	require.Equal(t, 2, counts.Tasks)
	require.Equal(t, 1, counts.Organizations)
	require.Equal(t, 1, counts.Comments)
	require.Equal(t, 2, counts.Fields)
	require.Equal(t, 2, counts.FieldValues)
}

func TestRebind(t *testing.T) {
	require.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind("INSERT INTO t (a, b) VALUES (?, ?)"))
	require.Equal(t, "SELECT 1", rebind("SELECT 1"))
}
