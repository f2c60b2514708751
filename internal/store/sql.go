package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seedforge/internal/domain"
)

// sqlStore implements CorpusStore over database/sql. The two SQL backends
// share all statements; the bind hook rewrites placeholders for drivers that
// do not accept "?".
type sqlStore struct {
	db   *sql.DB
	bind func(string) string
}

func (s *sqlStore) Close() error { return s.db.Close() }

// saveBatch inserts n rows in one transaction through a prepared statement.
func (s *sqlStore) saveBatch(ctx context.Context, label, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: begin: %w", label, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.bind(query))
	if err != nil {
		return fmt.Errorf("save %s: prepare: %w", label, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("save %s: row %d: %w", label, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: commit: %w", label, err)
	}
	return nil
}

func (s *sqlStore) SaveOrganizations(ctx context.Context, orgs []domain.Organization) error {
	const q = `INSERT INTO organizations (id, name, domain, created_at) VALUES (?, ?, ?, ?)`
	return s.saveBatch(ctx, "organizations", q, len(orgs), func(i int) []any {
		o := orgs[i]
		return []any{o.ID.String(), o.Name, o.Domain, o.CreatedAt.UTC()}
	})
}

func (s *sqlStore) SaveTeams(ctx context.Context, teams []domain.Team) error {
	const q = `INSERT INTO teams (id, organization_id, name, department, created_at) VALUES (?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "teams", q, len(teams), func(i int) []any {
		t := teams[i]
		return []any{t.ID.String(), t.OrganizationID.String(), t.Name, t.Department, t.CreatedAt.UTC()}
	})
}

func (s *sqlStore) SaveUsers(ctx context.Context, users []domain.User) error {
	const q = `INSERT INTO users (id, organization_id, name, email, role, department, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "users", q, len(users), func(i int) []any {
		u := users[i]
		return []any{u.ID.String(), u.OrganizationID.String(), u.Name, u.Email, u.Role, u.Department, u.CreatedAt.UTC()}
	})
}

func (s *sqlStore) SaveMemberships(ctx context.Context, memberships []domain.TeamMembership) error {
	const q = `INSERT INTO team_memberships (team_id, user_id, role) VALUES (?, ?, ?)`
	return s.saveBatch(ctx, "team_memberships", q, len(memberships), func(i int) []any {
		m := memberships[i]
		return []any{m.TeamID.String(), m.UserID.String(), m.Role}
	})
}

func (s *sqlStore) SaveProjects(ctx context.Context, projects []domain.Project) error {
	const q = `INSERT INTO projects (id, team_id, name, department, work_item_type, status, start_date, end_date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "projects", q, len(projects), func(i int) []any {
		p := projects[i]
		return []any{
			p.ID.String(), p.TeamID.String(), p.Name, p.Department, p.WorkItemType,
			string(p.Status), p.StartDate.UTC(), nullTime(p.EndDate), p.CreatedAt.UTC(),
		}
	})
}

func (s *sqlStore) SaveSections(ctx context.Context, sections []domain.Section) error {
	const q = `INSERT INTO sections (id, project_id, name, position) VALUES (?, ?, ?, ?)`
	return s.saveBatch(ctx, "sections", q, len(sections), func(i int) []any {
		sec := sections[i]
		return []any{sec.ID.String(), sec.ProjectID.String(), sec.Name, sec.Position}
	})
}

func (s *sqlStore) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	const q = `INSERT INTO tasks (id, project_id, section_id, assignee_id, name, description, priority,
created_at, started_at, completed_at, due_date, cycle_time_days, lead_time_days)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "tasks", q, len(tasks), func(i int) []any {
		t := tasks[i]
		return []any{
			t.ID.String(), t.ProjectID.String(), t.SectionID.String(), nullUUID(t.AssigneeID),
			t.Name, t.Description, string(t.Priority),
			t.Lifecycle.CreatedAt.UTC(), nullTime(t.Lifecycle.StartedAt), nullTime(t.Lifecycle.CompletedAt),
			nullTime(t.Lifecycle.DueDate), nullFloat(t.Lifecycle.CycleTimeDays), nullFloat(t.Lifecycle.LeadTimeDays),
		}
	})
}

func (s *sqlStore) SaveSubtasks(ctx context.Context, subtasks []domain.Subtask) error {
	const q = `INSERT INTO subtasks (id, task_id, assignee_id, name, created_at, completed_at) VALUES (?, ?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "subtasks", q, len(subtasks), func(i int) []any {
		st := subtasks[i]
		return []any{st.ID.String(), st.TaskID.String(), nullUUID(st.AssigneeID), st.Name, st.CreatedAt.UTC(), nullTime(st.CompletedAt)}
	})
}

func (s *sqlStore) SaveComments(ctx context.Context, comments []domain.Comment) error {
	const q = `INSERT INTO comments (id, task_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "comments", q, len(comments), func(i int) []any {
		c := comments[i]
		return []any{c.ID.String(), c.TaskID.String(), c.AuthorID.String(), c.Body, c.CreatedAt.UTC()}
	})
}

func (s *sqlStore) SaveTags(ctx context.Context, tags []domain.Tag) error {
	const q = `INSERT INTO tags (id, organization_id, name, color) VALUES (?, ?, ?, ?)`
	return s.saveBatch(ctx, "tags", q, len(tags), func(i int) []any {
		t := tags[i]
		return []any{t.ID.String(), t.OrganizationID.String(), t.Name, t.Color}
	})
}

func (s *sqlStore) SaveTaskTags(ctx context.Context, taskTags []domain.TaskTag) error {
	const q = `INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)`
	return s.saveBatch(ctx, "task_tags", q, len(taskTags), func(i int) []any {
		tt := taskTags[i]
		return []any{tt.TaskID.String(), tt.TagID.String()}
	})
}

func (s *sqlStore) SaveFieldDefinitions(ctx context.Context, defs []domain.FieldDefinition) error {
	const q = `INSERT INTO field_definitions (id, organization_id, name, kind, options, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "field_definitions", q, len(defs), func(i int) []any {
		d := defs[i]
		return []any{d.ID.String(), d.OrganizationID.String(), d.Name, string(d.Kind), encodeOptions(d.Options), d.CreatedAt.UTC()}
	})
}

func (s *sqlStore) SaveFieldValues(ctx context.Context, values []domain.FieldValue) error {
	const q = `INSERT INTO field_values (id, definition_id, task_id, value_text, value_number, value_date, value_boolean, value_option, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return s.saveBatch(ctx, "field_values", q, len(values), func(i int) []any {
		v := values[i]
		return []any{
			v.ID.String(), v.DefinitionID.String(), v.TaskID.String(),
			nullString(v.Text), nullFloat(v.Number), nullTime(v.Date), nullBool(v.Boolean), nullString(v.Option),
			v.CreatedAt.UTC(),
		}
	})
}

func (s *sqlStore) Snapshot(ctx context.Context) (*domain.Corpus, error) {
	c := &domain.Corpus{}
	if err := s.loadOrganizations(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadTeams(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadUsers(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadMemberships(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadProjects(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadSections(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadTasks(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadSubtasks(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadTaskTags(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadFieldDefinitions(ctx, c); err != nil {
		return nil, err
	}
	if err := s.loadFieldValues(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *sqlStore) loadOrganizations(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, domain, created_at FROM organizations ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load organizations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			o  domain.Organization
			id string
		)
		if err := rows.Scan(&id, &o.Name, &o.Domain, &o.CreatedAt); err != nil {
			return fmt.Errorf("scan organization: %w", err)
		}
		if o.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("organization id %q: %w", id, err)
		}
		c.Organizations = append(c.Organizations, o)
	}
	return rows.Err()
}

func (s *sqlStore) loadTeams(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, organization_id, name, department, created_at FROM teams ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t          domain.Team
			id, orgID  string
		)
		if err := rows.Scan(&id, &orgID, &t.Name, &t.Department, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan team: %w", err)
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("team id %q: %w", id, err)
		}
		if t.OrganizationID, err = uuid.Parse(orgID); err != nil {
			return fmt.Errorf("team organization id %q: %w", orgID, err)
		}
		c.Teams = append(c.Teams, t)
	}
	return rows.Err()
}

func (s *sqlStore) loadUsers(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, organization_id, name, email, role, department, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			u         domain.User
			id, orgID string
		)
		if err := rows.Scan(&id, &orgID, &u.Name, &u.Email, &u.Role, &u.Department, &u.CreatedAt); err != nil {
			return fmt.Errorf("scan user: %w", err)
		}
		if u.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("user id %q: %w", id, err)
		}
		if u.OrganizationID, err = uuid.Parse(orgID); err != nil {
			return fmt.Errorf("user organization id %q: %w", orgID, err)
		}
		c.Users = append(c.Users, u)
	}
	return rows.Err()
}

func (s *sqlStore) loadMemberships(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT team_id, user_id, role FROM team_memberships ORDER BY team_id, user_id`)
	if err != nil {
		return fmt.Errorf("load memberships: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			m              domain.TeamMembership
			teamID, userID string
		)
		if err := rows.Scan(&teamID, &userID, &m.Role); err != nil {
			return fmt.Errorf("scan membership: %w", err)
		}
		if m.TeamID, err = uuid.Parse(teamID); err != nil {
			return fmt.Errorf("membership team id %q: %w", teamID, err)
		}
		if m.UserID, err = uuid.Parse(userID); err != nil {
			return fmt.Errorf("membership user id %q: %w", userID, err)
		}
		c.Memberships = append(c.Memberships, m)
	}
	return rows.Err()
}

func (s *sqlStore) loadProjects(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, team_id, name, department, work_item_type, status, start_date, end_date, created_at FROM projects ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p          domain.Project
			id, teamID string
			status     string
			endDate    sql.NullTime
		)
		if err := rows.Scan(&id, &teamID, &p.Name, &p.Department, &p.WorkItemType, &status, &p.StartDate, &endDate, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan project: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("project id %q: %w", id, err)
		}
		if p.TeamID, err = uuid.Parse(teamID); err != nil {
			return fmt.Errorf("project team id %q: %w", teamID, err)
		}
		p.Status = domain.ProjectStatus(status)
		p.EndDate = timePtr(endDate)
		c.Projects = append(c.Projects, p)
	}
	return rows.Err()
}

func (s *sqlStore) loadSections(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, name, position FROM sections ORDER BY project_id, position`)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			sec           domain.Section
			id, projectID string
		)
		if err := rows.Scan(&id, &projectID, &sec.Name, &sec.Position); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		if sec.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("section id %q: %w", id, err)
		}
		if sec.ProjectID, err = uuid.Parse(projectID); err != nil {
			return fmt.Errorf("section project id %q: %w", projectID, err)
		}
		c.Sections = append(c.Sections, sec)
	}
	return rows.Err()
}

func (s *sqlStore) loadTasks(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, section_id, assignee_id, name, description, priority,
created_at, started_at, completed_at, due_date, cycle_time_days, lead_time_days FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t                     domain.Task
			id, projID, sectID    string
			assignee              sql.NullString
			priority              string
			started, completed    sql.NullTime
			due                   sql.NullTime
			cycleDays, leadDays   sql.NullFloat64
		)
		if err := rows.Scan(&id, &projID, &sectID, &assignee, &t.Name, &t.Description, &priority,
			&t.Lifecycle.CreatedAt, &started, &completed, &due, &cycleDays, &leadDays); err != nil {
			return fmt.Errorf("scan task: %w", err)
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("task id %q: %w", id, err)
		}
		if t.ProjectID, err = uuid.Parse(projID); err != nil {
			return fmt.Errorf("task project id %q: %w", projID, err)
		}
		if t.SectionID, err = uuid.Parse(sectID); err != nil {
			return fmt.Errorf("task section id %q: %w", sectID, err)
		}
		if t.AssigneeID, err = uuidPtr(assignee); err != nil {
			return fmt.Errorf("task assignee id: %w", err)
		}
		t.Priority = domain.Priority(priority)
		t.Lifecycle.StartedAt = timePtr(started)
		t.Lifecycle.CompletedAt = timePtr(completed)
		t.Lifecycle.DueDate = timePtr(due)
		t.Lifecycle.CycleTimeDays = floatPtr(cycleDays)
		t.Lifecycle.LeadTimeDays = floatPtr(leadDays)
		c.Tasks = append(c.Tasks, t)
	}
	return rows.Err()
}

func (s *sqlStore) loadSubtasks(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, assignee_id, name, created_at, completed_at FROM subtasks ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load subtasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			st         domain.Subtask
			id, taskID string
			assignee   sql.NullString
			completed  sql.NullTime
		)
		if err := rows.Scan(&id, &taskID, &assignee, &st.Name, &st.CreatedAt, &completed); err != nil {
			return fmt.Errorf("scan subtask: %w", err)
		}
		if st.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("subtask id %q: %w", id, err)
		}
		if st.TaskID, err = uuid.Parse(taskID); err != nil {
			return fmt.Errorf("subtask task id %q: %w", taskID, err)
		}
		if st.AssigneeID, err = uuidPtr(assignee); err != nil {
			return fmt.Errorf("subtask assignee id: %w", err)
		}
		st.CompletedAt = timePtr(completed)
		c.Subtasks = append(c.Subtasks, st)
	}
	return rows.Err()
}

func (s *sqlStore) loadComments(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, author_id, body, created_at FROM comments ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cm                 domain.Comment
			id, taskID, author string
		)
		if err := rows.Scan(&id, &taskID, &author, &cm.Body, &cm.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		if cm.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("comment id %q: %w", id, err)
		}
		if cm.TaskID, err = uuid.Parse(taskID); err != nil {
			return fmt.Errorf("comment task id %q: %w", taskID, err)
		}
		if cm.AuthorID, err = uuid.Parse(author); err != nil {
			return fmt.Errorf("comment author id %q: %w", author, err)
		}
		c.Comments = append(c.Comments, cm)
	}
	return rows.Err()
}

func (s *sqlStore) loadTags(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, organization_id, name, color FROM tags ORDER BY name, id`)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tg        domain.Tag
			id, orgID string
		)
		if err := rows.Scan(&id, &orgID, &tg.Name, &tg.Color); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if tg.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("tag id %q: %w", id, err)
		}
		if tg.OrganizationID, err = uuid.Parse(orgID); err != nil {
			return fmt.Errorf("tag organization id %q: %w", orgID, err)
		}
		c.Tags = append(c.Tags, tg)
	}
	return rows.Err()
}

func (s *sqlStore) loadTaskTags(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT task_id, tag_id FROM task_tags ORDER BY task_id, tag_id`)
	if err != nil {
		return fmt.Errorf("load task tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tt            domain.TaskTag
			taskID, tagID string
		)
		if err := rows.Scan(&taskID, &tagID); err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}
		if tt.TaskID, err = uuid.Parse(taskID); err != nil {
			return fmt.Errorf("task tag task id %q: %w", taskID, err)
		}
		if tt.TagID, err = uuid.Parse(tagID); err != nil {
			return fmt.Errorf("task tag tag id %q: %w", tagID, err)
		}
		c.TaskTags = append(c.TaskTags, tt)
	}
	return rows.Err()
}

func (s *sqlStore) loadFieldDefinitions(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, organization_id, name, kind, options, created_at FROM field_definitions ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load field definitions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			d         domain.FieldDefinition
			id, orgID string
			kind      string
			options   sql.NullString
		)
		if err := rows.Scan(&id, &orgID, &d.Name, &kind, &options, &d.CreatedAt); err != nil {
			return fmt.Errorf("scan field definition: %w", err)
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("field definition id %q: %w", id, err)
		}
		if d.OrganizationID, err = uuid.Parse(orgID); err != nil {
			return fmt.Errorf("field definition organization id %q: %w", orgID, err)
		}
		d.Kind = domain.FieldKind(kind)
		if d.Options, err = decodeOptions(options); err != nil {
			return fmt.Errorf("field definition %q options: %w", d.Name, err)
		}
		c.Fields = append(c.Fields, d)
	}
	return rows.Err()
}

func (s *sqlStore) loadFieldValues(ctx context.Context, c *domain.Corpus) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, definition_id, task_id, value_text, value_number, value_date, value_boolean, value_option, created_at
FROM field_values ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load field values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			v                 domain.FieldValue
			id, defID, taskID string
			text, option      sql.NullString
			number            sql.NullFloat64
			date              sql.NullTime
			boolean           sql.NullBool
		)
		if err := rows.Scan(&id, &defID, &taskID, &text, &number, &date, &boolean, &option, &v.CreatedAt); err != nil {
			return fmt.Errorf("scan field value: %w", err)
		}
		if v.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("field value id %q: %w", id, err)
		}
		if v.DefinitionID, err = uuid.Parse(defID); err != nil {
			return fmt.Errorf("field value definition id %q: %w", defID, err)
		}
		if v.TaskID, err = uuid.Parse(taskID); err != nil {
			return fmt.Errorf("field value task id %q: %w", taskID, err)
		}
		v.Text = stringPtr(text)
		v.Number = floatPtr(number)
		v.Date = timePtr(date)
		v.Boolean = boolPtr(boolean)
		v.Option = stringPtr(option)
		c.FieldValues = append(c.FieldValues, v)
	}
	return rows.Err()
}

// encodeOptions stores an option list as a JSON array, NULL when empty.
func encodeOptions(options []string) any {
	if len(options) == 0 {
		return nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil
	}
	return string(raw)
}

func decodeOptions(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal([]byte(s.String), &options); err != nil {
		return nil, err
	}
	return options, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func uuidPtr(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
