package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS organizations (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	domain     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS teams (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	department      TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	email           TEXT NOT NULL,
	role            TEXT NOT NULL,
	department      TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS team_memberships (
	team_id UUID NOT NULL REFERENCES teams(id),
	user_id UUID NOT NULL REFERENCES users(id),
	role    TEXT NOT NULL,
	PRIMARY KEY (team_id, user_id)
);
CREATE TABLE IF NOT EXISTS projects (
	id             UUID PRIMARY KEY,
	team_id        UUID NOT NULL REFERENCES teams(id),
	name           TEXT NOT NULL,
	department     TEXT NOT NULL,
	work_item_type TEXT NOT NULL,
	status         TEXT NOT NULL,
	start_date     TIMESTAMPTZ NOT NULL,
	end_date       TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS sections (
	id         UUID PRIMARY KEY,
	project_id UUID NOT NULL REFERENCES projects(id),
	name       TEXT NOT NULL,
	position   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id              UUID PRIMARY KEY,
	project_id      UUID NOT NULL REFERENCES projects(id),
	section_id      UUID NOT NULL REFERENCES sections(id),
	assignee_id     UUID REFERENCES users(id),
	name            TEXT NOT NULL,
	description     TEXT NOT NULL,
	priority        TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	started_at      TIMESTAMPTZ,
	completed_at    TIMESTAMPTZ,
	due_date        TIMESTAMPTZ,
	cycle_time_days DOUBLE PRECISION,
	lead_time_days  DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS subtasks (
	id           UUID PRIMARY KEY,
	task_id      UUID NOT NULL REFERENCES tasks(id),
	assignee_id  UUID REFERENCES users(id),
	name         TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS comments (
	id         UUID PRIMARY KEY,
	task_id    UUID NOT NULL REFERENCES tasks(id),
	author_id  UUID NOT NULL REFERENCES users(id),
	body       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	color           TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS task_tags (
	task_id UUID NOT NULL REFERENCES tasks(id),
	tag_id  UUID NOT NULL REFERENCES tags(id),
	PRIMARY KEY (task_id, tag_id)
);
CREATE TABLE IF NOT EXISTS field_definitions (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	kind            TEXT NOT NULL,
	options         TEXT,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS field_values (
	id            UUID PRIMARY KEY,
	definition_id UUID NOT NULL REFERENCES field_definitions(id),
	task_id       UUID NOT NULL REFERENCES tasks(id),
	value_text    TEXT,
	value_number  DOUBLE PRECISION,
	value_date    TIMESTAMPTZ,
	value_boolean BOOLEAN,
	value_option  TEXT,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// Postgres persists the corpus in PostgreSQL.
type Postgres struct {
	sqlStore
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{sqlStore{db: db, bind: rebind}}
}

// OpenPostgres dials the DSN and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// EnsureSchema creates the corpus tables when they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create postgres schema: %w", err)
	}
	return nil
}

// rebind rewrites "?" placeholders into the "$n" form lib/pq expects.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
