package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS organizations (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	domain     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS teams (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	department      TEXT NOT NULL,
	created_at      DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	email           TEXT NOT NULL,
	role            TEXT NOT NULL,
	department      TEXT NOT NULL,
	created_at      DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS team_memberships (
	team_id TEXT NOT NULL REFERENCES teams(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	role    TEXT NOT NULL,
	PRIMARY KEY (team_id, user_id)
);
CREATE TABLE IF NOT EXISTS projects (
	id             TEXT PRIMARY KEY,
	team_id        TEXT NOT NULL REFERENCES teams(id),
	name           TEXT NOT NULL,
	department     TEXT NOT NULL,
	work_item_type TEXT NOT NULL,
	status         TEXT NOT NULL,
	start_date     DATETIME NOT NULL,
	end_date       DATETIME,
	created_at     DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS sections (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id),
	name       TEXT NOT NULL,
	position   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	project_id      TEXT NOT NULL REFERENCES projects(id),
	section_id      TEXT NOT NULL REFERENCES sections(id),
	assignee_id     TEXT REFERENCES users(id),
	name            TEXT NOT NULL,
	description     TEXT NOT NULL,
	priority        TEXT NOT NULL,
	created_at      DATETIME NOT NULL,
	started_at      DATETIME,
	completed_at    DATETIME,
	due_date        DATETIME,
	cycle_time_days REAL,
	lead_time_days  REAL
);
CREATE TABLE IF NOT EXISTS subtasks (
	id           TEXT PRIMARY KEY,
	task_id      TEXT NOT NULL REFERENCES tasks(id),
	assignee_id  TEXT REFERENCES users(id),
	name         TEXT NOT NULL,
	created_at   DATETIME NOT NULL,
	completed_at DATETIME
);
CREATE TABLE IF NOT EXISTS comments (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL REFERENCES tasks(id),
	author_id  TEXT NOT NULL REFERENCES users(id),
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	color           TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS task_tags (
	task_id TEXT NOT NULL REFERENCES tasks(id),
	tag_id  TEXT NOT NULL REFERENCES tags(id),
	PRIMARY KEY (task_id, tag_id)
);
CREATE TABLE IF NOT EXISTS field_definitions (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	kind            TEXT NOT NULL,
	options         TEXT,
	created_at      DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS field_values (
	id            TEXT PRIMARY KEY,
	definition_id TEXT NOT NULL REFERENCES field_definitions(id),
	task_id       TEXT NOT NULL REFERENCES tasks(id),
	value_text    TEXT,
	value_number  REAL,
	value_date    DATETIME,
	value_boolean BOOLEAN,
	value_option  TEXT,
	created_at    DATETIME NOT NULL
);
`

// SQLite is the file-backed store. A path of ":memory:" gives a throwaway
// in-process database, which the tests use.
type SQLite struct {
	sqlStore
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_loc=UTC")
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	// The driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLite{sqlStore{db: db, bind: func(q string) string { return q }}}, nil
}
