package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity records mirror the persisted schema. Generators produce them fully
// formed, IDs included; the store layer only writes them out.

type Organization struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	CreatedAt time.Time
}

type Team struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Department     string
	CreatedAt      time.Time
}

type User struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Email          string
	Role           string
	Department     string
	CreatedAt      time.Time
}

type TeamMembership struct {
	TeamID uuid.UUID
	UserID uuid.UUID
	Role   string
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

type Project struct {
	ID           uuid.UUID
	TeamID       uuid.UUID
	Name         string
	Department   string
	WorkItemType string
	Status       ProjectStatus
	StartDate    time.Time
	EndDate      *time.Time
	CreatedAt    time.Time
}

// Segment returns the distribution-lookup key for work items in this project.
func (p Project) Segment() Segment {
	return NewSegment(p.Department, p.WorkItemType)
}

type Section struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	Position  int
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	SectionID   uuid.UUID
	AssigneeID  *uuid.UUID
	Name        string
	Description string
	Priority    Priority
	Lifecycle   LifecycleRecord
}

func (t Task) Completed() bool { return t.Lifecycle.Completed() }

type Subtask struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	AssigneeID  *uuid.UUID
	Name        string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Comment struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

// FieldKind is the value type of an organization-defined custom field.
type FieldKind string

const (
	FieldEnum    FieldKind = "enum"
	FieldNumber  FieldKind = "number"
	FieldDate    FieldKind = "date"
	FieldBoolean FieldKind = "boolean"
	FieldText    FieldKind = "text"
)

// ParseFieldKind maps a configuration string onto a FieldKind.
func ParseFieldKind(s string) (FieldKind, bool) {
	switch k := FieldKind(s); k {
	case FieldEnum, FieldNumber, FieldDate, FieldBoolean, FieldText:
		return k, true
	}
	return "", false
}

// FieldDefinition declares one custom field an organization attaches to its
// tasks. Options carries the allowed choices for enum fields and the phrase
// pool for text fields.
type FieldDefinition struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Kind           FieldKind
	Options        []string
	CreatedAt      time.Time
}

// FieldValue is one task's value for a definition. Exactly the slot matching
// the definition kind is set; the rest stay nil.
type FieldValue struct {
	ID           uuid.UUID
	DefinitionID uuid.UUID
	TaskID       uuid.UUID
	Text         *string
	Number       *float64
	Date         *time.Time
	Boolean      *bool
	Option       *string
	CreatedAt    time.Time
}

type Tag struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Color          string
}

type TaskTag struct {
	TaskID uuid.UUID
	TagID  uuid.UUID
}

// Corpus is a full snapshot of one generated batch, in dependency order.
// Validation runs over a corpus, never over live generator state.
type Corpus struct {
	Organizations []Organization
	Teams         []Team
	Users         []User
	Memberships   []TeamMembership
	Projects      []Project
	Sections      []Section
	Tasks         []Task
	Subtasks      []Subtask
	Comments      []Comment
	Tags          []Tag
	TaskTags      []TaskTag
	Fields        []FieldDefinition
	FieldValues   []FieldValue
}

// ProjectByID builds a lookup index; validators use it to resolve segments
// and to detect dangling references.
func (c *Corpus) ProjectByID() map[uuid.UUID]Project {
	m := make(map[uuid.UUID]Project, len(c.Projects))
	for _, p := range c.Projects {
		m[p.ID] = p
	}
	return m
}
