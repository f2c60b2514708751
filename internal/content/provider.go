// Package content is the text-generation boundary. The pipeline only ever
// asks for a string given a request; where the string comes from (templates,
// an external model) is the provider's business.
package content

import (
	"context"

	"seedforge/internal/domain"
)

type Kind string

const (
	KindPersonName      Kind = "person_name"
	KindCompanyName     Kind = "company_name"
	KindProjectName     Kind = "project_name"
	KindTaskName        Kind = "task_name"
	KindTaskDescription Kind = "task_description"
	KindComment         Kind = "comment"
	KindTagName         Kind = "tag_name"
)

// Request describes one piece of text to produce. Context carries
// substitutions the caller already knows, e.g. the task name when asking for
// its description.
type Request struct {
	Kind    Kind
	Segment domain.Segment
	Context map[string]string
}

// Source is the random stream used for template and vocabulary picks.
type Source interface {
	IntN(n int) int
}

type Provider interface {
	Generate(ctx context.Context, rng Source, req Request) (string, error)
}
