package content

import (
	"context"
	"fmt"
	"strings"
)

// Library is the template and vocabulary material behind the template
// provider. It is loaded from configuration, never hardcoded, so the
// business vocabulary can change without touching code.
type Library struct {
	FirstNames      []string
	LastNames       []string
	CompanyStems    []string
	CompanySuffixes []string
	TagNames        []string
	Comments        []string

	// Keyed by "department/type", falling back to the department alone and
	// then to "default".
	ProjectTemplates map[string][]string
	TaskTemplates    map[string][]string
	Descriptions     map[string][]string

	// Vocabulary for {placeholder} substitution inside templates.
	Words map[string][]string
}

func (l Library) validate() error {
	required := map[string][]string{
		"first names":   l.FirstNames,
		"last names":    l.LastNames,
		"company stems": l.CompanyStems,
		"tag names":     l.TagNames,
		"comments":      l.Comments,
	}
	for name, list := range required {
		if len(list) == 0 {
			return fmt.Errorf("content library: no %s", name)
		}
	}
	for name, m := range map[string]map[string][]string{
		"project templates": l.ProjectTemplates,
		"task templates":    l.TaskTemplates,
		"descriptions":      l.Descriptions,
	} {
		if len(m["default"]) == 0 {
			return fmt.Errorf("content library: %s need a default entry", name)
		}
	}
	return nil
}

// TemplateProvider fills {placeholder} templates from the library. It is
// fully deterministic given the random stream, which keeps seeded runs
// reproducible.
type TemplateProvider struct {
	lib Library
}

func NewTemplateProvider(lib Library) (*TemplateProvider, error) {
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return &TemplateProvider{lib: lib}, nil
}

func (p *TemplateProvider) Generate(_ context.Context, rng Source, req Request) (string, error) {
	switch req.Kind {
	case KindPersonName:
		return pick(rng, p.lib.FirstNames) + " " + pick(rng, p.lib.LastNames), nil
	case KindCompanyName:
		name := pick(rng, p.lib.CompanyStems)
		if len(p.lib.CompanySuffixes) > 0 {
			name += " " + pick(rng, p.lib.CompanySuffixes)
		}
		return name, nil
	case KindProjectName:
		return p.fill(rng, p.templatesFor(p.lib.ProjectTemplates, req), req), nil
	case KindTaskName:
		return p.fill(rng, p.templatesFor(p.lib.TaskTemplates, req), req), nil
	case KindTaskDescription:
		return p.fill(rng, p.templatesFor(p.lib.Descriptions, req), req), nil
	case KindComment:
		return p.fill(rng, p.lib.Comments, req), nil
	case KindTagName:
		return pick(rng, p.lib.TagNames), nil
	default:
		return "", fmt.Errorf("content: unknown kind %q", req.Kind)
	}
}

// templatesFor resolves segment-specific templates, widening to the
// department and finally the default list.
func (p *TemplateProvider) templatesFor(m map[string][]string, req Request) []string {
	if list, ok := m[req.Segment.String()]; ok && len(list) > 0 {
		return list
	}
	if list, ok := m[req.Segment.Department]; ok && len(list) > 0 {
		return list
	}
	return m["default"]
}

func (p *TemplateProvider) fill(rng Source, templates []string, req Request) string {
	return expand(pick(rng, templates), func(key string) string {
		if v, ok := req.Context[key]; ok {
			return v
		}
		if words := p.lib.Words[key]; len(words) > 0 {
			return pick(rng, words)
		}
		return key
	})
}

// expand substitutes every {key} in the template. Unterminated braces are
// kept literally.
func expand(template string, lookup func(string) string) string {
	var b strings.Builder
	b.Grow(len(template))
	for {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			b.WriteString(template)
			return b.String()
		}
		closing := strings.IndexByte(template[open:], '}')
		if closing < 0 {
			b.WriteString(template)
			return b.String()
		}
		b.WriteString(template[:open])
		b.WriteString(lookup(template[open+1 : open+closing]))
		template = template[open+closing+1:]
	}
}

func pick(rng Source, list []string) string {
	return list[rng.IntN(len(list))]
}
