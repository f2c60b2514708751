// Package config loads the data-driven tables the engine runs on: scale,
// lifecycle profiles, distribution registry contents, benchmarks, and the
// content library. Everything ships with embedded defaults; a YAML file
// overrides the defaults wholesale per section, and environment variables
// override the runtime knobs.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"seedforge/internal/calendar"
	"seedforge/internal/content"
	"seedforge/internal/domain"
	"seedforge/internal/generate"
	"seedforge/internal/lifecycle"
	"seedforge/internal/sampling"
	"seedforge/internal/validation"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	// Anchor is the "now" reference for lifecycle generation, RFC3339.
	// Empty means wall-clock time at run start.
	Anchor string `yaml:"anchor"`

	Seed uint64 `yaml:"seed"`

	Scale         Scale         `yaml:"scale"`
	Calendar      Calendar      `yaml:"calendar"`
	Generation    Generation    `yaml:"generation"`
	Lifecycle     Lifecycle     `yaml:"lifecycle"`
	Distributions Distributions `yaml:"distributions"`
	Validation    Validation    `yaml:"validation"`
	Content       Content       `yaml:"content"`
}

// Generation holds the corpus-shape knobs that are neither scale nor
// lifecycle profiles.
type Generation struct {
	// DepartmentTypes lists which work item types each department runs
	// projects of; the "default" entry serves unlisted departments.
	DepartmentTypes map[string][]string `yaml:"department_types"`

	// HistoryDays is how far before the anchor generated activity reaches.
	HistoryDays int `yaml:"history_days"`

	SubtaskRate           float64  `yaml:"subtask_rate"`
	SubtaskCompletionRate float64  `yaml:"subtask_completion_rate"`
	TagColors             []string `yaml:"tag_colors"`

	// CustomFields lists, per department, the custom field definitions an
	// organization may adopt for its tasks.
	CustomFields map[string][]CustomField `yaml:"custom_fields"`
}

type CustomField struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Options []string `yaml:"options"`
}

type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r Range) valid() bool { return r.Min >= 0 && r.Max >= r.Min }

type Scale struct {
	Organizations      int   `yaml:"organizations"`
	TeamsPerOrg        Range `yaml:"teams_per_org"`
	UsersPerTeam       Range `yaml:"users_per_team"`
	ProjectsPerTeam    Range `yaml:"projects_per_team"`
	SectionsPerProject Range `yaml:"sections_per_project"`
	TasksPerSection    Range `yaml:"tasks_per_section"`
	TagsPerOrg         Range `yaml:"tags_per_org"`
	ParallelOrgs       bool  `yaml:"parallel_orgs"`
}

type Calendar struct {
	// ExtraHolidays maps "2006-01-02" dates to names, added on top of the
	// computed federal set.
	ExtraHolidays map[string]string `yaml:"extra_holidays"`
}

type Profile struct {
	BaseCompletionRate     float64 `yaml:"base_completion_rate"`
	StartDelayFactor       float64 `yaml:"start_delay_factor"`
	DurationMultiplier     float64 `yaml:"duration_multiplier"`
	CompletionAdjustment   float64 `yaml:"completion_adjustment"`
	CompletionAcceleration float64 `yaml:"completion_acceleration"`
	WeekendPauseFactor     float64 `yaml:"weekend_pause_factor"`
}

// DueBand is one weighted due-date window in whole days after creation. A
// band with max_days zero means "no due date".
type DueBand struct {
	MinDays     int     `yaml:"min_days"`
	MaxDays     int     `yaml:"max_days"`
	Probability float64 `yaml:"probability"`
}

type Lifecycle struct {
	Departments       map[string]Profile `yaml:"departments"`
	Types             map[string]Profile `yaml:"types"`
	DefaultDepartment Profile            `yaml:"default_department"`
	DefaultType       Profile            `yaml:"default_type"`

	// Hours maps activity names to 24 weights.
	Hours map[string][]float64 `yaml:"hours"`

	DueDates        map[string][]DueBand `yaml:"due_dates"`
	UnassignedRates map[string]float64   `yaml:"unassigned_rates"`
}

type Spec struct {
	Kind    string    `yaml:"kind"`
	Mean    float64   `yaml:"mean"`
	StdDev  float64   `yaml:"stddev"`
	Values  []float64 `yaml:"values"`
	Weights []float64 `yaml:"weights"`
	Min     float64   `yaml:"min"`
	Max     float64   `yaml:"max"`
}

type ExactSpec struct {
	Segment string `yaml:"segment"`
	Field   string `yaml:"field"`
	Spec    Spec   `yaml:"spec"`
}

type Distributions struct {
	// Defaults is keyed by value kind (enum, number, date, boolean, text)
	// and must cover all of them.
	Defaults   map[string]Spec `yaml:"defaults"`
	Categories map[string]Spec `yaml:"categories"`
	Exact      []ExactSpec     `yaml:"exact"`
}

type BenchmarkSpec struct {
	Segment       string    `yaml:"segment"`
	Boundaries    []float64 `yaml:"boundaries"`
	Probabilities []float64 `yaml:"probabilities"`
}

type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Validation struct {
	SimilarityThreshold  float64         `yaml:"similarity_threshold"`
	TemporalTolerance    float64         `yaml:"temporal_tolerance"`
	ReferentialTolerance float64         `yaml:"referential_tolerance"`
	Benchmarks           []BenchmarkSpec `yaml:"benchmarks"`
	CompletionRateBands  map[string]Band `yaml:"completion_rate_bands"`
}

type Content struct {
	FirstNames       []string            `yaml:"first_names"`
	LastNames        []string            `yaml:"last_names"`
	CompanyStems     []string            `yaml:"company_stems"`
	CompanySuffixes  []string            `yaml:"company_suffixes"`
	TagNames         []string            `yaml:"tag_names"`
	Comments         []string            `yaml:"comments"`
	SectionNames     []string            `yaml:"section_names"`
	ProjectTemplates map[string][]string `yaml:"project_templates"`
	TaskTemplates    map[string][]string `yaml:"task_templates"`
	Descriptions     map[string][]string `yaml:"descriptions"`
	Words            map[string][]string `yaml:"words"`
}

// Load parses the embedded defaults, overlays the optional YAML file, then
// applies environment overrides. This is the only place a run may fail
// before producing a report.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SEEDFORGE_ANCHOR"); v != "" {
		c.Anchor = v
	}
	if v := os.Getenv("SEEDFORGE_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
}

func (c *Config) Validate() error {
	if c.Scale.Organizations <= 0 {
		return fmt.Errorf("config: scale.organizations must be positive")
	}
	for name, r := range map[string]Range{
		"teams_per_org":        c.Scale.TeamsPerOrg,
		"users_per_team":       c.Scale.UsersPerTeam,
		"projects_per_team":    c.Scale.ProjectsPerTeam,
		"sections_per_project": c.Scale.SectionsPerProject,
		"tasks_per_section":    c.Scale.TasksPerSection,
		"tags_per_org":         c.Scale.TagsPerOrg,
	} {
		if !r.valid() {
			return fmt.Errorf("config: scale.%s: invalid range [%d,%d]", name, r.Min, r.Max)
		}
	}
	for name, hours := range c.Lifecycle.Hours {
		if _, ok := lifecycle.ParseActivity(name); !ok {
			return fmt.Errorf("config: lifecycle.hours.%s: unknown activity", name)
		}
		if len(hours) != 24 {
			return fmt.Errorf("config: lifecycle.hours.%s: want 24 weights, got %d", name, len(hours))
		}
	}
	for typ, bands := range c.Lifecycle.DueDates {
		var sum float64
		for _, b := range bands {
			if b.Probability < 0 {
				return fmt.Errorf("config: lifecycle.due_dates.%s: negative probability", typ)
			}
			if b.MaxDays < b.MinDays {
				return fmt.Errorf("config: lifecycle.due_dates.%s: max_days %d below min_days %d", typ, b.MaxDays, b.MinDays)
			}
			sum += b.Probability
		}
		if len(bands) > 0 && (sum < 0.99 || sum > 1.01) {
			return fmt.Errorf("config: lifecycle.due_dates.%s: probabilities sum to %v", typ, sum)
		}
	}
	if c.Generation.HistoryDays <= 0 {
		return fmt.Errorf("config: generation.history_days must be positive")
	}
	if c.Generation.SubtaskRate < 0 || c.Generation.SubtaskRate > 1 {
		return fmt.Errorf("config: generation.subtask_rate outside [0,1]")
	}
	if c.Generation.SubtaskCompletionRate < 0 || c.Generation.SubtaskCompletionRate > 1 {
		return fmt.Errorf("config: generation.subtask_completion_rate outside [0,1]")
	}
	for department, fields := range c.Generation.CustomFields {
		for _, f := range fields {
			if f.Name == "" {
				return fmt.Errorf("config: generation.custom_fields.%s: empty field name", department)
			}
			kind, ok := domain.ParseFieldKind(f.Kind)
			if !ok {
				return fmt.Errorf("config: generation.custom_fields.%s: field %q has unknown kind %q", department, f.Name, f.Kind)
			}
			if kind == domain.FieldEnum && len(f.Options) == 0 {
				return fmt.Errorf("config: generation.custom_fields.%s: enum field %q has no options", department, f.Name)
			}
		}
	}
	if c.Anchor != "" {
		if _, err := time.Parse(time.RFC3339, c.Anchor); err != nil {
			return fmt.Errorf("config: anchor: %w", err)
		}
	}
	return nil
}

// AnchorTime resolves the generation reference time.
func (c *Config) AnchorTime() time.Time {
	if c.Anchor == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, c.Anchor)
	if err != nil {
		// Validate catches this at load; treat a stray value as "now".
		return time.Now().UTC()
	}
	return t.UTC()
}

// BuildCalendar materializes the business calendar, skipping malformed extra
// holiday dates with a warning rather than failing the run.
func (c *Config) BuildCalendar(logger *slog.Logger) *calendar.Calendar {
	extra := make(map[time.Time]string, len(c.Calendar.ExtraHolidays))
	for raw, name := range c.Calendar.ExtraHolidays {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			logger.Warn("skipping malformed holiday date", "date", raw, "error", err)
			continue
		}
		extra[day.UTC()] = name
	}
	return calendar.New(extra)
}

// LifecycleParams converts the profile tables into generator parameters.
func (c *Config) LifecycleParams() lifecycle.Params {
	departments := make(map[string]lifecycle.DepartmentProfile, len(c.Lifecycle.Departments))
	for name, p := range c.Lifecycle.Departments {
		departments[name] = departmentProfile(p)
	}
	types := make(map[string]lifecycle.TypeProfile, len(c.Lifecycle.Types))
	for name, p := range c.Lifecycle.Types {
		types[name] = typeProfile(p)
	}

	hours := make(map[lifecycle.Activity]lifecycle.HourWeights, len(c.Lifecycle.Hours))
	for name, weights := range c.Lifecycle.Hours {
		act, ok := lifecycle.ParseActivity(name)
		if !ok {
			continue
		}
		var hw lifecycle.HourWeights
		copy(hw[:], weights)
		hours[act] = hw
	}

	return lifecycle.Params{
		Departments:       departments,
		Types:             types,
		DefaultDepartment: departmentProfile(c.Lifecycle.DefaultDepartment),
		DefaultType:       typeProfile(c.Lifecycle.DefaultType),
		Hours:             hours,
	}
}

// GenerationParams converts the corpus-shape tables for the pipeline.
// Department order is sorted so runs are reproducible for a given seed.
func (c *Config) GenerationParams() generate.Params {
	departments := make([]string, 0, len(c.Lifecycle.Departments))
	for name := range c.Lifecycle.Departments {
		departments = append(departments, name)
	}
	sort.Strings(departments)

	dueDates := make(map[string][]generate.DueBand, len(c.Lifecycle.DueDates))
	for typ, bands := range c.Lifecycle.DueDates {
		converted := make([]generate.DueBand, 0, len(bands))
		for _, b := range bands {
			converted = append(converted, generate.DueBand{
				MinDays:     b.MinDays,
				MaxDays:     b.MaxDays,
				Probability: b.Probability,
			})
		}
		dueDates[typ] = converted
	}

	customFields := make(map[string][]generate.FieldSpec, len(c.Generation.CustomFields))
	for department, fields := range c.Generation.CustomFields {
		specs := make([]generate.FieldSpec, 0, len(fields))
		for _, f := range fields {
			kind, ok := domain.ParseFieldKind(f.Kind)
			if !ok {
				// Validate rejects unknown kinds at load.
				continue
			}
			specs = append(specs, generate.FieldSpec{Name: f.Name, Kind: kind, Options: f.Options})
		}
		customFields[department] = specs
	}

	return generate.Params{
		Scale: generate.Scale{
			Organizations:      c.Scale.Organizations,
			TeamsPerOrg:        generateRange(c.Scale.TeamsPerOrg),
			UsersPerTeam:       generateRange(c.Scale.UsersPerTeam),
			ProjectsPerTeam:    generateRange(c.Scale.ProjectsPerTeam),
			SectionsPerProject: generateRange(c.Scale.SectionsPerProject),
			TasksPerSection:    generateRange(c.Scale.TasksPerSection),
			TagsPerOrg:         generateRange(c.Scale.TagsPerOrg),
			ParallelOrgs:       c.Scale.ParallelOrgs,
		},
		Departments:           departments,
		TypesByDepartment:     c.Generation.DepartmentTypes,
		DueDates:              dueDates,
		UnassignedRates:       c.Lifecycle.UnassignedRates,
		SectionNames:          c.Content.SectionNames,
		TagColors:             c.Generation.TagColors,
		CustomFields:          customFields,
		HistoryDays:           c.Generation.HistoryDays,
		SubtaskRate:           c.Generation.SubtaskRate,
		SubtaskCompletionRate: c.Generation.SubtaskCompletionRate,
	}
}

func generateRange(r Range) generate.Range {
	return generate.Range{Min: r.Min, Max: r.Max}
}

func departmentProfile(p Profile) lifecycle.DepartmentProfile {
	return lifecycle.DepartmentProfile{
		BaseCompletionRate: p.BaseCompletionRate,
		StartDelayFactor:   p.StartDelayFactor,
		DurationMultiplier: p.DurationMultiplier,
	}
}

func typeProfile(p Profile) lifecycle.TypeProfile {
	return lifecycle.TypeProfile{
		CompletionAdjustment:   p.CompletionAdjustment,
		StartDelayFactor:       p.StartDelayFactor,
		CompletionAcceleration: p.CompletionAcceleration,
		WeekendPauseFactor:     p.WeekendPauseFactor,
	}
}

// BuildRegistry assembles the three-tier distribution registry. Unknown kind
// strings degrade to the uniform fallback rather than failing; unknown value
// kinds in the defaults table are configuration errors.
func (c *Config) BuildRegistry(logger *slog.Logger, opts ...sampling.RegistryOption) (*sampling.Registry, error) {
	defaults := make(map[sampling.ValueKind]sampling.Spec, len(c.Distributions.Defaults))
	for name, spec := range c.Distributions.Defaults {
		vk, err := sampling.ParseValueKind(name)
		if err != nil {
			return nil, fmt.Errorf("config: distributions.defaults: %w", err)
		}
		defaults[vk] = samplingSpec(spec, logger)
	}
	registry, err := sampling.NewRegistry(defaults, append(opts, sampling.WithRegistryLogger(logger))...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	for token, spec := range c.Distributions.Categories {
		registry.RegisterCategory(token, samplingSpec(spec, logger))
	}
	for _, entry := range c.Distributions.Exact {
		seg, err := domain.ParseSegment(entry.Segment)
		if err != nil {
			return nil, fmt.Errorf("config: distributions.exact: %w", err)
		}
		registry.Register(seg, entry.Field, samplingSpec(entry.Spec, logger))
	}
	return registry, nil
}

func samplingSpec(s Spec, logger *slog.Logger) sampling.Spec {
	kind := sampling.ParseKind(s.Kind)
	if kind == sampling.KindUnknown && s.Kind != "" {
		logger.Warn("unknown distribution kind, using uniform fallback", "kind", s.Kind)
	}
	return sampling.Spec{
		Kind:    kind,
		Mean:    s.Mean,
		StdDev:  s.StdDev,
		Values:  s.Values,
		Weights: s.Weights,
		Min:     s.Min,
		Max:     s.Max,
	}
}

// Benchmarks converts the benchmark tables for the divergence validator.
func (c *Config) Benchmarks() ([]validation.Benchmark, error) {
	out := make([]validation.Benchmark, 0, len(c.Validation.Benchmarks))
	for _, b := range c.Validation.Benchmarks {
		seg, err := domain.ParseSegment(b.Segment)
		if err != nil {
			return nil, fmt.Errorf("config: validation.benchmarks: %w", err)
		}
		out = append(out, validation.Benchmark{
			Segment:       seg,
			Boundaries:    b.Boundaries,
			Probabilities: b.Probabilities,
		})
	}
	return out, nil
}

// RateBands converts the completion-rate windows for the rate validator.
func (c *Config) RateBands() map[string]validation.RateBand {
	bands := make(map[string]validation.RateBand, len(c.Validation.CompletionRateBands))
	for typ, b := range c.Validation.CompletionRateBands {
		bands[typ] = validation.RateBand{Min: b.Min, Max: b.Max}
	}
	return bands
}

// ContentLibrary converts the text material for the template provider.
func (c *Config) ContentLibrary() content.Library {
	return content.Library{
		FirstNames:       c.Content.FirstNames,
		LastNames:        c.Content.LastNames,
		CompanyStems:     c.Content.CompanyStems,
		CompanySuffixes:  c.Content.CompanySuffixes,
		TagNames:         c.Content.TagNames,
		Comments:         c.Content.Comments,
		ProjectTemplates: c.Content.ProjectTemplates,
		TaskTemplates:    c.Content.TaskTemplates,
		Descriptions:     c.Content.Descriptions,
		Words:            c.Content.Words,
	}
}

// Runtime carries the environment-only knobs so main stays lean.
type Runtime struct {
	PostgresDSN string
	SQLitePath  string
	MetricsAddr string
	LogLevel    string
}

func RuntimeFromEnv() Runtime {
	return Runtime{
		PostgresDSN: os.Getenv("SEEDFORGE_POSTGRES_DSN"),
		SQLitePath:  os.Getenv("SEEDFORGE_SQLITE_PATH"),
		MetricsAddr: os.Getenv("SEEDFORGE_METRICS_ADDR"),
		LogLevel:    os.Getenv("SEEDFORGE_LOG_LEVEL"),
	}
}
