package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"seedforge/internal/domain"
	"seedforge/internal/generate"
	"seedforge/internal/lifecycle"
	"seedforge/internal/sampling"
)

func mustSegment(t *testing.T, raw string) domain.Segment {
	t.Helper()
	seg, err := domain.ParseSegment(raw)
	require.NoError(t, err)
	return seg
}

type ConfigSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.logger = slog.New(slog.DiscardHandler)
}

func (s *ConfigSuite) TestEmbeddedDefaultsLoad() {
	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal(2, cfg.Scale.Organizations)
	s.InDelta(0.65, cfg.Lifecycle.Departments["engineering"].BaseCompletionRate, 1e-9)
	s.InDelta(0.05, cfg.Validation.SimilarityThreshold, 1e-9)
	s.Len(cfg.Lifecycle.Hours["creation"], 24)
	s.NotEmpty(cfg.Content.FirstNames)
}

func (s *ConfigSuite) TestFileOverlay() {
	path := filepath.Join(s.T().TempDir(), "override.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("anchor: \"2026-03-01T00:00:00Z\"\nscale:\n  organizations: 7\n"), 0o600))

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(7, cfg.Scale.Organizations)
	s.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), cfg.AnchorTime())
	// Sections untouched by the overlay keep the defaults.
	s.InDelta(0.95, cfg.Validation.TemporalTolerance, 1e-9)
}

func (s *ConfigSuite) TestEnvOverrides() {
	s.T().Setenv("SEEDFORGE_ANCHOR", "2026-07-04T12:00:00Z")
	s.T().Setenv("SEEDFORGE_SEED", "42")

	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal(uint64(42), cfg.Seed)
	s.Equal(time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC), cfg.AnchorTime())
}

func (s *ConfigSuite) TestMissingFileFails() {
	_, err := Load(filepath.Join(s.T().TempDir(), "nope.yaml"))
	s.Error(err)
}

func (s *ConfigSuite) TestValidateRejections() {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero organizations", func(c *Config) { c.Scale.Organizations = 0 }},
		{"inverted range", func(c *Config) { c.Scale.TasksPerSection = Range{Min: 5, Max: 2} }},
		{"short hour table", func(c *Config) { c.Lifecycle.Hours["creation"] = []float64{0.5, 0.5} }},
		{"due band sum off", func(c *Config) {
			c.Lifecycle.DueDates["sprint"] = []DueBand{{MinDays: 1, MaxDays: 3, Probability: 0.5}}
		}},
		{"inverted due band", func(c *Config) {
			c.Lifecycle.DueDates["sprint"] = []DueBand{{MinDays: 5, MaxDays: 2, Probability: 1.0}}
		}},
		{"bad anchor", func(c *Config) { c.Anchor = "yesterday" }},
		{"unknown custom field kind", func(c *Config) {
			c.Generation.CustomFields["engineering"] = []CustomField{{Name: "Shape", Kind: "polygon"}}
		}},
		{"enum field without options", func(c *Config) {
			c.Generation.CustomFields["engineering"] = []CustomField{{Name: "Severity", Kind: "enum"}}
		}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			cfg, err := Load("")
			s.Require().NoError(err)
			tc.mutate(cfg)
			s.Error(cfg.Validate())
		})
	}
}

func (s *ConfigSuite) TestBuildCalendarSkipsMalformedHoliday() {
	cfg, err := Load("")
	s.Require().NoError(err)
	cfg.Calendar.ExtraHolidays = map[string]string{
		"2026-06-19": "Company Day",
		"not-a-date": "Broken",
	}

	cal := cfg.BuildCalendar(s.logger)
	s.False(cal.IsBusinessDay(time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC)))
}

func (s *ConfigSuite) TestLifecycleParams() {
	cfg, err := Load("")
	s.Require().NoError(err)

	params := cfg.LifecycleParams()
	s.InDelta(0.65, params.Departments["engineering"].BaseCompletionRate, 1e-9)
	s.InDelta(1.3, params.Types["sprint"].CompletionAcceleration, 1e-9)
	s.InDelta(0.68, params.DefaultDepartment.BaseCompletionRate, 1e-9)

	creation, ok := params.Hours[lifecycle.ActivityCreation]
	s.Require().True(ok)
	s.InDelta(0.08, creation[14], 1e-9)
}

type tierRecorder struct {
	seen []sampling.Tier
}

func (r *tierRecorder) Observe(tier sampling.Tier) { r.seen = append(r.seen, tier) }

func (s *ConfigSuite) TestGenerationParams() {
	cfg, err := Load("")
	s.Require().NoError(err)

	params := cfg.GenerationParams()
	s.Equal([]string{"engineering", "marketing", "operations", "product", "sales"}, params.Departments)
	s.Equal(90, params.HistoryDays)
	s.InDelta(0.30, params.SubtaskRate, 1e-9)
	s.Contains(params.TypesByDepartment["engineering"], "bug_tracking")
	s.Contains(params.SectionNames, "Backlog")
	s.Len(params.DueDates["sprint"], 5)

	fields := params.CustomFields["engineering"]
	s.Require().NotEmpty(fields)
	byName := map[string]generate.FieldSpec{}
	for _, f := range fields {
		byName[f.Name] = f
	}
	s.Equal(domain.FieldEnum, byName["Priority"].Kind)
	s.Equal([]string{"Critical", "High", "Medium", "Low"}, byName["Priority"].Options)
	s.Equal(domain.FieldNumber, byName["Story Points"].Kind)
	s.NotEmpty(params.CustomFields["default"])
}

func (s *ConfigSuite) TestBuildRegistry() {
	cfg, err := Load("")
	s.Require().NoError(err)

	tiers := &tierRecorder{}
	registry, err := cfg.BuildRegistry(s.logger, sampling.WithTierCounter(tiers))
	s.Require().NoError(err)

	spec := registry.Resolve(mustSegment(s.T(), "engineering/sprint"), "priority", sampling.ValueEnum)
	s.InDelta(0.50, spec.Weights[1], 1e-9)

	spec = registry.Resolve(mustSegment(s.T(), "sales/research"), "start_delay_hours", sampling.ValueNumber)
	s.Equal(sampling.KindLogNormal, spec.Kind)

	registry.Resolve(mustSegment(s.T(), "sales/research"), "favorite_color", sampling.ValueEnum)

	s.Equal([]sampling.Tier{sampling.TierExact, sampling.TierCategory, sampling.TierDefault}, tiers.seen)
}

func (s *ConfigSuite) TestBuildRegistryRejectsUnknownValueKind() {
	cfg, err := Load("")
	s.Require().NoError(err)
	cfg.Distributions.Defaults["hologram"] = Spec{Kind: "normal", Mean: 1}

	_, err = cfg.BuildRegistry(s.logger)
	s.Error(err)
}

func (s *ConfigSuite) TestBenchmarksAndBands() {
	cfg, err := Load("")
	s.Require().NoError(err)

	benchmarks, err := cfg.Benchmarks()
	s.Require().NoError(err)
	s.NotEmpty(benchmarks)
	for _, b := range benchmarks {
		s.NoError(b.Validate())
	}

	bands := cfg.RateBands()
	band, ok := bands["sprint"]
	s.Require().True(ok)
	s.InDelta(0.65, band.Min, 1e-9)
	s.InDelta(0.90, band.Max, 1e-9)
}

func (s *ConfigSuite) TestBenchmarksRejectBadSegment() {
	cfg, err := Load("")
	s.Require().NoError(err)
	cfg.Validation.Benchmarks = append(cfg.Validation.Benchmarks, BenchmarkSpec{
		Segment:       "no-slash-here",
		Boundaries:    []float64{1},
		Probabilities: []float64{1},
	})

	_, err = cfg.Benchmarks()
	s.Error(err)
}

func TestRuntimeFromEnv(t *testing.T) {
	t.Setenv("SEEDFORGE_POSTGRES_DSN", "postgres://localhost/seedforge")
	t.Setenv("SEEDFORGE_LOG_LEVEL", "debug")

	rt := RuntimeFromEnv()
	require.Equal(t, "postgres://localhost/seedforge", rt.PostgresDSN)
	require.Equal(t, "debug", rt.LogLevel)
	require.Empty(t, rt.MetricsAddr)
}
