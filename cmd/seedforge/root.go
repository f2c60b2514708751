package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"seedforge/internal/calendar"
	"seedforge/internal/content"
	"seedforge/internal/generate"
	"seedforge/internal/lifecycle"
	"seedforge/internal/platform/config"
	"seedforge/internal/platform/httpserver"
	"seedforge/internal/platform/logger"
	"seedforge/internal/platform/metrics"
	"seedforge/internal/sampling"
	"seedforge/internal/store"
	"seedforge/internal/validation"
)

type options struct {
	configPath  string
	logLevel    string
	metricsAddr string

	seed        uint64
	anchor      string
	sqlitePath  string
	postgresDSN string
	parallel    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "seedforge",
		Short:         "Generate and validate statistically realistic project-management seed data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML file overriding the embedded defaults")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, or error")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	root.AddCommand(newGenerateCmd(opts), newValidateCmd(opts))
	return root
}

func addStoreFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database path")
	cmd.Flags().StringVar(&opts.postgresDSN, "postgres-dsn", "", "PostgreSQL DSN, takes precedence over --sqlite")
}

// app carries everything a command needs after configuration resolved.
// Failing to assemble one is the only way a run exits nonzero.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	cal        *calendar.Calendar
	sampler    *sampling.Sampler
	samples    *sampling.Registry
	lifecycles *lifecycle.Generator
	provider   content.Provider
	anchor     time.Time
}

func buildApp(opts *options) (*app, error) {
	rt := config.RuntimeFromEnv()
	if opts.logLevel == "" {
		opts.logLevel = rt.LogLevel
	}
	if opts.metricsAddr == "" {
		opts.metricsAddr = rt.MetricsAddr
	}
	if opts.sqlitePath == "" {
		opts.sqlitePath = rt.SQLitePath
	}
	if opts.postgresDSN == "" {
		opts.postgresDSN = rt.PostgresDSN
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.anchor != "" {
		cfg.Anchor = opts.anchor
	}
	if opts.parallel {
		cfg.Scale.ParallelOrgs = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(opts.logLevel)
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	samples, err := cfg.BuildRegistry(log, sampling.WithTierCounter(m.TierCounter()))
	if err != nil {
		return nil, err
	}
	sampler := sampling.New(
		sampling.WithLogger(log),
		sampling.WithFallbackCounter(m.SamplerFallbacks),
	)
	cal := cfg.BuildCalendar(log)
	anchor := cfg.AnchorTime()

	lifecycles, err := lifecycle.NewGenerator(cal, sampler, samples, cfg.LifecycleParams(), anchor, lifecycle.WithLogger(log))
	if err != nil {
		return nil, err
	}
	provider, err := content.NewTemplateProvider(cfg.ContentLibrary())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		log:        log,
		registry:   promReg,
		metrics:    m,
		cal:        cal,
		sampler:    sampler,
		samples:    samples,
		lifecycles: lifecycles,
		provider:   provider,
		anchor:     anchor,
	}, nil
}

// openStore picks the backend: PostgreSQL when a DSN is set, SQLite when a
// path is, in-memory otherwise.
func (a *app) openStore(ctx context.Context, opts *options) (store.CorpusStore, error) {
	switch {
	case opts.postgresDSN != "":
		pg, err := store.OpenPostgres(ctx, opts.postgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		a.log.Info("using postgres store")
		return pg, nil
	case opts.sqlitePath != "":
		a.log.Info("using sqlite store", "path", opts.sqlitePath)
		return store.NewSQLite(opts.sqlitePath)
	default:
		a.log.Info("using in-memory store")
		return store.NewMemory(), nil
	}
}

func (a *app) validationService(source validation.CorpusSource) (*validation.Service, error) {
	benchmarks, err := a.cfg.Benchmarks()
	if err != nil {
		return nil, err
	}
	divergence, err := validation.NewDivergenceValidator(
		benchmarks,
		a.cfg.Validation.SimilarityThreshold,
		validation.WithDivergenceLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	rates, err := validation.NewRateValidator(a.cfg.RateBands())
	if err != nil {
		return nil, err
	}
	integrity, err := validation.NewIntegrityChecker(
		a.cfg.Validation.TemporalTolerance,
		a.cfg.Validation.ReferentialTolerance,
	)
	if err != nil {
		return nil, err
	}
	return validation.NewService(
		source,
		divergence,
		rates,
		integrity,
		validation.WithLogger(a.log),
		validation.WithFailureCounter(a.metrics.ValidationFailures),
		validation.WithClock(func() time.Time { return a.anchor }),
	)
}

// serveMetrics exposes /metrics for the duration of the run. The returned
// stop function shuts the listener down.
func (a *app) serveMetrics(addr string) func() {
	if addr == "" {
		return func() {}
	}
	srv := httpserver.New(addr, httpserver.NewRouter(a.registry))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("metrics server failed", "error", err)
		}
	}()
	a.log.Info("metrics listening", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printCounts(cmd *cobra.Command, counts store.Counts) {
	fmt.Fprintf(cmd.OutOrStdout(),
		"generated %d organizations, %d teams, %d users, %d projects, %d sections, %d tasks, %d subtasks, %d comments, %d tags, %d custom fields, %d field values\n",
		counts.Organizations, counts.Teams, counts.Users, counts.Projects,
		counts.Sections, counts.Tasks, counts.Subtasks, counts.Comments, counts.Tags,
		counts.Fields, counts.FieldValues,
	)
}

func (a *app) pipeline(corpusStore store.CorpusStore) (*generate.Pipeline, error) {
	return generate.New(
		a.cal,
		a.sampler,
		a.samples,
		a.lifecycles,
		a.provider,
		corpusStore,
		a.cfg.GenerationParams(),
		a.anchor,
		a.cfg.Seed,
		generate.WithLogger(a.log),
		generate.WithObserver(a.metrics),
	)
}
