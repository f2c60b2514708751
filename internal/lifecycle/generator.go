// Package lifecycle derives causally ordered, business-calendar-aware
// lifecycle timestamps for generated work items. The generator composes the
// business calendar, the bounded sampler, and the distribution registry; it
// never fails: every boundary is silently corrected so the emitted record
// is internally consistent, and statistical plausibility is judged after
// the fact by the validators.
package lifecycle

import (
	"fmt"
	"log/slog"
	"time"

	"seedforge/internal/calendar"
	"seedforge/internal/domain"
	"seedforge/internal/sampling"
)

// Registry field names the generator resolves per segment. The registry's
// fallback chain supplies defaults when a segment has no curated entry.
const (
	fieldStartDelayHours         = "start_delay_hours"
	fieldCompletionDurationHours = "completion_duration_hours"
)

const (
	minStartLead     = 5 * time.Minute
	minStartHeadroom = 30 * time.Minute
	minCompletionGap = time.Hour

	weekendHourFloor = 9
	weekendHourCeil  = 20

	workHourStart = 9
	workHourEnd   = 18
)

// Source is the randomness a generator consumes; a single logical stream
// keeps seeded runs reproducible. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

// Generator produces one LifecycleRecord per work item. Read-only after
// construction apart from the caller-supplied random source.
type Generator struct {
	cal      *calendar.Calendar
	sampler  *sampling.Sampler
	registry *sampling.Registry
	params   Params
	now      time.Time
	logger   *slog.Logger
}

type Option func(*Generator)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// NewGenerator wires the generator. The now argument anchors the "no future
// timestamps" invariant and is injected so seeded runs stay reproducible.
func NewGenerator(cal *calendar.Calendar, sampler *sampling.Sampler, registry *sampling.Registry, params Params, now time.Time, opts ...Option) (*Generator, error) {
	if cal == nil {
		return nil, fmt.Errorf("calendar is required")
	}
	if sampler == nil {
		return nil, fmt.Errorf("sampler is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if now.IsZero() {
		return nil, fmt.Errorf("now anchor is required")
	}
	g := &Generator{
		cal:      cal,
		sampler:  sampler,
		registry: registry,
		params:   params,
		now:      now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate walks one work item through Created -> (MaybeStarted) ->
// (MaybeCompleted). Transitions are one-way; an item that does not draw
// completion stays Created with no start or completion timestamps.
func (g *Generator) Generate(rng Source, ctx domain.WorkItemContext) domain.LifecycleRecord {
	rec := domain.LifecycleRecord{
		CreatedAt: ctx.CreatedAt,
		DueDate:   ctx.DueDate,
	}

	// Items created too close to the anchor cannot fit the minimum
	// start/completion gaps without running into the future; they simply
	// stay open.
	if ctx.CreatedAt.Add(minCompletionGap + minStartHeadroom).After(g.now) {
		return rec
	}

	if rng.Float64() >= g.CompletionProbability(ctx) {
		return rec
	}

	// Completion is derived first; the start time is then clamped against
	// it (two-pass dependency).
	completedAt := g.completionTimestamp(rng, ctx)
	startedAt := g.startTimestamp(rng, ctx, completedAt)

	cycle := completedAt.Sub(startedAt).Hours() / 24
	lead := completedAt.Sub(ctx.CreatedAt).Hours() / 24

	rec.StartedAt = &startedAt
	rec.CompletedAt = &completedAt
	rec.CycleTimeDays = &cycle
	rec.LeadTimeDays = &lead
	return rec
}

// CompletionProbability combines the department base rate, the work-item
// type adjustment, due-date proximity, and the creation weekday, clamped to
// [0.10, 0.95].
func (g *Generator) CompletionProbability(ctx domain.WorkItemContext) float64 {
	dept := g.department(ctx.Segment.Department)
	typ := g.workItemType(ctx.Segment.WorkItemType)

	rate := dept.BaseCompletionRate + typ.CompletionAdjustment

	if ctx.DueDate != nil {
		days := wholeDaysBetween(ctx.CreatedAt, *ctx.DueDate)
		switch {
		case days <= 0:
			rate *= 0.5 // already overdue at creation
		case days <= 3:
			rate *= 1.2
		case days <= 7:
			rate *= 1.1
		case days > 30:
			rate *= 0.9
		}
	}

	switch ctx.CreatedAt.Weekday() {
	case time.Friday:
		rate *= 0.85
	case time.Saturday, time.Sunday:
		rate *= 0.7
	}

	return clamp(rate, 0.10, 0.95)
}

func (g *Generator) completionTimestamp(rng Source, ctx domain.WorkItemContext) time.Time {
	dept := g.department(ctx.Segment.Department)
	typ := g.workItemType(ctx.Segment.WorkItemType)

	spec := g.registry.Resolve(ctx.Segment, fieldCompletionDurationHours, sampling.ValueNumber)
	hours := g.sampler.Sample(rng, spec) * dept.DurationMultiplier

	// Deadline-driven compression: the closer the due date, the more the
	// duration is divided down toward the type's full acceleration.
	if ctx.DueDate != nil {
		if days := wholeDaysBetween(ctx.CreatedAt, *ctx.DueDate); days > 0 {
			accel := 1 + (typ.CompletionAcceleration-1)*(1-min(1, float64(days)/30))
			if accel > 0 {
				hours /= accel
			}
		}
	}

	completedAt := ctx.CreatedAt.Add(durationHours(hours))

	// A raw result past the due date re-anchors into the final stretch
	// before the deadline via a fresh uniform draw.
	if ctx.DueDate != nil && completedAt.After(*ctx.DueDate) {
		maxC := *ctx.DueDate
		minC := ctx.CreatedAt.Add(time.Hour)
		if floor := ctx.DueDate.Add(-3 * 24 * time.Hour); floor.After(minC) {
			minC = floor
		}
		if minC.Before(maxC) {
			completedAt = minC.Add(time.Duration(rng.Float64() * float64(maxC.Sub(minC))))
		}
	}

	completedAt = g.PlaceActivity(rng, completedAt, ctx.Segment, ActivityCompletion)

	// Final silent corrections: completion never precedes creation by less
	// than the minimum gap and never lands in the future.
	if floor := ctx.CreatedAt.Add(minCompletionGap); completedAt.Before(floor) {
		completedAt = floor
	}
	if completedAt.After(g.now) {
		completedAt = g.now
	}
	return completedAt
}

func (g *Generator) startTimestamp(rng Source, ctx domain.WorkItemContext, completedAt time.Time) time.Time {
	dept := g.department(ctx.Segment.Department)
	typ := g.workItemType(ctx.Segment.WorkItemType)

	spec := g.registry.Resolve(ctx.Segment, fieldStartDelayHours, sampling.ValueNumber)
	hours := g.sampler.Sample(rng, spec) * dept.StartDelayFactor * typ.StartDelayFactor

	startedAt := ctx.CreatedAt.Add(durationHours(hours))

	// Pull a start outside working hours back into the working window.
	if g.cal.IsBusinessDay(startedAt) {
		hour := clampInt(startedAt.Hour(), workHourStart, workHourEnd-1)
		startedAt = time.Date(startedAt.Year(), startedAt.Month(), startedAt.Day(),
			hour, rng.IntN(60), rng.IntN(60), 0, startedAt.Location())
	}

	// The bound clamp runs last so the ordering invariant holds no matter
	// what the snap did. Completion sits at least an hour after creation,
	// so this window is never empty.
	if floor := ctx.CreatedAt.Add(minStartLead); startedAt.Before(floor) {
		startedAt = floor
	}
	if ceil := completedAt.Add(-minStartHeadroom); startedAt.After(ceil) {
		startedAt = ceil
	}
	return startedAt
}

// PlaceActivity applies the weekend-pause policy and then, strictly last,
// snaps the time of day. Day-level relocation always precedes hour
// snapping so a snapped timestamp can never be re-introduced onto a
// weekend.
func (g *Generator) PlaceActivity(rng Source, t time.Time, seg domain.Segment, act Activity) time.Time {
	typ := g.workItemType(seg.WorkItemType)
	if isWeekend(t) && rng.Float64() >= typ.WeekendPauseFactor {
		t = g.cal.NextBusinessDay(t)
	}
	return g.snapHours(rng, t, act)
}

// snapHours redraws the time of day. Business days use the per-activity
// weighted hour table; weekends and holidays clamp the existing hour into
// the plausible at-home window instead of re-drawing from weekday peaks.
func (g *Generator) snapHours(rng Source, t time.Time, act Activity) time.Time {
	if g.cal.IsBusinessDay(t) {
		hour := g.weightedHour(rng, act)
		minute := skewedMinute(rng)
		return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, rng.IntN(60), 0, t.Location())
	}
	hour := clampInt(t.Hour(), weekendHourFloor, weekendHourCeil)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, rng.IntN(60), rng.IntN(60), 0, t.Location())
}

func (g *Generator) weightedHour(rng Source, act Activity) int {
	weights, ok := g.params.Hours[act]
	if !ok {
		weights = g.params.Hours[ActivityCreation]
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return workHourStart + rng.IntN(workHourEnd-workHourStart)
	}
	target := rng.Float64() * total
	for hour, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return hour
		}
	}
	return len(weights) - 1
}

func (g *Generator) department(name string) DepartmentProfile {
	if p, ok := g.params.Departments[name]; ok {
		return p
	}
	g.logger.Warn("unknown department, using default profile", "department", name)
	return g.params.DefaultDepartment
}

func (g *Generator) workItemType(name string) TypeProfile {
	if p, ok := g.params.Types[name]; ok {
		return p
	}
	g.logger.Warn("unknown work item type, using default profile", "type", name)
	return g.params.DefaultType
}

// skewedMinute favors on-the-hour and quarter-hour minutes the way humans
// actually timestamp activity.
func skewedMinute(rng Source) int {
	draw := rng.Float64()
	switch {
	case draw < 0.40:
		return 0
	case draw < 0.55:
		return 1 + rng.IntN(14)
	case draw < 0.70:
		return 15 + rng.IntN(15)
	case draw < 0.85:
		return 30 + rng.IntN(15)
	default:
		return 45 + rng.IntN(15)
	}
}

func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func durationHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
