// Package calendar implements business-day arithmetic over a weekday plus
// holiday-set calendar. All operations are pure date walks; holidays are
// irregular, so there is deliberately no closed-form offset math here.
package calendar

import (
	"sync"
	"time"
)

// Source is the slice of randomness the calendar consumes. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Calendar answers business-day questions. Safe for concurrent use; the
// only mutable state is the lazily built per-year holiday cache.
type Calendar struct {
	mu    sync.Mutex
	years map[int]map[string]string // yyyy -> day key -> holiday name
	extra map[string]string         // config-supplied dates, day key -> name
}

// New builds a calendar over the US federal holiday set plus any extra
// dates supplied by configuration.
func New(extra map[time.Time]string) *Calendar {
	c := &Calendar{
		years: make(map[int]map[string]string),
		extra: make(map[string]string, len(extra)),
	}
	for d, name := range extra {
		c.extra[dayKey(d)] = name
	}
	return c
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (c *Calendar) holidaySet(year int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.years[year]; ok {
		return set
	}
	set := make(map[string]string)
	for _, h := range holidaysForYear(year) {
		set[dayKey(h.Date)] = h.Name
	}
	c.years[year] = set
	return set
}

// HolidayName returns the holiday falling on the given date, if any.
func (c *Calendar) HolidayName(t time.Time) (string, bool) {
	key := dayKey(t)
	if name, ok := c.extra[key]; ok {
		return name, true
	}
	if name, ok := c.holidaySet(t.Year())[key]; ok {
		return name, true
	}
	// New Year's Day observed on a December 31 Friday belongs to the
	// following year's set.
	if t.Month() == time.December {
		name, ok := c.holidaySet(t.Year() + 1)[key]
		return name, ok
	}
	return "", false
}

// IsBusinessDay reports whether t falls on a weekday that is not a holiday.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.HolidayName(t)
	return !holiday
}

// OffsetByBusinessDays walks one calendar day at a time in the sign of n,
// consuming a step only on business days. n=0 returns base unchanged.
func (c *Calendar) OffsetByBusinessDays(base time.Time, n int) time.Time {
	if n == 0 {
		return base
	}
	step := 1
	remaining := n
	if n < 0 {
		step = -1
		remaining = -n
	}
	current := base
	for remaining > 0 {
		current = current.AddDate(0, 0, step)
		if c.IsBusinessDay(current) {
			remaining--
		}
	}
	return current
}

// NextBusinessDay returns the first business day strictly after t, at the
// same time of day.
func (c *Calendar) NextBusinessDay(t time.Time) time.Time {
	return c.OffsetByBusinessDays(t, 1)
}

// PreviousBusinessDay returns the last business day strictly before t.
func (c *Calendar) PreviousBusinessDay(t time.Time) time.Time {
	return c.OffsetByBusinessDays(t, -1)
}

// BusinessDaysIn counts business days in [start, end] inclusive.
func (c *Calendar) BusinessDaysIn(start, end time.Time) int {
	if end.Before(start) {
		start, end = end, start
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			count++
		}
	}
	return count
}

// RandomBusinessDayIn picks a uniformly random business day in [start, end].
// A window with no business days at all falls back to the next business day
// after start so callers always get a usable date.
func (c *Calendar) RandomBusinessDayIn(rng Source, start, end time.Time) time.Time {
	if end.Before(start) {
		start, end = end, start
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return c.NextBusinessDay(start)
	}
	return days[rng.IntN(len(days))]
}
