package calendar

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CalendarSuite struct {
	suite.Suite
	cal *Calendar
}

func TestCalendarSuite(t *testing.T) {
	suite.Run(t, new(CalendarSuite))
}

func (s *CalendarSuite) SetupTest() {
	s.cal = New(nil)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *CalendarSuite) TestIsBusinessDay() {
	s.Run("new year's day is a holiday", func() {
		s.False(s.cal.IsBusinessDay(day(2026, time.January, 1)))
		name, ok := s.cal.HolidayName(day(2026, time.January, 1))
		s.True(ok)
		s.Equal("New Year's Day", name)
	})

	s.Run("regular friday is a business day", func() {
		s.True(s.cal.IsBusinessDay(day(2026, time.January, 2)))
	})

	s.Run("weekend is never a business day", func() {
		s.False(s.cal.IsBusinessDay(day(2026, time.January, 3))) // Saturday
		s.False(s.cal.IsBusinessDay(day(2026, time.January, 4))) // Sunday
	})

	s.Run("nth weekday holidays", func() {
		// MLK Day 2026 is the third Monday of January.
		s.False(s.cal.IsBusinessDay(day(2026, time.January, 19)))
		// Thanksgiving 2026 is the fourth Thursday of November.
		s.False(s.cal.IsBusinessDay(day(2026, time.November, 26)))
		// Memorial Day 2026 is the last Monday of May.
		s.False(s.cal.IsBusinessDay(day(2026, time.May, 25)))
	})

	s.Run("extra config holidays are honored", func() {
		cal := New(map[time.Time]string{day(2026, time.March, 17): "Founding Day"})
		s.False(cal.IsBusinessDay(day(2026, time.March, 17)))
		name, ok := cal.HolidayName(day(2026, time.March, 17))
		s.True(ok)
		s.Equal("Founding Day", name)
	})
}

func (s *CalendarSuite) TestObservedHolidayShifts() {
	s.Run("saturday holiday observed friday", func() {
		// July 4 2026 is a Saturday; observed Friday July 3.
		s.False(s.cal.IsBusinessDay(day(2026, time.July, 3)))
		name, ok := s.cal.HolidayName(day(2026, time.July, 3))
		s.True(ok)
		s.Equal("Independence Day", name)
	})

	s.Run("sunday holiday observed monday", func() {
		// July 4 2027 is a Sunday; observed Monday July 5.
		s.False(s.cal.IsBusinessDay(day(2027, time.July, 5)))
		name, ok := s.cal.HolidayName(day(2027, time.July, 5))
		s.True(ok)
		s.Equal("Independence Day", name)
	})

	s.Run("new year observed in prior december", func() {
		// Jan 1 2028 is a Saturday; observed Friday December 31 2027.
		s.False(s.cal.IsBusinessDay(day(2027, time.December, 31)))
		name, ok := s.cal.HolidayName(day(2027, time.December, 31))
		s.True(ok)
		s.Equal("New Year's Day", name)
	})

	s.Run("weekday fixed holidays stay put", func() {
		// Veterans Day 2026 is a Wednesday.
		s.False(s.cal.IsBusinessDay(day(2026, time.November, 11)))
		s.True(s.cal.IsBusinessDay(day(2026, time.November, 10)))
	})
}

func (s *CalendarSuite) TestOffsetByBusinessDays() {
	// Friday 2026-01-02: +1 skips the weekend to Monday 2026-01-05.
	s.Equal(day(2026, time.January, 5), s.cal.OffsetByBusinessDays(day(2026, time.January, 2), 1))
	// -1 from Friday lands on Wednesday 2025-12-31 (Jan 1 is a holiday only
	// going forward; Dec 31 2025 is a plain Wednesday).
	s.Equal(day(2025, time.December, 31), s.cal.OffsetByBusinessDays(day(2026, time.January, 2), -1))
	// Zero offset returns the base untouched, business day or not.
	s.Equal(day(2026, time.January, 3), s.cal.OffsetByBusinessDays(day(2026, time.January, 3), 0))
	// Stepping over MLK Day: Friday 2026-01-16 +1 lands on Tuesday 2026-01-20.
	s.Equal(day(2026, time.January, 20), s.cal.OffsetByBusinessDays(day(2026, time.January, 16), 1))
}

func (s *CalendarSuite) TestOffsetRoundTrip() {
	// Forward-then-back returns to the start for business-day anchors.
	anchors := []time.Time{
		day(2026, time.January, 2),
		day(2026, time.February, 10),
		day(2026, time.June, 3),
		day(2026, time.September, 14),
	}
	for _, anchor := range anchors {
		s.Require().True(s.cal.IsBusinessDay(anchor))
		for n := 0; n <= 15; n++ {
			out := s.cal.OffsetByBusinessDays(anchor, n)
			back := s.cal.OffsetByBusinessDays(out, -n)
			s.Equal(anchor, back, "anchor %s n=%d", anchor, n)
		}
	}
}

func (s *CalendarSuite) TestNextPreviousBusinessDay() {
	// Saturday rolls forward to Monday and back to Friday.
	s.Equal(day(2026, time.January, 5), s.cal.NextBusinessDay(day(2026, time.January, 3)))
	s.Equal(day(2026, time.January, 2), s.cal.PreviousBusinessDay(day(2026, time.January, 3)))
	// Time of day survives the walk.
	at := time.Date(2026, time.January, 2, 14, 45, 0, 0, time.UTC)
	s.Equal(time.Date(2026, time.January, 5, 14, 45, 0, 0, time.UTC), s.cal.NextBusinessDay(at))
}

func (s *CalendarSuite) TestRandomBusinessDayIn() {
	rng := rand.New(rand.NewPCG(1, 2))

	s.Run("always lands on a business day inside the window", func() {
		start, end := day(2026, time.January, 1), day(2026, time.January, 31)
		for range 100 {
			got := s.cal.RandomBusinessDayIn(rng, start, end)
			s.True(s.cal.IsBusinessDay(got))
			s.False(got.Before(start))
			s.False(got.After(end))
		}
	})

	s.Run("empty window falls back to next business day", func() {
		// Jan 1 2026 is a holiday; a single-day window around it has no
		// business days at all.
		got := s.cal.RandomBusinessDayIn(rng, day(2026, time.January, 1), day(2026, time.January, 1))
		s.Equal(day(2026, time.January, 2), got)
	})

	s.Run("weekend-only window falls back past the weekend", func() {
		got := s.cal.RandomBusinessDayIn(rng, day(2026, time.January, 3), day(2026, time.January, 4))
		s.Equal(day(2026, time.January, 5), got)
	})
}

func (s *CalendarSuite) TestBusinessDaysIn() {
	// January 2026: 22 weekdays minus New Year's Day and MLK Day.
	s.Equal(20, s.cal.BusinessDaysIn(day(2026, time.January, 1), day(2026, time.January, 31)))
	// Reversed bounds are normalized.
	s.Equal(20, s.cal.BusinessDaysIn(day(2026, time.January, 31), day(2026, time.January, 1)))
}
