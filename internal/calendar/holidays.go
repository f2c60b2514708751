package calendar

import "time"

// Federal holiday rules for the single supported calendar (US). Irregular
// dates make closed-form business-day math impossible, so the calendar walks
// days and consults this set.

type holiday struct {
	Name string
	Date time.Time
}

// holidaysForYear computes the US federal holidays observed in a given year.
// Fixed-date holidays shift to their observed day when they fall on a
// weekend: Saturday is observed the Friday before, Sunday the Monday after.
func holidaysForYear(year int) []holiday {
	return []holiday{
		{"New Year's Day", observed(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))},
		{"Martin Luther King Jr. Day", nthWeekday(year, time.January, time.Monday, 3)},
		{"Washington's Birthday", nthWeekday(year, time.February, time.Monday, 3)},
		{"Memorial Day", lastWeekday(year, time.May, time.Monday)},
		{"Juneteenth", observed(time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC))},
		{"Independence Day", observed(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC))},
		{"Labor Day", nthWeekday(year, time.September, time.Monday, 1)},
		{"Columbus Day", nthWeekday(year, time.October, time.Monday, 2)},
		{"Veterans Day", observed(time.Date(year, time.November, 11, 0, 0, 0, 0, time.UTC))},
		{"Thanksgiving", nthWeekday(year, time.November, time.Thursday, 4)},
		{"Christmas Day", observed(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC))},
	}
}

// observed shifts a weekend holiday to its observed weekday.
func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

// nthWeekday returns the nth occurrence (1-based) of a weekday in a month.
func nthWeekday(year int, month time.Month, day time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(day) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the final occurrence of a weekday in a month.
func lastWeekday(year int, month time.Month, day time.Weekday) time.Time {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(t.Weekday()) - int(day) + 7) % 7
	return t.AddDate(0, 0, -offset)
}
