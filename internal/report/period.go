package report

import "time"

// Period is an inclusive timestamp range used for aggregation.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether ts falls inside the period.
func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.Start) && !ts.After(p.End)
}

// Today returns the current UTC day.
func Today() Period {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Nanosecond), Label: "Today"}
}

// ThisMonth returns the current UTC calendar month.
func ThisMonth() Period {
	now := time.Now().UTC()
	p := Month(now.Year(), now.Month())
	p.Label = "This Month"
	return p
}

// ThisYear returns the current UTC calendar year.
func ThisYear() Period {
	now := time.Now().UTC()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond), Label: "This Year"}
}

// Month returns a specific calendar month.
func Month(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
		Label: start.Format("January 2006"),
	}
}
