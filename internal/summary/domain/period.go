package domain

import (
	"fmt"
	"sort"
	"time"
)

// Period is a calendar month key in "YYYY-MM" form. Summary buckets and
// measurement windows are keyed by Period.
type Period string

func PeriodOf(t time.Time) Period {
	return Period(t.UTC().Format("2006-01"))
}

func (p Period) Valid() bool {
	_, err := p.Start()
	return err == nil
}

// Start returns the first instant of the month in UTC.
func (p Period) Start() (time.Time, error) {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q: %w", string(p), err)
	}
	return t.UTC(), nil
}

func (p Period) Next() Period {
	t, err := p.Start()
	if err != nil {
		return p
	}
	return PeriodOf(t.AddDate(0, 1, 0))
}

// PeriodsBetween returns every month key from (inclusive) through to
// (inclusive), oldest first. Empty when from is after to or either is invalid.
func PeriodsBetween(from, to Period) []Period {
	start, err := from.Start()
	if err != nil {
		return nil
	}
	end, err := to.Start()
	if err != nil {
		return nil
	}

	var out []Period
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		out = append(out, PeriodOf(cur))
	}
	return out
}

// RollingWindow returns the 12 most recent month keys ending at now,
// oldest first.
func RollingWindow(now time.Time) []Period {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	return PeriodsBetween(PeriodOf(start), PeriodOf(now))
}

// CalendarWindow returns the month keys from January of now's year through
// now's month.
func CalendarWindow(now time.Time) []Period {
	now = now.UTC()
	jan := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return PeriodsBetween(PeriodOf(jan), PeriodOf(now))
}

// UnionPeriods merges the two windows into a deduplicated, sorted key set.
func UnionPeriods(a, b []Period) []Period {
	seen := make(map[Period]struct{}, len(a)+len(b))
	var out []Period
	for _, list := range [][]Period{a, b} {
		for _, p := range list {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
