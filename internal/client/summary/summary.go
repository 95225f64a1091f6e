// Package summary derives income and expense totals from booklet records.
// Any record that is not income counts as an expense.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/credebt/internal/client/models"
)

type Totals struct {
	Income  float64
	Expense float64
	Net     float64
}

func (t *Totals) add(r models.Record) {
	if r.Type == models.Income {
		t.Income += r.Amount
	} else {
		t.Expense += r.Amount
	}
	t.Net = t.Income - t.Expense
}

func Total(records []models.Record) Totals {
	var t Totals
	for _, r := range records {
		t.add(r)
	}
	return t
}

// Month totals the records whose When falls in the given month of loc.
func Month(records []models.Record, year int, month time.Month, loc *time.Location) Totals {
	var t Totals
	for _, r := range records {
		w := r.When()
		if w.IsZero() {
			continue
		}
		w = w.In(loc)
		if w.Year() == year && w.Month() == month {
			t.add(r)
		}
	}
	return t
}

type Day struct {
	Date string
	Totals
}

// LastDays returns n daily buckets ending today, newest first. Days
// without records are present with zero totals. A record is placed by the
// date of its last update, falling back to When.
func LastDays(records []models.Record, now time.Time, n int) []Day {
	if n <= 0 {
		return nil
	}
	loc := now.Location()

	days := make([]Day, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := now.AddDate(0, 0, -i).Format(time.DateOnly)
		days[i] = Day{Date: key}
		index[key] = i
	}

	for _, r := range records {
		at := r.UpdatedAt.Time
		if at.IsZero() {
			at = r.When()
		}
		if at.IsZero() {
			continue
		}
		if i, ok := index[at.In(loc).Format(time.DateOnly)]; ok {
			days[i].add(r)
		}
	}
	return days
}

type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
)

func (p Period) String() string {
	switch p {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "daily"
	}
}

func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	}
	return Daily, fmt.Errorf("unknown period %q (want daily, weekly or monthly)", s)
}

type Bucket struct {
	Key string
	Totals
}

// Key formats t for p: YYYY-MM-DD, ISO week YYYY-Www, or YYYY-MM.
func Key(t time.Time, p Period) string {
	switch p {
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Monthly:
		return t.Format("2006-01")
	default:
		return t.Format(time.DateOnly)
	}
}

// Group buckets records by period in loc, oldest bucket first. Records
// without any timestamp are skipped.
func Group(records []models.Record, p Period, loc *time.Location) []Bucket {
	byKey := map[string]*Bucket{}
	for _, r := range records {
		w := r.When()
		if w.IsZero() {
			continue
		}
		k := Key(w.In(loc), p)
		b, ok := byKey[k]
		if !ok {
			b = &Bucket{Key: k}
			byKey[k] = b
		}
		b.add(r)
	}

	out := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
