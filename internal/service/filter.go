package service

import (
	"time"

	"admin_go/internal/domain"
)

// DateRange is an inclusive calendar-day window. A zero bound is
// unbounded on that side. The end bound covers the whole end day: a
// record created at 23:00 on the end date is inside the range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsActive reports whether any bound is set.
func (r DateRange) IsActive() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

// Contains reports whether t falls inside the window.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(dayStart(r.Start)) {
		return false
	}
	if !r.End.IsZero() && !t.Before(dayStart(r.End).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FilterByDate recomputes the filtered view of items from scratch. The
// result replaces any previous view; with both bounds absent it equals
// the source collection.
func FilterByDate[T any](items []T, createdAt func(T) time.Time, r DateRange) []T {
	if !r.IsActive() {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if r.Contains(createdAt(item)) {
			out = append(out, item)
		}
	}
	return out
}

// FilterUsers applies the free-text search and the date range as a
// logical AND over the canonical source list. Both predicates always run
// against the source, never against an already-filtered view, so neither
// filter can go stale when the other changes.
func FilterUsers(users []domain.User, term string, r DateRange) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if !u.MatchesSearch(term) {
			continue
		}
		if r.IsActive() && !r.Contains(u.CreatedAt) {
			continue
		}
		out = append(out, u)
	}
	return out
}
