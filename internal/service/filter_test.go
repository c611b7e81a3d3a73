package service

import (
	"testing"
	"time"

	"admin_go/internal/domain"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestDateRange_Contains(t *testing.T) {
	tests := []struct {
		name string
		r    DateRange
		at   time.Time
		want bool
	}{
		{"inside window", DateRange{Start: day(2026, 3, 1, 0), End: day(2026, 3, 10, 0)}, day(2026, 3, 5, 12), true},
		{"end day late evening", DateRange{Start: day(2026, 3, 1, 0), End: day(2026, 3, 10, 0)}, day(2026, 3, 10, 23), true},
		{"day after end", DateRange{End: day(2026, 3, 10, 0)}, day(2026, 3, 11, 0), false},
		{"day before start", DateRange{Start: day(2026, 3, 1, 0)}, day(2026, 2, 28, 23), false},
		{"start midnight", DateRange{Start: day(2026, 3, 1, 0)}, day(2026, 3, 1, 0), true},
		{"no bounds", DateRange{}, day(2026, 1, 1, 0), true},
		{"start only, far future", DateRange{Start: day(2026, 3, 1, 0)}, day(2027, 1, 1, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestFilterByDate(t *testing.T) {
	type rec struct {
		id string
		at time.Time
	}
	items := []rec{
		{"a", day(2026, 3, 1, 10)},
		{"b", day(2026, 3, 10, 23)},
		{"c", day(2026, 3, 11, 1)},
	}
	at := func(r rec) time.Time { return r.at }

	t.Run("inactive range copies everything", func(t *testing.T) {
		got := FilterByDate(items, at, DateRange{})
		if len(got) != len(items) {
			t.Fatalf("got %d items, want %d", len(got), len(items))
		}
	})

	t.Run("end of day is inclusive", func(t *testing.T) {
		got := FilterByDate(items, at, DateRange{Start: day(2026, 3, 1, 0), End: day(2026, 3, 10, 0)})
		if len(got) != 2 || got[0].id != "a" || got[1].id != "b" {
			t.Fatalf("got %v, want [a b]", got)
		}
	})

	t.Run("start after end yields empty", func(t *testing.T) {
		got := FilterByDate(items, at, DateRange{Start: day(2026, 3, 20, 0), End: day(2026, 3, 1, 0)})
		if len(got) != 0 {
			t.Fatalf("got %d items, want 0", len(got))
		}
	})

	t.Run("recompute is from the full source", func(t *testing.T) {
		narrow := FilterByDate(items, at, DateRange{End: day(2026, 3, 1, 0)})
		if len(narrow) != 1 {
			t.Fatalf("narrow: got %d, want 1", len(narrow))
		}
		wide := FilterByDate(items, at, DateRange{End: day(2026, 3, 31, 0)})
		if len(wide) != 3 {
			t.Fatalf("widening must recover all items: got %d, want 3", len(wide))
		}
	})
}

func TestFilterUsers(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Name: "Ravi Kumar", Email: "ravi@example.com", CreatedAt: day(2026, 3, 2, 9)},
		{ID: "u2", Name: "Anita Shah", Email: "anita@example.com", CreatedAt: day(2026, 3, 8, 14)},
		{ID: "u3", Name: "Ravi Patel", Email: "rp@example.com", CreatedAt: day(2026, 4, 1, 8)},
	}

	t.Run("search only", func(t *testing.T) {
		got := FilterUsers(users, "ravi", DateRange{})
		if len(got) != 2 {
			t.Fatalf("got %d users, want 2", len(got))
		}
	})

	t.Run("search and range are an AND", func(t *testing.T) {
		got := FilterUsers(users, "ravi", DateRange{Start: day(2026, 3, 1, 0), End: day(2026, 3, 31, 0)})
		if len(got) != 1 || got[0].ID != "u1" {
			t.Fatalf("got %v, want [u1]", got)
		}
	})

	t.Run("empty term matches all", func(t *testing.T) {
		got := FilterUsers(users, "", DateRange{})
		if len(got) != 3 {
			t.Fatalf("got %d users, want 3", len(got))
		}
	})
}
