package search

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"vigil/internal/record"
)

func TestPlanCrossProduct(t *testing.T) {
	keywords := []string{"fire", "flood", "protest"}
	locations := []record.Location{
		{Country: "Lebanon", Cities: []string{"Beirut", "Tripoli"}},
		{Country: "Syria", Cities: []string{"Damascus"}},
	}
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	queries := Plan(keywords, locations, 1, 100, now)

	if len(queries) != 9 { // 3 cities x 3 keywords
		t.Fatalf("expected 9 queries, got %d", len(queries))
	}

	seen := map[string]bool{}
	for _, q := range queries {
		key := q.Country + "|" + q.City + "|" + q.Keyword
		if seen[key] {
			t.Fatalf("duplicate descriptor: %s", key)
		}
		seen[key] = true
		if q.Cap != 100 {
			t.Fatalf("query %s: cap = %d, want 100", key, q.Cap)
		}
		if !strings.Contains(q.Text, "since:2026-08-28") || !strings.Contains(q.Text, "until:2026-08-29") {
			t.Fatalf("query %s: wrong window in %q", key, q.Text)
		}
		if !strings.HasSuffix(q.Text, "lang:en") {
			t.Fatalf("query %s: missing lang filter in %q", key, q.Text)
		}
	}
}

func TestPlanOrder(t *testing.T) {
	keywords := []string{"fire", "flood"}
	locations := []record.Location{
		{Country: "Lebanon", Cities: []string{"Beirut", "Tripoli"}},
		{Country: "Syria", Cities: []string{"Damascus"}},
	}
	queries := Plan(keywords, locations, 1, 10, time.Now())

	want := []string{
		"Lebanon|Beirut|fire",
		"Lebanon|Beirut|flood",
		"Lebanon|Tripoli|fire",
		"Lebanon|Tripoli|flood",
		"Syria|Damascus|fire",
		"Syria|Damascus|flood",
	}
	for i, q := range queries {
		got := q.Country + "|" + q.City + "|" + q.Keyword
		if got != want[i] {
			t.Fatalf("query %d: got %s, want %s", i, got, want[i])
		}
	}
}

func TestPlanQueryText(t *testing.T) {
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	queries := Plan([]string{"fire"}, []record.Location{{Country: "Lebanon", Cities: []string{"Beirut"}}}, 2, 5, now)
	if len(queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(queries))
	}
	want := fmt.Sprintf("fire Beirut since:%s until:%s lang:en", "2026-08-27", "2026-08-29")
	if queries[0].Text != want {
		t.Fatalf("got %q, want %q", queries[0].Text, want)
	}
}
