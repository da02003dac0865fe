package config

import (
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"vigil/internal/record"
)

func TestDefaultsAreValid(t *testing.T) {
	ac := Defaults()
	if err := ac.Validate(); err != nil {
		t.Fatalf("Defaults() should validate, got %v", err)
	}
	if len(ac.Feeds) == 0 || len(ac.Keywords) == 0 || len(ac.Locations) == 0 {
		t.Fatalf("defaults missing core lists: %+v", ac)
	}
	if ac.Search.PerQueryCap != 100 || ac.Search.DaysBack != 1 {
		t.Fatalf("unexpected search defaults: %+v", ac.Search)
	}
	if ac.SnapshotPath == "" || ac.DatabasePath == "" {
		t.Fatalf("fallback paths not applied: %q %q", ac.SnapshotPath, ac.DatabasePath)
	}
}

func TestParseYAMLOverridesDefaults(t *testing.T) {
	doc := `
feeds:
  - name: "Local Wire"
    url: "http://localhost:8080/rss"
keywords: ["fire", "flood"]
rules:
  warning: ["fire"]
  rumor: ["rumor"]
locations:
  - country: "Lebanon"
    cities: ["Beirut"]
search:
  base_url: "http://localhost:8080"
  per_query_cap: 25
  days_back: 3
snapshot_path: "/tmp/vigil/snapshot.csv"
`
	ac := Defaults()
	if err := yaml.Unmarshal([]byte(doc), &ac); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ac.applyFallbacks()

	if len(ac.Feeds) != 1 || ac.Feeds[0].Name != "Local Wire" {
		t.Fatalf("feeds not overridden: %+v", ac.Feeds)
	}
	if len(ac.Keywords) != 2 {
		t.Fatalf("keywords not overridden: %v", ac.Keywords)
	}
	if ac.Search.BaseURL != "http://localhost:8080" || ac.Search.PerQueryCap != 25 || ac.Search.DaysBack != 3 {
		t.Fatalf("search not overridden: %+v", ac.Search)
	}
	// Timeout was omitted; the fallback should fill it.
	if ac.Search.TimeoutSec != 30 {
		t.Fatalf("timeout fallback not applied: %d", ac.Search.TimeoutSec)
	}
	if ac.SnapshotPath != filepath.Join("/tmp", "vigil", "snapshot.csv") {
		t.Fatalf("snapshot path: %q", ac.SnapshotPath)
	}
	if err := ac.Validate(); err != nil {
		t.Fatalf("overridden config should validate, got %v", err)
	}
}

func TestLocationOrderPreserved(t *testing.T) {
	doc := `
locations:
  - country: "Syria"
    cities: ["Damascus", "Aleppo"]
  - country: "Lebanon"
    cities: ["Beirut"]
`
	var ac AppConfig
	if err := yaml.Unmarshal([]byte(doc), &ac); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []record.Location{
		{Country: "Syria", Cities: []string{"Damascus", "Aleppo"}},
		{Country: "Lebanon", Cities: []string{"Beirut"}},
	}
	if len(ac.Locations) != len(want) {
		t.Fatalf("got %d locations", len(ac.Locations))
	}
	for i := range want {
		if ac.Locations[i].Country != want[i].Country {
			t.Fatalf("location %d: got %q want %q", i, ac.Locations[i].Country, want[i].Country)
		}
	}
}

func TestMaxPostsPerFeedZeroMeansUnbounded(t *testing.T) {
	ac := Defaults()
	if ac.RSS.MaxPostsPerFeed != 100 {
		t.Fatalf("default cap = %d, want 100", ac.RSS.MaxPostsPerFeed)
	}

	// An explicit zero survives the fallbacks: no cap.
	if err := yaml.Unmarshal([]byte("rss:\n  max_posts_per_feed: 0\n"), &ac); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ac.applyFallbacks()
	if ac.RSS.MaxPostsPerFeed != 0 {
		t.Fatalf("explicit 0 was overridden to %d", ac.RSS.MaxPostsPerFeed)
	}

	// Negative values normalize to unbounded rather than a made-up cap.
	ac.RSS.MaxPostsPerFeed = -5
	ac.applyFallbacks()
	if ac.RSS.MaxPostsPerFeed != 0 {
		t.Fatalf("negative cap normalized to %d, want 0", ac.RSS.MaxPostsPerFeed)
	}

	// An absent key keeps the built-in default.
	ac = Defaults()
	if err := yaml.Unmarshal([]byte("rss:\n  timeout: 10\n"), &ac); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ac.applyFallbacks()
	if ac.RSS.MaxPostsPerFeed != 100 {
		t.Fatalf("absent key changed the default: %d", ac.RSS.MaxPostsPerFeed)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
		frag   string
	}{
		{"no keywords", func(ac *AppConfig) { ac.Keywords = nil }, "keywords"},
		{"no rules", func(ac *AppConfig) { ac.Rules = RuleConfig{} }, "rules"},
		{"no locations", func(ac *AppConfig) { ac.Locations = nil }, "locations"},
		{"empty country", func(ac *AppConfig) {
			ac.Locations = []record.Location{{Country: "  ", Cities: []string{"Beirut"}}}
		}, "empty country"},
		{"country without cities", func(ac *AppConfig) {
			ac.Locations = []record.Location{{Country: "Lebanon"}}
		}, "no cities"},
		{"no sources at all", func(ac *AppConfig) {
			ac.Feeds = nil
			ac.Search.BaseURL = ""
		}, "no feeds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ac := Defaults()
			tc.mutate(&ac)
			err := ac.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.frag) {
				t.Fatalf("error %q does not mention %q", err, tc.frag)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("VIGIL_TEST_DIR", "/tmp/vigil")
	if got := ExpandPath("$VIGIL_TEST_DIR/snap.csv"); got != "/tmp/vigil/snap.csv" {
		t.Fatalf("env expansion: %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Fatalf("empty path: %q", got)
	}
	if got := ExpandPath("~/data.csv"); strings.HasPrefix(got, "~") {
		t.Fatalf("tilde not expanded: %q", got)
	}
}
