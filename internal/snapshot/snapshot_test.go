package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"vigil/internal/record"
)

func sampleRecords() []record.Record {
	return []record.Record{
		{
			Source:    "Al Jazeera English",
			Admin1:    "Beirut",
			Keyword:   "fire",
			Sentiment: record.SentimentWarning,
			Title:     "Fire breaks out in Beirut",
			Summary:   "A large fire was reported near the port",
			Author:    "Al Jazeera English",
			Timestamp: "2026-08-29T10:00:00Z",
			URL:       "https://example.com/fire",
		},
		{
			Source:    "Syria",
			Admin1:    "Homs",
			Keyword:   "protest",
			Sentiment: record.SentimentNeutral,
			Title:     "march held downtown, with \"quotes\" and, commas",
			Author:    "witness42",
			Timestamp: "2026-08-29T09:30:00Z",
			URL:       "https://example.com/protest",
		},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	want := sampleRecords()

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := Load(path)

	if len(got) != len(want) {
		t.Fatalf("row count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.Source != w.Source || g.Admin1 != w.Admin1 || g.Keyword != w.Keyword ||
			g.Sentiment != w.Sentiment || g.Title != w.Title || g.Summary != w.Summary ||
			g.Author != w.Author || g.Timestamp != w.Timestamp || g.URL != w.URL {
			t.Fatalf("row %d mismatch:\ngot  %+v\nwant %+v", i, g, w)
		}
	}
	if got[0].Published.IsZero() {
		t.Fatal("expected parsed publish time for RFC3339 timestamp")
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	if err := Save(path, sampleRecords()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := Save(path, sampleRecords()[:1]); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if got := Load(path); len(got) != 1 {
		t.Fatalf("expected full overwrite to leave 1 row, got %d", len(got))
	}
}

func TestLoadMissingFile(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if len(got) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(got))
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.csv")
	if err := os.WriteFile(path, []byte("not,a\"snapshot\nat all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(path); len(got) != 0 {
		t.Fatalf("expected empty table for malformed file, got %d rows", len(got))
	}
}

func TestSaveEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := Save(path, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := Load(path); len(got) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(got))
	}
}
