package vigildb

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"vigil/internal/record"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vigil_test.sqlite")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	return db
}

func TestArchiveRoundTrip(t *testing.T) {
	db := openTestDB(t)

	recs := []record.Record{
		{
			Source: "Lebanon", Admin1: "Beirut", Keyword: "fire",
			Sentiment: record.SentimentWarning, Title: "fire near the port",
			Author: "obs1", Timestamp: "2026-08-29T08:00:00Z",
			Published: time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC),
			URL:       "https://example.com/1",
		},
		{
			Source: "Al Jazeera English", Admin1: "Unknown", Keyword: "protest",
			Sentiment: record.SentimentNeutral, Title: "march downtown",
			Timestamp: "2026-08-28T12:00:00Z",
			Published: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
			URL:       "https://example.com/2",
		},
	}
	saved, err := ArchiveAll(t.Context(), db, recs)
	if err != nil {
		t.Fatalf("ArchiveAll failed: %v", err)
	}
	if saved != 2 {
		t.Fatalf("saved = %d, want 2", saved)
	}

	got, err := GetSince(t.Context(), db, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "", "", 0)
	if err != nil {
		t.Fatalf("GetSince failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	// Newest first.
	if got[0].URL != "https://example.com/1" {
		t.Fatalf("expected newest record first, got %q", got[0].URL)
	}
	if got[0].Admin1 != "Beirut" || got[0].Keyword != "fire" || got[0].Sentiment != record.SentimentWarning {
		t.Fatalf("row did not survive the round trip: %+v", got[0])
	}
}

func TestArchiveUpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	rec := record.Record{
		Source: "Lebanon", Admin1: "Beirut", Keyword: "fire",
		Sentiment: record.SentimentWarning, Title: "fire near the port",
		Published: time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC),
		URL:       "https://example.com/1",
	}
	for i := 0; i < 3; i++ {
		if _, err := ArchiveAll(t.Context(), db, []record.Record{rec}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	got, err := GetSince(t.Context(), db, time.Time{}, "", "", 0)
	if err != nil {
		t.Fatalf("GetSince failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record after repeated archiving, got %d", len(got))
	}
}

func TestGetSinceCutoff(t *testing.T) {
	db := openTestDB(t)

	recs := []record.Record{
		{
			Source: "Lebanon", Admin1: "Beirut", Keyword: "fire",
			Sentiment: record.SentimentWarning, Title: "old row",
			Published: time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC),
			URL:       "https://example.com/old",
		},
		{
			Source: "Lebanon", Admin1: "Beirut", Keyword: "fire",
			Sentiment: record.SentimentWarning, Title: "new row",
			Published: time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
			URL:       "https://example.com/new",
		},
	}
	if _, err := ArchiveAll(t.Context(), db, recs); err != nil {
		t.Fatal(err)
	}

	// Since falls strictly between the two publish times.
	got, err := GetSince(t.Context(), db, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), "", "", 0)
	if err != nil {
		t.Fatalf("GetSince failed: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/new" {
		t.Fatalf("cutoff not applied: got %+v", got)
	}
	if want := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC); !got[0].Published.Equal(want) {
		t.Fatalf("published did not survive storage: got %v, want %v", got[0].Published, want)
	}
}

func TestArchiveReportsOpenFailure(t *testing.T) {
	_, err := Archive(t.Context(), filepath.Join(t.TempDir(), "missing", "sub", "vigil.db"), []record.Record{
		{Source: "Lebanon", Title: "a", URL: "https://example.com/a"},
	})
	if err == nil {
		t.Fatal("expected an error for an uncreatable database path")
	}
}

func TestGetSinceFilters(t *testing.T) {
	db := openTestDB(t)

	recs := []record.Record{
		{Source: "Lebanon", Admin1: "Beirut", Keyword: "fire", Sentiment: record.SentimentWarning, Title: "a", URL: "https://example.com/a", Published: time.Now().UTC()},
		{Source: "Syria", Admin1: "Homs", Keyword: "protest", Sentiment: record.SentimentNeutral, Title: "b", URL: "https://example.com/b", Published: time.Now().UTC()},
	}
	if _, err := ArchiveAll(t.Context(), db, recs); err != nil {
		t.Fatal(err)
	}

	got, err := GetSince(t.Context(), db, time.Time{}, "Syria", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Source != "Syria" {
		t.Fatalf("source filter: got %+v", got)
	}

	got, err = GetSince(t.Context(), db, time.Time{}, "", "Warning", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Sentiment != record.SentimentWarning {
		t.Fatalf("sentiment filter: got %+v", got)
	}
}
