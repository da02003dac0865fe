package list

import (
	"testing"

	"vigil/internal/record"
)

func sampleRows() []record.Record {
	return []record.Record{
		{Source: "Al Jazeera English", Sentiment: record.SentimentWarning, Title: "a"},
		{Source: "Al Jazeera English", Sentiment: record.SentimentNeutral, Title: "b"},
		{Source: "Lebanon", Sentiment: record.SentimentWarning, Title: "c"},
		{Source: "Syria", Sentiment: record.SentimentRumor, Title: "d"},
	}
}

func TestFilterAll(t *testing.T) {
	rows := sampleRows()
	if got := Filter(rows, "All", "all"); len(got) != len(rows) {
		t.Fatalf("All/all should be a no-op, got %d rows", len(got))
	}
	if got := Filter(rows, "", ""); len(got) != len(rows) {
		t.Fatalf("empty filters should be a no-op, got %d rows", len(got))
	}
}

func TestFilterBySource(t *testing.T) {
	got := Filter(sampleRows(), "Al Jazeera English", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, r := range got {
		if r.Source != "Al Jazeera English" {
			t.Fatalf("unexpected source %q", r.Source)
		}
	}
}

func TestFilterBySentiment(t *testing.T) {
	got := Filter(sampleRows(), "", "Warning")
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
}

func TestFiltersAreIndependent(t *testing.T) {
	got := Filter(sampleRows(), "Lebanon", "Warning")
	if len(got) != 1 || got[0].Title != "c" {
		t.Fatalf("expected the single Lebanon Warning row, got %+v", got)
	}
}
