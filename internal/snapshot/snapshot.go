// Package snapshot persists the result table as a flat CSV file. Each save
// overwrites the file wholesale; load is best-effort and substitutes an
// empty table for anything missing or malformed.
package snapshot

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"vigil/internal/record"
)

var header = []string{"source", "admin1", "keyword", "sentiment", "title", "summary", "author", "timestamp", "url"}

// Save writes the full table to path, replacing any previous snapshot.
func Save(path string, records []record.Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Source,
			r.Admin1,
			r.Keyword,
			string(r.Sentiment),
			r.Title,
			r.Summary,
			r.Author,
			r.Timestamp,
			r.URL,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// Load reads the snapshot at path. A missing, unreadable or malformed file
// yields an empty table, never an error; the dashboard degrades to "no data".
func Load(path string) []record.Record {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 1 {
		return nil
	}

	var out []record.Record
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < len(header) {
			continue
		}
		rec := record.Record{
			Source:    row[0],
			Admin1:    row[1],
			Keyword:   row[2],
			Sentiment: record.Sentiment(row[3]),
			Title:     row[4],
			Summary:   row[5],
			Author:    row[6],
			Timestamp: row[7],
			URL:       row[8],
		}
		if ts, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
			rec.Published = ts.UTC()
		}
		out = append(out, rec)
	}
	return out
}
