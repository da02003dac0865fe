package list

import (
	"context"
	"fmt"
	"strings"

	"vigil/internal/config"
	"vigil/internal/record"
	"vigil/internal/snapshot"
)

// Run prints the current snapshot with optional equality filters. Empty
// source/sentiment mean "All".
func Run(ctx context.Context, source, sentiment string, limit int) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}

	rows := snapshot.Load(cfg.SnapshotPath)
	if len(rows) == 0 {
		fmt.Printf("No snapshot data at %s.\n", cfg.SnapshotPath)
		fmt.Println("Hint: run './vigil fetch' to pull the latest feeds and searches.")
		return nil
	}

	rows = Filter(rows, source, sentiment)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	if len(rows) == 0 {
		fmt.Println("No records match the given filters.")
		return nil
	}

	fmt.Printf("Found %d records:\n\n", len(rows))
	for _, r := range rows {
		fmt.Printf("Date: %s\n", r.Timestamp)
		fmt.Printf("Source: %s\n", r.Source)
		fmt.Printf("Admin1: %s\n", r.Admin1)
		fmt.Printf("Keyword: %s\n", r.Keyword)
		fmt.Printf("Sentiment: %s\n", r.Sentiment)
		fmt.Printf("Title: %s\n", r.Title)
		if strings.TrimSpace(r.Summary) != "" {
			preview := r.Summary
			if len(preview) > 400 {
				preview = preview[:400] + "..."
			}
			fmt.Printf("Summary: %s\n", preview)
		}
		fmt.Printf("URL: %s\n", r.URL)
		fmt.Println(strings.Repeat("-", 80))
	}
	return nil
}

// Filter applies the two independent equality filters of the consumption
// contract. "All" (case-insensitive) behaves like empty.
func Filter(rows []record.Record, source, sentiment string) []record.Record {
	source = normalizeFilter(source)
	sentiment = normalizeFilter(sentiment)
	if source == "" && sentiment == "" {
		return rows
	}
	var out []record.Record
	for _, r := range rows {
		if source != "" && r.Source != source {
			continue
		}
		if sentiment != "" && string(r.Sentiment) != sentiment {
			continue
		}
		out = append(out, r)
	}
	return out
}

func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
