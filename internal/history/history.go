package history

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"vigil/internal/config"
	"vigil/internal/vigildb"
)

// Run prints archived records fetched within the last N hours, newest first.
func Run(ctx context.Context, hours int, source, sentiment string, limit int) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.DatabasePath); err != nil {
		fmt.Printf("No archive found at %s.\n", cfg.DatabasePath)
		fmt.Println("Hint: run './vigil fetch' to populate the archive.")
		return nil
	}

	db, err := vigildb.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()

	if hours <= 0 {
		hours = 24
	}
	if limit <= 0 {
		limit = 50
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	rows, err := vigildb.GetSince(ctx, db, since, normalize(source), normalize(sentiment), limit)
	if err != nil {
		return fmt.Errorf("querying archive: %w", err)
	}
	if len(rows) == 0 {
		fmt.Printf("No archived records in the last %d hours match the given filters.\n", hours)
		return nil
	}

	fmt.Printf("Found %d archived records from the last %d hours:\n\n", len(rows), hours)
	for _, r := range rows {
		fmt.Printf("Date: %s\n", r.Timestamp)
		fmt.Printf("Source: %s\n", r.Source)
		fmt.Printf("Admin1: %s\n", r.Admin1)
		fmt.Printf("Keyword: %s\n", r.Keyword)
		fmt.Printf("Sentiment: %s\n", r.Sentiment)
		fmt.Printf("Title: %s\n", r.Title)
		fmt.Printf("URL: %s\n", r.URL)
		fmt.Println(strings.Repeat("-", 80))
	}
	return nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
