// Package vigildb archives annotated records across runs in a local SQLite
// database. The CSV snapshot stays authoritative for the dashboard; the
// archive backs the history command and MCP queries.
package vigildb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vigil/internal/record"
)

// sqliteTimeLayout is the TEXT form published_at is stored in, chosen so
// SQLite's datetime() can compare and sort it directly.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func Open(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// UpsertRecord inserts or refreshes one record keyed by its deterministic ID.
func UpsertRecord(ctx context.Context, db *sql.DB, r record.Record) error {
	if strings.TrimSpace(r.URL) == "" && strings.TrimSpace(r.Title) == "" {
		return errors.New("record has neither url nor title")
	}
	// Store publish times in a format SQLite's date functions can parse;
	// binding a raw time.Time would store Go's String() form, which
	// datetime() rejects.
	var published any
	if !r.Published.IsZero() {
		published = r.Published.UTC().Format(sqliteTimeLayout)
	}
	_, err := db.ExecContext(ctx, `INSERT INTO records
        (id, source, admin1, keyword, sentiment, title, summary, author, url, timestamp, published_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
           source=excluded.source,
           admin1=excluded.admin1,
           keyword=excluded.keyword,
           sentiment=excluded.sentiment,
           title=excluded.title,
           summary=excluded.summary,
           author=excluded.author,
           url=excluded.url,
           timestamp=excluded.timestamp,
           published_at=excluded.published_at
        `,
		r.ID(), r.Source, r.Admin1, r.Keyword, string(r.Sentiment), r.Title,
		nullIfEmpty(r.Summary), nullIfEmpty(r.Author), nullIfEmpty(r.URL),
		nullIfEmpty(r.Timestamp), published,
	)
	return err
}

// ArchiveAll upserts every record of a run, returning how many were stored.
func ArchiveAll(ctx context.Context, db *sql.DB, records []record.Record) (int, error) {
	if err := InitSchema(db); err != nil {
		return 0, err
	}
	saved := 0
	for _, r := range records {
		if err := UpsertRecord(ctx, db, r); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// Archive opens the database at dbPath, upserts every record and closes it
// again. It exists for callers that only touch the archive once per run.
func Archive(ctx context.Context, dbPath string, records []record.Record) (int, error) {
	db, err := Open(dbPath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()
	return ArchiveAll(ctx, db, records)
}

// GetSince returns archived records published at or after since, newest
// first. Empty source/sentiment mean no filter.
func GetSince(ctx context.Context, db *sql.DB, since time.Time, source, sentiment string, limit int) ([]record.Record, error) {
	q := `SELECT source, admin1, keyword, sentiment, title, summary, author, url, timestamp, published_at
FROM records WHERE (published_at IS NULL OR datetime(published_at) >= datetime(?))`
	args := []any{since.UTC().Format(sqliteTimeLayout)}
	if source != "" {
		q += " AND source = ?"
		args = append(args, source)
	}
	if sentiment != "" {
		q += " AND sentiment = ?"
		args = append(args, sentiment)
	}
	q += " ORDER BY datetime(published_at) DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []record.Record
	for rows.Next() {
		var r record.Record
		var sentiment string
		var summary, author, url, timestamp sql.NullString
		// published_at is declared TIMESTAMP, so the driver hands back a
		// time.Time; scanning into a string would re-render it as RFC3339
		// and the layout parse above would fail.
		var published sql.NullTime
		if err := rows.Scan(&r.Source, &r.Admin1, &r.Keyword, &sentiment, &r.Title, &summary, &author, &url, &timestamp, &published); err != nil {
			return nil, err
		}
		r.Sentiment = record.Sentiment(sentiment)
		r.Summary = summary.String
		r.Author = author.String
		r.URL = url.String
		r.Timestamp = timestamp.String
		if published.Valid {
			r.Published = published.Time.UTC()
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
