package vigildb

import "database/sql"

// InitSchema ensures the DB has the tables needed for the record archive.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
            id TEXT PRIMARY KEY,
            source TEXT NOT NULL,
            admin1 TEXT NOT NULL,
            keyword TEXT NOT NULL,
            sentiment TEXT NOT NULL,
            title TEXT NOT NULL,
            summary TEXT,
            author TEXT,
            url TEXT,
            timestamp TEXT,
            published_at TIMESTAMP,
            fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_records_published_at ON records(published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source_sentiment ON records(source, sentiment)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
