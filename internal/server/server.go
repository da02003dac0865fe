package server

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"vigil/internal/config"
	"vigil/internal/list"
	"vigil/internal/pipeline"
	"vigil/internal/record"
	"vigil/internal/snapshot"
	"vigil/internal/vigildb"
)

type ListRecordsParams struct {
	Source    *string `json:"source,omitempty"`
	Sentiment *string `json:"sentiment,omitempty"`
	Keyword   *string `json:"keyword,omitempty"`
	Limit     *int    `json:"limit,omitempty"`
}

type RunFetchParams struct {
	Sources []string `json:"sources,omitempty"`
}

type HistoryParams struct {
	Hours     int     `json:"hours"`
	Source    *string `json:"source,omitempty"`
	Sentiment *string `json:"sentiment,omitempty"`
	Limit     *int    `json:"limit,omitempty"`
}

func Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{Name: "vigil", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: "list_records", Description: "List records from the current snapshot, optionally filtered by source, sentiment or keyword"}, handleListRecords)
	mcp.AddTool(server, &mcp.Tool{Name: "run_fetch", Description: "Run a fresh pipeline fetch and overwrite the snapshot"}, handleRunFetch)
	mcp.AddTool(server, &mcp.Tool{Name: "history", Description: "Query archived records by time window"}, handleHistory)

	return server.Run(ctx, &mcp.StdioTransport{})
}

// handleListRecords reads the current snapshot and applies the dashboard's
// equality filters plus an optional keyword filter.
func handleListRecords(ctx context.Context, req *mcp.CallToolRequest, p ListRecordsParams) (*mcp.CallToolResult, any, error) {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, nil, err
	}
	rows := snapshot.Load(cfg.SnapshotPath)
	if len(rows) == 0 {
		return nil, map[string]any{
			"ok":      true,
			"count":   0,
			"items":   []any{},
			"message": fmt.Sprintf("No snapshot data at %s", cfg.SnapshotPath),
			"hint":    "Call run_fetch (or './vigil fetch') to pull the latest feeds and searches.",
		}, nil
	}

	source, sentiment := "", ""
	if p.Source != nil {
		source = *p.Source
	}
	if p.Sentiment != nil {
		sentiment = *p.Sentiment
	}
	rows = list.Filter(rows, source, sentiment)
	if p.Keyword != nil && strings.TrimSpace(*p.Keyword) != "" {
		kw := strings.ToLower(strings.TrimSpace(*p.Keyword))
		var kept []record.Record
		for _, r := range rows {
			if strings.ToLower(r.Keyword) == kw {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	lim := 50
	if p.Limit != nil && *p.Limit > 0 {
		lim = *p.Limit
	}
	if len(rows) > lim {
		rows = rows[:lim]
	}

	items := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		items = append(items, serialize(r))
	}
	return nil, map[string]any{"count": len(items), "items": items}, nil
}

// handleRunFetch triggers a synchronous pipeline run, the MCP equivalent of
// the dashboard's explicit refresh action.
func handleRunFetch(ctx context.Context, req *mcp.CallToolRequest, p RunFetchParams) (*mcp.CallToolResult, any, error) {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, map[string]any{
			"ok":      false,
			"message": "Configuration is not valid for a fetch run",
			"error":   err.Error(),
		}, nil
	}

	sources := p.Sources
	if len(sources) == 0 {
		sources = []string{"feeds", "search"}
	}

	pipe := pipeline.New(cfg, nil)
	rep := pipe.Run(ctx, sources)

	if err := snapshot.Save(cfg.SnapshotPath, rep.Records); err != nil {
		return nil, map[string]any{
			"ok":      false,
			"message": "Pipeline ran but the snapshot could not be written",
			"error":   err.Error(),
		}, nil
	}
	archived, archiveErr := vigildb.Archive(ctx, cfg.DatabasePath, rep.Records)

	failures := make([]map[string]string, 0, len(rep.Failures))
	for _, f := range rep.Failures {
		failures = append(failures, map[string]string{"unit": f.Unit, "error": f.Err})
	}
	out := map[string]any{
		"ok":       true,
		"records":  len(rep.Records),
		"archived": archived,
		"failures": failures,
	}
	if archiveErr != nil {
		out["archive_error"] = archiveErr.Error()
	}
	return nil, out, nil
}

// handleHistory queries the SQLite archive.
func handleHistory(ctx context.Context, req *mcp.CallToolRequest, p HistoryParams) (*mcp.CallToolResult, any, error) {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, nil, err
	}
	if !fileExists(cfg.DatabasePath) {
		return nil, map[string]any{
			"ok":      false,
			"message": fmt.Sprintf("Vigil archive not found at %s", cfg.DatabasePath),
			"hint":    "Run './vigil fetch' to create/populate the archive, or set database_path in ~/.config/vigil/config.yaml.",
			"db_path": cfg.DatabasePath,
		}, nil
	}
	db, err := vigildb.Open(cfg.DatabasePath)
	if err != nil {
		return nil, map[string]any{
			"ok":      false,
			"message": "Failed opening the Vigil archive",
			"error":   err.Error(),
			"db_path": cfg.DatabasePath,
		}, nil
	}
	defer db.Close()

	hrs := p.Hours
	if hrs <= 0 {
		hrs = 24
	}
	lim := 50
	if p.Limit != nil && *p.Limit > 0 {
		lim = *p.Limit
	}
	source, sentiment := "", ""
	if p.Source != nil {
		source = strings.TrimSpace(*p.Source)
	}
	if p.Sentiment != nil {
		sentiment = strings.TrimSpace(*p.Sentiment)
	}

	since := time.Now().Add(-time.Duration(hrs) * time.Hour)
	rows, err := vigildb.GetSince(ctx, db, since, source, sentiment, lim)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "no such table") {
			return nil, map[string]any{
				"ok":      false,
				"message": "Vigil archive is present but not initialized (missing tables)",
				"hint":    "Run './vigil fetch' once to initialize the schema.",
				"db_path": cfg.DatabasePath,
			}, nil
		}
		return nil, map[string]any{
			"ok":      false,
			"message": "Query failed while reading from the Vigil archive",
			"error":   err.Error(),
			"db_path": cfg.DatabasePath,
		}, nil
	}

	items := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		items = append(items, serialize(r))
	}
	return nil, map[string]any{"count": len(items), "items": items}, nil
}

// serialize turns a record into a flat dto; summaries are truncated to keep
// tool responses small.
func serialize(r record.Record) map[string]any {
	summary := r.Summary
	if len(summary) > 400 {
		summary = summary[:400] + "..."
	}
	return map[string]any{
		"source":    r.Source,
		"admin1":    r.Admin1,
		"keyword":   r.Keyword,
		"sentiment": string(r.Sentiment),
		"title":     r.Title,
		"summary":   summary,
		"author":    r.Author,
		"timestamp": r.Timestamp,
		"url":       r.URL,
	}
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	if _, err := os.Stat(p); err == nil {
		return true
	}
	return false
}
