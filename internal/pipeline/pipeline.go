// Package pipeline drives the source adapters, applies the classifier and
// assembles the flat result table. One run is a full batch: fetches happen
// sequentially in configuration order, and a failing feed or query is logged
// and recorded as a failure without aborting the run.
package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"vigil/internal/classify"
	"vigil/internal/config"
	"vigil/internal/feeds"
	"vigil/internal/record"
	"vigil/internal/search"
)

// FeedFetcher yields raw items for one feed URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]feeds.Item, error)
}

// Searcher runs one planned query.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]search.Post, error)
}

// Pipeline holds everything one run needs. Now is overridable for tests.
type Pipeline struct {
	Cfg    config.AppConfig
	Rules  classify.Rules
	Feeds  FeedFetcher
	Search Searcher
	Logger *log.Logger
	Now    func() time.Time
}

// New wires a pipeline from config. The search half stays nil when no
// base_url is configured.
func New(cfg config.AppConfig, logger *log.Logger) *Pipeline {
	p := &Pipeline{
		Cfg:    cfg,
		Rules:  classify.NewRules(cfg.Rules.Warning, cfg.Rules.Rumor, cfg.Locations),
		Feeds:  feeds.NewFetcher(cfg.RSS, logger),
		Logger: logger,
		Now:    time.Now,
	}
	if c := search.NewClient(cfg.Search, logger); c != nil {
		p.Search = c
	}
	return p
}

// Run executes the requested pipelines ("feeds", "search", or both) and
// returns the assembled table plus any per-unit failures.
func (p *Pipeline) Run(ctx context.Context, sources []string) record.Report {
	var rep record.Report
	for _, s := range sources {
		switch strings.TrimSpace(strings.ToLower(s)) {
		case "feeds":
			p.collectFeeds(ctx, &rep)
		case "search":
			p.collectSearch(ctx, &rep)
		}
	}
	p.logf("run complete: records=%d failures=%d", len(rep.Records), len(rep.Failures))
	return rep
}

// collectFeeds fetches every configured feed and emits one record per
// (entry, matched keyword) pair. An entry matching N keywords yields N rows;
// that fan-out is intentional and matches the snapshot consumers.
func (p *Pipeline) collectFeeds(ctx context.Context, rep *record.Report) {
	for _, src := range p.Cfg.Feeds {
		items, err := p.Feeds.Fetch(ctx, src.URL)
		if err != nil {
			p.logf("feed fetch failed: name=%q url=%s err=%v", src.Name, src.URL, err)
			rep.Fail("feed:"+src.Name, err)
			continue
		}
		matched := 0
		for _, it := range items {
			haystack := it.Title + " " + it.Summary
			// Classify once per entry; keyword-matched rows share the labels.
			sentiment := p.Rules.Sentiment(haystack)
			admin1 := p.Rules.Location(haystack)
			for _, kw := range p.Cfg.Keywords {
				lowered := strings.ToLower(kw)
				if !strings.Contains(strings.ToLower(it.Title), lowered) &&
					!strings.Contains(strings.ToLower(it.Summary), lowered) {
					continue
				}
				rep.Append(record.Record{
					Source:    src.Name,
					Admin1:    admin1,
					Keyword:   kw,
					Sentiment: sentiment,
					Title:     it.Title,
					Summary:   it.Summary,
					Author:    it.Author,
					Timestamp: it.Timestamp,
					Published: it.Published,
					URL:       it.Link,
				})
				matched++
			}
		}
		p.logf("feed done: name=%q items=%d rows=%d", src.Name, len(items), matched)
	}
}

// collectSearch plans the keyword x location cross-product and runs each
// query in order. Items are relevant by construction, so every post becomes
// a row; the query's city is authoritative for admin1 rather than re-detected
// from text.
func (p *Pipeline) collectSearch(ctx context.Context, rep *record.Report) {
	if p.Search == nil {
		p.logf("search skipped: no base_url configured")
		return
	}
	queries := search.Plan(p.Cfg.Keywords, p.Cfg.Locations, p.Cfg.Search.DaysBack, p.Cfg.Search.PerQueryCap, p.Now())
	for _, q := range queries {
		posts, err := p.Search.Search(ctx, q)
		if err != nil {
			p.logf("search query failed: query=%q err=%v", q.Text, err)
			rep.Fail("search:"+q.Country+"/"+q.City+"/"+q.Keyword, err)
			continue
		}
		for _, post := range posts {
			rec := record.Record{
				Source:    q.Country,
				Admin1:    q.City,
				Keyword:   q.Keyword,
				Sentiment: p.Rules.Sentiment(post.Content),
				Title:     post.Content,
				Author:    post.Username,
				Timestamp: post.Date,
				URL:       post.URL,
			}
			if ts, err := time.Parse(time.RFC3339, post.Date); err == nil {
				rec.Published = ts.UTC()
			}
			rep.Append(rec)
		}
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
