// Package feeds is the RSS/Atom source adapter: it turns a feed URL into a
// bounded list of raw items with plain-text summaries.
package feeds

import (
	"bytes"
	"context"
	"io"
	"log"
	neturl "net/url"
	"regexp"
	"strings"
	"time"

	trafilatura "github.com/markusmobius/go-trafilatura"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"vigil/internal/config"
	"vigil/internal/httpclient"
)

// Item is one raw feed entry, consumed immediately by the collector.
type Item struct {
	Title     string
	Summary   string
	Link      string
	Author    string
	Timestamp string
	Published time.Time
}

// Fetcher fetches RSS/Atom feeds with sensible timeouts.
type Fetcher struct {
	cfg    config.RSSConfig
	client *httpclient.Client
	parser *gofeed.Parser
	logger *log.Logger
}

// NewFetcher constructs a feed fetcher from the RSS section of the config.
// Feed downloads go through the raw client; enrichment page fetches are
// paced so a title-only feed does not hammer its origin.
func NewFetcher(cfg config.RSSConfig, logger *log.Logger) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cli := httpclient.New(timeout, 300*time.Millisecond)
	p := gofeed.NewParser()
	p.Client = cli.HTTP()
	return &Fetcher{cfg: cfg, client: cli, parser: p, logger: logger}
}

// Fetch retrieves all entries of one feed, up to max_posts_per_feed. Errors
// are returned to the caller, which treats the feed as empty for this run.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	var out []Item
	for _, it := range feed.Items {
		if f.cfg.MaxPostsPerFeed > 0 && len(out) >= f.cfg.MaxPostsPerFeed {
			break
		}
		if it == nil {
			continue
		}
		item := Item{
			Title:   strings.TrimSpace(it.Title),
			Summary: strings.TrimSpace(htmlToText(firstNonEmpty(it.Description, it.Content))),
			Link:    strings.TrimSpace(it.Link),
			Author:  entryAuthor(it),
		}
		switch {
		case it.PublishedParsed != nil:
			item.Published = it.PublishedParsed.UTC()
			item.Timestamp = item.Published.Format(time.RFC3339)
		case it.UpdatedParsed != nil:
			item.Published = it.UpdatedParsed.UTC()
			item.Timestamp = item.Published.Format(time.RFC3339)
		default:
			item.Timestamp = strings.TrimSpace(it.Published)
		}
		if item.Summary == "" && f.cfg.Enrich {
			item.Summary = f.extractMainText(ctx, item.Link)
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *Fetcher) debugf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}

// extractMainText fetches the linked page and extracts its main text, used
// to fill in summaries for feeds that publish title-only entries.
func (f *Fetcher) extractMainText(ctx context.Context, url string) string {
	if strings.TrimSpace(url) == "" {
		return ""
	}
	resp, err := f.client.Get(ctx, url, map[string]string{"User-Agent": "Vigil/Feed-Fetcher"})
	if err != nil || resp == nil || resp.Body == nil {
		f.debugf("enrich fetch failed: url=%s err=%v", url, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil || len(bodyBytes) == 0 {
		return ""
	}
	// Ignore very short outputs which are likely boilerplate.
	res, err := trafilatura.Extract(bytes.NewReader(bodyBytes), trafilatura.Options{
		OriginalURL:    func() *neturl.URL { u, _ := neturl.Parse(url); return u }(),
		EnableFallback: true,
		Focus:          trafilatura.Balanced,
	})
	if err == nil && res != nil {
		if txt := strings.TrimSpace(res.ContentText); len(txt) > 100 {
			return txt
		}
	}
	return ""
}

// entryAuthor returns the entry's author name, empty when the feed does not
// publish one.
func entryAuthor(it *gofeed.Item) string {
	if it.Author != nil {
		if name := strings.TrimSpace(it.Author.Name); name != "" {
			return name
		}
	}
	for _, a := range it.Authors {
		if a == nil {
			continue
		}
		if name := strings.TrimSpace(a.Name); name != "" {
			return name
		}
	}
	return ""
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// htmlToText converts a small HTML fragment into plain text by walking the
// node tree and concatenating text nodes with minimal whitespace
// normalization.
func htmlToText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	n, err := html.Parse(strings.NewReader(s))
	if err != nil || n == nil {
		// If parsing fails, fall back to a naive strip of angle-bracket tags.
		out := regexp.MustCompile(`<[^>]+>`).ReplaceAllString(s, " ")
		return strings.Join(strings.Fields(out), " ")
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
