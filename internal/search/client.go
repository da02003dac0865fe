// Package search is the social-search source adapter: a query planner over
// the keyword x location cross-product and a client for a JSON search API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"vigil/internal/config"
	"vigil/internal/httpclient"
)

// Post is one raw search result in the upstream's native (most-recent-first)
// ordering.
type Post struct {
	Date     string `json:"date"`
	Username string `json:"username"`
	Content  string `json:"content"`
	URL      string `json:"url"`
}

type searchResponse struct {
	Posts []Post `json:"posts"`
}

// Client talks to the configured search API. A nil client (no base_url)
// disables the search pipeline.
type Client struct {
	base   string
	http   *httpclient.Client
	logger *log.Logger
}

// NewClient returns nil when no base URL is configured.
func NewClient(cfg config.SearchConfig, logger *log.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	// Pace queries: the planner can emit tens of them back to back.
	return &Client{
		base:   base,
		http:   httpclient.New(timeout, 500*time.Millisecond),
		logger: logger,
	}
}

// Search runs one planned query and returns up to q.Cap posts.
func (c *Client) Search(ctx context.Context, q Query) ([]Post, error) {
	u := c.base + "/api/search?q=" + neturl.QueryEscape(q.Text) + "&limit=" + strconv.Itoa(q.Cap)
	resp, err := c.http.Get(ctx, u, map[string]string{"User-Agent": "Vigil/Search"})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search %q: status %d: %s", q.Text, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("search %q: decoding response: %w", q.Text, err)
	}
	posts := sr.Posts
	if q.Cap > 0 && len(posts) > q.Cap {
		posts = posts[:q.Cap]
	}
	if c.logger != nil {
		c.logger.Printf("search done: query=%q posts=%d", q.Text, len(posts))
	}
	return posts, nil
}
