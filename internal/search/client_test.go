package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vigil/internal/config"
)

func TestSearchPassesQueryAndCap(t *testing.T) {
	var gotQuery, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode(searchResponse{Posts: []Post{
			{Date: "2026-08-29T10:00:00Z", Username: "reporter1", Content: "fire near Beirut port", URL: "https://example.com/1"},
			{Date: "2026-08-29T09:00:00Z", Username: "reporter2", Content: "smoke visible", URL: "https://example.com/2"},
		}})
	}))
	defer server.Close()

	c := NewClient(config.SearchConfig{BaseURL: server.URL, TimeoutSec: 5}, nil)
	if c == nil {
		t.Fatal("expected non-nil client")
	}

	posts, err := c.Search(t.Context(), Query{Text: "fire Beirut since:2026-08-28 until:2026-08-29 lang:en", Cap: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if gotQuery != "fire Beirut since:2026-08-28 until:2026-08-29 lang:en" {
		t.Fatalf("server saw q=%q", gotQuery)
	}
	if gotLimit != "10" {
		t.Fatalf("server saw limit=%q", gotLimit)
	}
	if posts[0].Username != "reporter1" || posts[0].URL != "https://example.com/1" {
		t.Fatalf("unexpected first post: %+v", posts[0])
	}
}

func TestSearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var posts []Post
		for i := 0; i < 5; i++ {
			posts = append(posts, Post{Content: "item", URL: "https://example.com"})
		}
		json.NewEncoder(w).Encode(searchResponse{Posts: posts})
	}))
	defer server.Close()

	c := NewClient(config.SearchConfig{BaseURL: server.URL, TimeoutSec: 5}, nil)
	posts, err := c.Search(t.Context(), Query{Text: "x", Cap: 3})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(posts))
	}
}

func TestSearchErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(config.SearchConfig{BaseURL: server.URL, TimeoutSec: 5}, nil)
	if _, err := c.Search(t.Context(), Query{Text: "x", Cap: 1}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

func TestNewClientDisabledWithoutBaseURL(t *testing.T) {
	if c := NewClient(config.SearchConfig{}, nil); c != nil {
		t.Fatal("expected nil client when base_url is empty")
	}
}
