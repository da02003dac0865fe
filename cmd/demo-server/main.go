package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "Port to run the demo server on")
	host := flag.String("host", "localhost", "Host to bind the demo server to")
	flag.Parse()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", *host, *port),
		Handler: createHandler(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Demo server starting on http://%s:%d", *host, *port)
		log.Printf("RSS feed available at: http://%s:%d/rss", *host, *port)
		log.Printf("Search API available at: http://%s:%d/api/search?q=fire+Beirut&limit=10", *host, *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down demo server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Demo server stopped")
}

// createHandler creates the HTTP handler for the demo server
func createHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", rssHandler)
	mux.HandleFunc("/articles/", articlesHandler)
	mux.HandleFunc("/api/search", searchHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			homeHandler(w, r)
		} else {
			http.NotFound(w, r)
		}
	})
	return mux
}

// homeHandler serves a simple home page explaining the demo server
func homeHandler(w http.ResponseWriter, r *http.Request) {
	baseURL := requestBase(r)

	html := `<!DOCTYPE html>
<html>
<head>
    <title>Vigil Demo Server</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #e11d48; padding-bottom: 10px; margin-bottom: 20px; }
        .endpoint { background: #f3f4f6; padding: 10px; border-radius: 5px; margin: 10px 0; }
        .url { color: #be123c; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Vigil Demo Server</h1>
        <p>This server provides a mock incident news feed and a search API for demonstrating Vigil's pipeline.</p>
    </div>

    <h2>Available Endpoints</h2>
    <div class="endpoint">
        <strong>RSS Feed:</strong> <a href="%[1]s/rss" class="url">%[1]s/rss</a>
        <p>Contains 4 sample incident reports from the region.</p>
    </div>

    <div class="endpoint">
        <strong>Articles:</strong> <a href="%[1]s/articles/1" class="url">%[1]s/articles/[1-4]</a>
        <p>Individual report content pages.</p>
    </div>

    <div class="endpoint">
        <strong>Search API:</strong> <a href="%[1]s/api/search?q=fire+Beirut&amp;limit=10" class="url">%[1]s/api/search?q=...&amp;limit=N</a>
        <p>Returns JSON posts echoing the keyword and city found in the query.</p>
    </div>

    <h2>Usage with Vigil</h2>
    <p>Point Vigil's config at this server:</p>
    <pre><code>feeds:
  - name: "Demo Feed"
    url: "%[1]s/rss"
search:
  base_url: "%[1]s"</code></pre>

    <p>Then run './vigil fetch' to pull everything.</p>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, html, baseURL)
}

// rssHandler returns sample incident reports in RSS format
func rssHandler(w http.ResponseWriter, r *http.Request) {
	baseURL := requestBase(r)

	rssTemplate := `<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
	<channel>
		<title>Regional Incident Wire</title>
		<link>%[1]s/</link>
		<description>Demo wire service with incident reports for pipeline testing</description>
		<lastBuildDate>%[2]s</lastBuildDate>
		<atom:link href="%[1]s/rss" rel="self" type="application/rss+xml"/>
		<item>
			<title>Large fire breaks out near Beirut port warehouses</title>
			<link>%[1]s/articles/1</link>
			<pubDate>Mon, 25 Aug 2025 10:30:00 +0000</pubDate>
			<guid>beirut-port-fire</guid>
			<description>Firefighters battled a blaze near the port of Beirut on Monday morning as smoke was visible across the city.</description>
		</item>
		<item>
			<title>Unverified reports of explosion circulate in Tripoli</title>
			<link>%[1]s/articles/2</link>
			<pubDate>Sun, 24 Aug 2025 14:15:00 +0000</pubDate>
			<guid>tripoli-unconfirmed</guid>
			<description>Residents shared unconfirmed accounts of a loud explosion in Tripoli; authorities have not verified the claims.</description>
		</item>
		<item>
			<title>Flooding closes roads after heavy rain in Damascus</title>
			<link>%[1]s/articles/3</link>
			<pubDate>Sat, 23 Aug 2025 09:45:00 +0000</pubDate>
			<guid>damascus-flood</guid>
			<description>Heavy rainfall caused flooding on several main roads in Damascus, with warnings issued for low-lying districts.</description>
		</item>
		<item>
			<title>Power restored after outage in Sidon</title>
			<link>%[1]s/articles/4</link>
			<pubDate>Fri, 22 Aug 2025 16:20:00 +0000</pubDate>
			<guid>sidon-outage</guid>
			<description>Electricity was restored in Sidon on Friday evening after a routine maintenance outage.</description>
		</item>
	</channel>
</rss>`

	currentTime := time.Now().Format(time.RFC1123Z)
	content := fmt.Sprintf(rssTemplate, baseURL, currentTime)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(content))
}

// searchHandler mimics the social search API: it parses the keyword and city
// out of the query and returns a few posts mentioning them.
func searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		http.Error(w, "q parameter required", http.StatusBadRequest)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	// Query grammar is "<keyword> <city> since:... until:... lang:en";
	// operators are dropped and the remainder split into keyword and city.
	var terms []string
	for _, tok := range strings.Fields(q) {
		if strings.Contains(tok, ":") {
			continue
		}
		terms = append(terms, tok)
	}
	keyword, city := "incident", "the area"
	if len(terms) > 0 {
		keyword = terms[0]
	}
	if len(terms) > 1 {
		city = strings.Join(terms[1:], " ")
	}

	now := time.Now().UTC()
	type post struct {
		Date     string `json:"date"`
		Username string `json:"username"`
		Content  string `json:"content"`
		URL      string `json:"url"`
	}
	templates := []struct {
		user string
		text string
	}{
		{"citizen_watch", "BREAKING: reports of %s near %s, emergency services responding"},
		{"local_updates", "Can anyone confirm the %s in %s? Hearing conflicting accounts, possibly just a rumor"},
		{"field_reporter", "Situation after the %s in %s appears under control, no casualties reported"},
	}
	posts := make([]post, 0, limit)
	for i := 0; i < limit && i < len(templates); i++ {
		t := templates[i]
		posts = append(posts, post{
			Date:     now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			Username: t.user,
			Content:  fmt.Sprintf(t.text, keyword, city),
			URL:      fmt.Sprintf("https://social.example/%s/status/%d", t.user, now.UnixNano()+int64(i)),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]any{"posts": posts})
}

// articlesHandler serves individual report content
func articlesHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/articles/")
	if path == "" {
		http.Error(w, "Article ID required", http.StatusBadRequest)
		return
	}

	articleID, err := strconv.Atoi(path)
	if err != nil || articleID < 1 || articleID > 4 {
		http.Error(w, "Invalid article ID (use 1-4)", http.StatusBadRequest)
		return
	}

	articles := map[int]struct {
		title   string
		content string
	}{
		1: {
			title: "Large fire breaks out near Beirut port warehouses",
			content: `<h1>Large fire breaks out near Beirut port warehouses</h1>
<p>A large fire broke out near warehouse buildings at the port of Beirut early on Monday, sending a column of black smoke over the city. Civil defense teams deployed several fire engines to the scene and contained the blaze within two hours.</p>
<p>Port authorities said the fire started in a storage area holding tires and packaging material. No injuries were reported, and an investigation into the cause is under way.</p>`,
		},
		2: {
			title: "Unverified reports of explosion circulate in Tripoli",
			content: `<h1>Unverified reports of explosion circulate in Tripoli</h1>
<p>Social media users in Tripoli shared unconfirmed reports of a loud explosion heard in the eastern districts late Sunday. Security sources contacted by the wire said they had received no verified accounts of damage or casualties.</p>
<p>Officials urged residents not to spread unverified claims and said a statement would follow once the source of the noise was identified.</p>`,
		},
		3: {
			title: "Flooding closes roads after heavy rain in Damascus",
			content: `<h1>Flooding closes roads after heavy rain in Damascus</h1>
<p>Heavy overnight rainfall caused flooding on several main roads in Damascus on Saturday, stranding vehicles and prompting warnings for residents of low-lying districts to avoid unnecessary travel.</p>
<p>Municipal crews worked through the morning to clear blocked drains. Forecasters warned that further storms could bring renewed flooding in the coming days.</p>`,
		},
		4: {
			title: "Power restored after outage in Sidon",
			content: `<h1>Power restored after outage in Sidon</h1>
<p>Electricity was restored across Sidon on Friday evening after a scheduled maintenance outage that lasted most of the afternoon. The utility said the work was part of a routine upgrade to substation equipment.</p>
<p>No incidents were reported during the outage and supply is expected to remain stable.</p>`,
		},
	}

	article, exists := articles[articleID]
	if !exists {
		http.NotFound(w, r)
		return
	}

	htmlTemplate := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body {
            font-family: Georgia, serif;
            line-height: 1.6;
            max-width: 700px;
            margin: 0 auto;
            padding: 40px 20px;
            color: #333;
        }
        h1 {
            color: #1a1a1a;
            border-bottom: 2px solid #e11d48;
            padding-bottom: 10px;
        }
        p {
            margin: 1.5em 0;
            font-size: 1.1em;
        }
    </style>
</head>
<body>
    %s
</body>
</html>`

	finalHTML := fmt.Sprintf(htmlTemplate, article.title, article.content)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(finalHTML))
}

func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return strings.TrimSuffix(fmt.Sprintf("%s://%s", scheme, r.Host), "/")
}
