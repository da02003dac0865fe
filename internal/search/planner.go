package search

import (
	"fmt"
	"time"

	"vigil/internal/record"
)

// Query is one fully-formed search request for a (country, city, keyword)
// triple. Text carries the upstream query grammar; City is authoritative for
// the admin1 tag of every item the query returns.
type Query struct {
	Country string
	City    string
	Keyword string
	Text    string
	Cap     int
}

// Plan enumerates the cross-product of locations and keywords into query
// descriptors: countries in configuration order, then cities in list order,
// then keywords in list order. That order becomes the discovery order of the
// result table. All descriptors of one invocation share the same since/until
// window, computed from now in UTC.
func Plan(keywords []string, locations []record.Location, daysBack, cap int, now time.Time) []Query {
	since := now.UTC().AddDate(0, 0, -daysBack).Format("2006-01-02")
	until := now.UTC().Format("2006-01-02")

	var out []Query
	for _, loc := range locations {
		for _, city := range loc.Cities {
			for _, kw := range keywords {
				out = append(out, Query{
					Country: loc.Country,
					City:    city,
					Keyword: kw,
					Text:    fmt.Sprintf("%s %s since:%s until:%s lang:en", kw, city, since, until),
					Cap:     cap,
				})
			}
		}
	}
	return out
}
