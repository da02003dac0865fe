package record

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// Sentiment is the coarse triage tag derived from keyword presence.
type Sentiment string

const (
	SentimentWarning Sentiment = "Warning"
	SentimentRumor   Sentiment = "Rumor"
	SentimentNeutral Sentiment = "Neutral"
)

// Sentiments lists all valid labels in display order.
var Sentiments = []Sentiment{SentimentWarning, SentimentRumor, SentimentNeutral}

// Record is one annotated monitoring result. Source is either a feed name or
// the country targeted by a search query.
type Record struct {
	Source    string
	Admin1    string
	Keyword   string
	Sentiment Sentiment
	Title     string
	Summary   string
	Author    string
	Timestamp string
	Published time.Time
	URL       string
}

// ID returns a deterministic identifier so archive upserts don't duplicate
// the same (url, keyword, source) row across runs.
func (r Record) ID() string {
	h := sha1.Sum([]byte(r.URL + "|" + r.Keyword + "|" + r.Source))
	return hex.EncodeToString(h[:])
}

// Location maps a country to its watched sub-regions, in the order they
// appear in the configuration. That order drives both location detection and
// search query planning.
type Location struct {
	Country string   `yaml:"country"`
	Cities  []string `yaml:"cities"`
}

// Failure describes one unit of work (a feed or a search query) that could
// not be fetched. Rows collected from other units are unaffected.
type Failure struct {
	Unit string
	Err  string
}

// Report is the outcome of one pipeline run: the assembled table in
// discovery order plus the units that failed along the way.
type Report struct {
	Records  []Record
	Failures []Failure
}

func (r *Report) Append(recs ...Record) {
	r.Records = append(r.Records, recs...)
}

func (r *Report) Fail(unit string, err error) {
	r.Failures = append(r.Failures, Failure{Unit: unit, Err: fmt.Sprintf("%v", err)})
}
