// Package classify tags item text with a sentiment label and a geographic
// sub-region. Both checks are pure keyword membership tests over rules
// supplied as data; there is no model and no package-level state.
package classify

import (
	"regexp"
	"strings"

	"vigil/internal/record"
)

// UnknownLocation is returned when no watched sub-region matches.
const UnknownLocation = "Unknown"

type cityPattern struct {
	city string
	re   *regexp.Regexp
}

// Rules holds precompiled matchers for sentiment tagging and location
// detection. Build once with NewRules and share freely; all methods are
// read-only.
type Rules struct {
	warning []string
	rumor   []string
	cities  []cityPattern
}

// NewRules lowers the sentiment keyword sets and compiles a whole-word,
// case-insensitive pattern per city. Order is preserved everywhere: warning
// keywords are checked before rumor ones, countries in the order given, then
// their cities in list order.
func NewRules(warning, rumor []string, locations []record.Location) Rules {
	r := Rules{
		warning: lowerAll(warning),
		rumor:   lowerAll(rumor),
	}
	for _, loc := range locations {
		for _, city := range loc.Cities {
			city = strings.TrimSpace(city)
			if city == "" {
				continue
			}
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(city) + `\b`)
			r.cities = append(r.cities, cityPattern{city: city, re: re})
		}
	}
	return r
}

// Sentiment returns Warning if any warning keyword occurs in text
// (case-insensitive substring), else Rumor on a rumor keyword, else Neutral.
// Warning takes precedence when both sets match.
func (r Rules) Sentiment(text string) record.Sentiment {
	lowered := strings.ToLower(text)
	for _, kw := range r.warning {
		if kw != "" && strings.Contains(lowered, kw) {
			return record.SentimentWarning
		}
	}
	for _, kw := range r.rumor {
		if kw != "" && strings.Contains(lowered, kw) {
			return record.SentimentRumor
		}
	}
	return record.SentimentNeutral
}

// Location returns the first watched city whose name occurs in text as a
// whole word, or UnknownLocation. "Homsy" must not match "Homs", hence the
// \b-bounded patterns rather than plain substring containment.
func (r Rules) Location(text string) string {
	for _, cp := range r.cities {
		if cp.re.MatchString(text) {
			return cp.city
		}
	}
	return UnknownLocation
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
