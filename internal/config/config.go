package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"vigil/internal/record"
)

type ConfigLoad func() (AppConfig, error)

func AppConfigLoader() ConfigLoad {
	return LoadAppConfig
}

// FeedSource is one named RSS/Atom feed.
type FeedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// RuleConfig holds the sentiment keyword sets, checked in order: warning
// first, rumor second, first match wins.
type RuleConfig struct {
	Warning []string `yaml:"warning"`
	Rumor   []string `yaml:"rumor"`
}

// SearchConfig drives the search pipeline. An empty BaseURL disables it.
type SearchConfig struct {
	BaseURL     string `yaml:"base_url"`
	PerQueryCap int    `yaml:"per_query_cap"`
	DaysBack    int    `yaml:"days_back"`
	TimeoutSec  int    `yaml:"timeout"`
}

// RSSConfig drives the feed pipeline.
type RSSConfig struct {
	TimeoutSec      int  `yaml:"timeout"`
	MaxPostsPerFeed int  `yaml:"max_posts_per_feed"`
	Enrich          bool `yaml:"enrich"`
}

// AppConfig carries all pipeline settings.
type AppConfig struct {
	Feeds        []FeedSource      `yaml:"feeds"`
	Keywords     []string          `yaml:"keywords"`
	Rules        RuleConfig        `yaml:"rules"`
	Locations    []record.Location `yaml:"locations"`
	Search       SearchConfig      `yaml:"search"`
	RSS          RSSConfig         `yaml:"rss"`
	SnapshotPath string            `yaml:"snapshot_path"`
	DatabasePath string            `yaml:"database_path"`
}

// LoadAppConfig parses ~/.config/vigil/config.yaml. A missing or unreadable
// file yields the built-in defaults; only a malformed file is an error.
func LoadAppConfig() (AppConfig, error) {
	ac := Defaults()
	cfgPath, err := defaultConfigPath()
	if err != nil {
		return ac, nil
	}
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		return ac, nil
	}
	if err := yaml.Unmarshal(b, &ac); err != nil {
		return ac, fmt.Errorf("parsing %s: %w", cfgPath, err)
	}
	ac.applyFallbacks()
	return ac, nil
}

// Defaults returns the built-in configuration, mirroring the starter config
// written by `vigil setup`.
func Defaults() AppConfig {
	ac := AppConfig{
		Feeds: []FeedSource{
			{Name: "Al Jazeera English", URL: "https://www.aljazeera.com/xml/rss/all.xml"},
			{Name: "Reuters Middle East", URL: "http://feeds.reuters.com/Reuters/middleeastNews"},
			{Name: "L'Orient-Le Jour (FR)", URL: "https://www.lorientlejour.com/rss/accueil.xml"},
		},
		Keywords: []string{"explosion", "protest", "shortage", "flood", "crisis", "displacement", "conflict", "fire", "violence"},
		Rules: RuleConfig{
			Warning: []string{"explosion", "fire", "flood", "violence", "conflict"},
			Rumor:   []string{"rumor", "hearing", "unconfirmed"},
		},
		Locations: []record.Location{
			{Country: "Lebanon", Cities: []string{"Beirut", "Tripoli", "Sidon", "Bekaa"}},
			{Country: "Syria", Cities: []string{"Damascus", "Aleppo", "Homs", "Idlib"}},
		},
		Search: SearchConfig{PerQueryCap: 100, DaysBack: 1, TimeoutSec: 30},
		RSS:    RSSConfig{TimeoutSec: 30, MaxPostsPerFeed: 100},
	}
	ac.applyFallbacks()
	return ac
}

func (ac *AppConfig) applyFallbacks() {
	if ac.Search.PerQueryCap <= 0 {
		ac.Search.PerQueryCap = 100
	}
	if ac.Search.DaysBack <= 0 {
		ac.Search.DaysBack = 1
	}
	if ac.Search.TimeoutSec <= 0 {
		ac.Search.TimeoutSec = 30
	}
	if ac.RSS.TimeoutSec <= 0 {
		ac.RSS.TimeoutSec = 30
	}
	// 0 means unbounded: take every entry the feed publishes. The default
	// of 100 comes from Defaults(), which a config file can override.
	if ac.RSS.MaxPostsPerFeed < 0 {
		ac.RSS.MaxPostsPerFeed = 0
	}
	if strings.TrimSpace(ac.SnapshotPath) == "" {
		ac.SnapshotPath = FallbackSnapshotPath()
	} else {
		ac.SnapshotPath = ExpandPath(ac.SnapshotPath)
	}
	if strings.TrimSpace(ac.DatabasePath) == "" {
		ac.DatabasePath = FallbackDBPath()
	} else {
		ac.DatabasePath = ExpandPath(ac.DatabasePath)
	}
}

// Validate fails fast on configurations that would silently produce an
// empty table.
func (ac AppConfig) Validate() error {
	if len(ac.Keywords) == 0 {
		return fmt.Errorf("config: keywords list is empty")
	}
	if len(ac.Rules.Warning) == 0 && len(ac.Rules.Rumor) == 0 {
		return fmt.Errorf("config: rules.warning and rules.rumor are both empty")
	}
	if len(ac.Locations) == 0 {
		return fmt.Errorf("config: locations list is empty")
	}
	for _, loc := range ac.Locations {
		if strings.TrimSpace(loc.Country) == "" {
			return fmt.Errorf("config: location with empty country")
		}
		if len(loc.Cities) == 0 {
			return fmt.Errorf("config: location %q has no cities", loc.Country)
		}
	}
	if len(ac.Feeds) == 0 && strings.TrimSpace(ac.Search.BaseURL) == "" {
		return fmt.Errorf("config: no feeds configured and search.base_url is empty")
	}
	return nil
}

func FallbackSnapshotPath() string {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Vigil", "snapshot.csv")
	}
	return "vigil_snapshot.csv"
}

func FallbackDBPath() string {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Vigil", "vigil.db")
	}
	return "vigil.db"
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vigil", "config.yaml"), nil
}

// ExpandPath expands leading ~ and environment variables in a filesystem path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}
