package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteStarterConfig renders the built-in defaults to the user config file
// and returns its path. An existing file is backed up first so a re-run of
// `vigil setup` never destroys hand-edited rules.
func WriteStarterConfig() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "vigil")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, "config.yaml")

	// Preserve existing database/snapshot paths if present (avoid clobber).
	prevDB, prevSnap := "", ""
	if prev, err := loadExistingConfig(path); err == nil {
		if v, ok := prev["database_path"].(string); ok && strings.TrimSpace(v) != "" {
			prevDB = v
		}
		if v, ok := prev["snapshot_path"].(string); ok && strings.TrimSpace(v) != "" {
			prevSnap = v
		}
		if err := BackupFile(path); err != nil {
			return "", fmt.Errorf("failed to back up existing config: %w", err)
		}
	}

	ac := Defaults()
	if prevDB != "" {
		ac.DatabasePath = prevDB
	}
	if prevSnap != "" {
		ac.SnapshotPath = prevSnap
	}

	// Manually render YAML so sections carry explanatory comments.
	var sb strings.Builder
	sb.WriteString("# Vigil configuration\n")
	sb.WriteString(fmt.Sprintf("snapshot_path: %q\n", ac.SnapshotPath))
	sb.WriteString(fmt.Sprintf("database_path: %q\n", ac.DatabasePath))

	sb.WriteString("\n# Named RSS/Atom feeds to monitor\n")
	sb.WriteString("feeds:\n")
	for _, f := range ac.Feeds {
		sb.WriteString(fmt.Sprintf("  - name: %q\n", f.Name))
		sb.WriteString(fmt.Sprintf("    url: %s\n", f.URL))
	}

	sb.WriteString("\n# Relevance keywords; a feed entry matching N keywords yields N rows\n")
	sb.WriteString("keywords:\n")
	for _, k := range ac.Keywords {
		sb.WriteString(fmt.Sprintf("  - %s\n", k))
	}

	sb.WriteString("\n# Sentiment rules: warning is checked before rumor, first match wins\n")
	sb.WriteString("rules:\n")
	sb.WriteString("  warning:\n")
	for _, k := range ac.Rules.Warning {
		sb.WriteString(fmt.Sprintf("    - %s\n", k))
	}
	sb.WriteString("  rumor:\n")
	for _, k := range ac.Rules.Rumor {
		sb.WriteString(fmt.Sprintf("    - %s\n", k))
	}

	sb.WriteString("\n# Watched sub-regions, in detection and query-planning order\n")
	sb.WriteString("locations:\n")
	for _, loc := range ac.Locations {
		sb.WriteString(fmt.Sprintf("  - country: %s\n", loc.Country))
		sb.WriteString("    cities: [" + strings.Join(loc.Cities, ", ") + "]\n")
	}

	sb.WriteString("\n# Social search API; leave base_url empty to run feeds only\n")
	sb.WriteString("search:\n")
	sb.WriteString(fmt.Sprintf("  base_url: %q\n", ac.Search.BaseURL))
	sb.WriteString(fmt.Sprintf("  per_query_cap: %d\n", ac.Search.PerQueryCap))
	sb.WriteString(fmt.Sprintf("  days_back: %d\n", ac.Search.DaysBack))
	sb.WriteString(fmt.Sprintf("  timeout: %d\n", ac.Search.TimeoutSec))

	sb.WriteString("\nrss:\n")
	sb.WriteString(fmt.Sprintf("  timeout: %d\n", ac.RSS.TimeoutSec))
	sb.WriteString(fmt.Sprintf("  max_posts_per_feed: %d\n", ac.RSS.MaxPostsPerFeed))
	sb.WriteString("  enrich: false  # fetch pages to fill in missing summaries\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// loadExistingConfig loads existing configuration from a file
func loadExistingConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// BackupFile creates a backup of the specified file with a timestamp
func BackupFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102-150405")
	bak := path + ".bak-" + ts
	return os.WriteFile(bak, b, 0o644)
}
