package fetch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"vigil/internal/config"
	"vigil/internal/pipeline"
	"vigil/internal/snapshot"
	"vigil/internal/vigildb"
)

// Options allow overriding config values from CLI flags.
type Options struct {
	Sources  string
	DaysBack int
	LogFile  string
}

// Run executes a single pipeline run and overwrites the snapshot.
// Scheduling is delegated to cron/systemd/launchd.
func Run(ctx context.Context, opts Options, load config.ConfigLoad) error {
	sources := splitSources(opts.Sources)
	if len(sources) == 0 {
		sources = []string{"feeds", "search"}
	}

	logger := log.New(os.Stdout, "[vigil] ", log.LstdFlags)
	var closeLog func() error = func() error { return nil }
	if logFile := strings.TrimSpace(opts.LogFile); logFile != "" {
		logFile = config.ExpandPath(logFile)
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				logger.SetOutput(f)
				closeLog = f.Close
			}
		}
	}
	defer closeLog()

	cfg, err := load()
	if err != nil {
		return err
	}
	if opts.DaysBack > 0 {
		cfg.Search.DaysBack = opts.DaysBack
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pipe := pipeline.New(cfg, logger)
	rep := pipe.Run(ctx, sources)

	if err := snapshot.Save(cfg.SnapshotPath, rep.Records); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	logger.Printf("snapshot saved: %d records -> %s", len(rep.Records), cfg.SnapshotPath)

	if n, err := vigildb.Archive(ctx, cfg.DatabasePath, rep.Records); err != nil {
		logger.Printf("archive error: %v", err)
	} else {
		logger.Printf("archive saved: %d", n)
	}

	for _, f := range rep.Failures {
		logger.Printf("failed unit %s: %s", f.Unit, f.Err)
	}
	logger.Printf("fetch completed: %d records, %d failures", len(rep.Records), len(rep.Failures))
	return nil
}

func splitSources(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
