package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"vigil/internal/config"
	"vigil/internal/fetch"
	"vigil/internal/history"
	"vigil/internal/list"
	"vigil/internal/server"
	"vigil/internal/setup"
	"vigil/internal/tui"
)

func main() {
	app := &cli.Command{
		Name:  "vigil",
		Usage: "Keyword-driven incident monitoring",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Run the pipeline once and overwrite the snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sources", Usage: "Comma-separated sources (feeds,search)", Value: "feeds,search"},
					&cli.IntFlag{Name: "days-back", Usage: "Override search window in days"},
					&cli.StringFlag{Name: "log-file", Usage: "Path to log file (default: stdout)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					opts := fetch.Options{
						Sources:  c.String("sources"),
						DaysBack: c.Int("days-back"),
						LogFile:  c.String("log-file"),
					}
					return fetch.Run(ctx, opts, config.AppConfigLoader())
				},
			},
			{
				Name:  "list",
				Usage: "Print the current snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "Filter by source name (default: all)"},
					&cli.StringFlag{Name: "sentiment", Usage: "Filter by sentiment: Warning, Rumor or Neutral (default: all)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows to print (default: no limit)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return list.Run(ctx, c.String("source"), c.String("sentiment"), c.Int("limit"))
				},
			},
			{
				Name:  "monitor",
				Usage: "Open the interactive dashboard",
				Action: func(ctx context.Context, c *cli.Command) error {
					return tui.Run(ctx)
				},
			},
			{
				Name:  "history",
				Usage: "Query the archive of past runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "hours", Usage: "Time window in hours (default: 24)", Value: 24},
					&cli.StringFlag{Name: "source", Usage: "Filter by source name (default: all)"},
					&cli.StringFlag{Name: "sentiment", Usage: "Filter by sentiment (default: all)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows to print (default: 50)", Value: 50},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return history.Run(ctx, c.Int("hours"), c.String("source"), c.String("sentiment"), c.Int("limit"))
				},
			},
			{
				Name:  "server",
				Usage: "Run MCP server on stdio",
				Action: func(ctx context.Context, c *cli.Command) error {
					return server.Run(ctx)
				},
			},
			{
				Name:  "setup",
				Usage: "Write a starter configuration file",
				Action: func(ctx context.Context, c *cli.Command) error {
					return setup.Run(ctx)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
