// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/citescout/metrics"
	"github.com/poiesic/citescout/refresh"
	"github.com/poiesic/citescout/storage/sqlite"
	"github.com/urfave/cli/v2"
)

const defaultCachePath = "./citescout_cache"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "citescout",
		Usage: "Find journals by title keywords and rank them by CiteScore",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the WhatsApp webhook server",
				Action: serveCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
						Value:   3002,
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:     "verify-token",
						Usage:    "Token expected on webhook subscription requests",
						EnvVars:  []string{"VERIFY_TOKEN"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "app-secret",
						Usage:   "App secret used to verify X-Hub-Signature-256 (optional)",
						EnvVars: []string{"APP_SECRET"},
					},
					&cli.StringFlag{
						Name:     "whatsapp-token",
						Usage:    "Bearer token for the WhatsApp messages API",
						EnvVars:  []string{"WHATSAPP_TOKEN"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "whatsapp-api-url",
						Usage:    "WhatsApp messages endpoint",
						EnvVars:  []string{"WHATSAPP_API_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "elsevier-api-key",
						Usage:    "Elsevier API key",
						EnvVars:  []string{"ELSEVIER_API_KEY"},
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "union-matches",
						Usage: "Return every title matching any combination of the winning size",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of messages handled concurrently",
						Value: 4,
					},
					&cli.DurationFlag{
						Name:  "message-timeout",
						Usage: "Time allowed to answer one message",
						Value: 2 * time.Minute,
					},
					&cli.DurationFlag{
						Name:  "shutdown-timeout",
						Usage: "Time allowed for in-flight work at shutdown",
						Value: 30 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the catalog from the terminal",
				ArgsUsage: "[keywords...]",
				Action:    searchCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:    "elsevier-api-key",
						Usage:   "Elsevier API key; without it only matching titles are printed",
						EnvVars: []string{"ELSEVIER_API_KEY"},
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print every keyword combination tried",
					},
					&cli.BoolFlag{
						Name:  "union-matches",
						Usage: "Return every title matching any combination of the winning size",
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of journals to print",
						Value: 10,
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Copy the titles of a SQLite catalog into the cache database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Aliases:  []string{"f"},
						Usage:    "Path to the SQLite catalog",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "Table holding the titles",
						Value: sqlite.DefaultTable,
					},
					&cli.StringFlag{
						Name:  "column",
						Usage: "Column holding the titles",
						Value: sqlite.DefaultColumn,
					},
					&cli.StringFlag{
						Name:    "cache",
						Aliases: []string{"c"},
						Usage:   "Path to BadgerDB cache directory",
						Value:   defaultCachePath,
						EnvVars: []string{"CACHE_DB"},
					},
				},
			},
			{
				Name:   "refresh",
				Usage:  "Look up catalog titles and store their CiteScores in the cache",
				Action: refreshCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "elsevier-api-key",
						Usage:    "Elsevier API key",
						EnvVars:  []string{"ELSEVIER_API_KEY"},
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of titles looked up before each cache write",
						Value: refresh.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N titles",
						Value: refresh.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of lookups in flight",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "cached-only",
						Usage: "Only refresh titles already in the cache",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Stop after N titles (0 for all)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed lookups",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				),
			},
		},
	}
}

// storeFlags are shared by commands that open the catalog and cache.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "catalog-db",
			Usage:   "SQLite catalog to search; the imported catalog is used when empty",
			EnvVars: []string{"CATALOG_DB"},
		},
		&cli.StringFlag{
			Name:    "cache",
			Aliases: []string{"c"},
			Usage:   "Path to BadgerDB cache directory",
			Value:   defaultCachePath,
			EnvVars: []string{"CACHE_DB"},
		},
		&cli.DurationFlag{
			Name:  "journal-ttl",
			Usage: "How long cached CiteScores are kept (0 keeps them forever)",
			Value: 7 * 24 * time.Hour,
		},
	}
}

func metricsConfig(c *cli.Context) (*metrics.Config, error) {
	opts := []metrics.ConfigOption{metrics.WithAPIKey(c.String("elsevier-api-key"))}
	if c.IsSet("max-retries") || c.IsSet("retry-delay") {
		opts = append(opts, metrics.WithRetries(c.Int("max-retries"), c.Duration("retry-delay")))
	}

	config := metrics.NewConfig(opts...)
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Elsevier configuration: %w", err)
	}
	return config, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
