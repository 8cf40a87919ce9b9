package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/citescout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag[T cli.Flag](t *testing.T, cmd *cli.Command, name string) T {
	t.Helper()
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok {
			for _, n := range flag.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	t.Fatalf("flag %q not found on %s", name, cmd.Name)
	var zero T
	return zero
}

func TestServeCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "serve")

	t.Run("port defaults to 3002", func(t *testing.T) {
		port := findFlag[*cli.IntFlag](t, cmd, "port")
		assert.Equal(t, 3002, port.Value)
		assert.Equal(t, []string{"PORT"}, port.EnvVars)
	})

	t.Run("credentials are required and read from the environment", func(t *testing.T) {
		for name, env := range map[string]string{
			"verify-token":     "VERIFY_TOKEN",
			"whatsapp-token":   "WHATSAPP_TOKEN",
			"whatsapp-api-url": "WHATSAPP_API_URL",
			"elsevier-api-key": "ELSEVIER_API_KEY",
		} {
			flag := findFlag[*cli.StringFlag](t, cmd, name)
			assert.True(t, flag.Required, name)
			assert.Equal(t, []string{env}, flag.EnvVars, name)
		}
	})

	t.Run("app secret is optional", func(t *testing.T) {
		flag := findFlag[*cli.StringFlag](t, cmd, "app-secret")
		assert.False(t, flag.Required)
		assert.Equal(t, []string{"APP_SECRET"}, flag.EnvVars)
	})

	t.Run("store flags", func(t *testing.T) {
		cache := findFlag[*cli.StringFlag](t, cmd, "cache")
		assert.Equal(t, defaultCachePath, cache.Value)
		assert.Equal(t, []string{"CACHE_DB"}, cache.EnvVars)

		catalog := findFlag[*cli.StringFlag](t, cmd, "catalog-db")
		assert.Empty(t, catalog.Value)
		assert.Equal(t, []string{"CATALOG_DB"}, catalog.EnvVars)

		ttl := findFlag[*cli.DurationFlag](t, cmd, "journal-ttl")
		assert.Equal(t, 7*24*time.Hour, ttl.Value)
	})

	t.Run("union matches is off by default", func(t *testing.T) {
		flag := findFlag[*cli.BoolFlag](t, cmd, "union-matches")
		assert.False(t, flag.Value)
	})
}

func TestRefreshCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "refresh")

	assert.True(t, findFlag[*cli.StringFlag](t, cmd, "elsevier-api-key").Required)
	assert.Equal(t, 50, findFlag[*cli.IntFlag](t, cmd, "batch-size").Value)
	assert.Equal(t, 3, findFlag[*cli.IntFlag](t, cmd, "max-retries").Value)
	assert.Equal(t, 500*time.Millisecond, findFlag[*cli.DurationFlag](t, cmd, "retry-delay").Value)
}

func TestImportCommandValidation(t *testing.T) {
	t.Run("from is required", func(t *testing.T) {
		err := newApp().Run([]string{"citescout", "import", "--cache", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "from")
	})

	t.Run("missing source fails", func(t *testing.T) {
		err := newApp().Run([]string{"citescout", "import",
			"--from", filepath.Join(t.TempDir(), "missing.db"),
			"--cache", t.TempDir(),
		})
		assert.Error(t, err)
	})
}

func TestRefreshCommandValidation(t *testing.T) {
	err := newApp().Run([]string{"citescout", "refresh",
		"--elsevier-api-key", "key",
		"--cache", t.TempDir(),
		"--batch-size", "0",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch-size must be greater than 0")
}

func createCatalogDB(t *testing.T, titles ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scopus_sources.db")
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, sqlitex.ExecuteScript(conn, "CREATE TABLE sources (source_title TEXT);", nil))
	for _, title := range titles {
		require.NoError(t, sqlitex.Execute(conn, "INSERT INTO sources (source_title) VALUES (?);", &sqlitex.ExecOptions{
			Args: []any{title},
		}))
	}
	return path
}

func TestImportThenSearch(t *testing.T) {
	t.Setenv("ELSEVIER_API_KEY", "")
	t.Setenv("CATALOG_DB", "")

	source := createCatalogDB(t, "Journal of Applied Physics", "Applied Ergonomics", "Nature")
	cache := filepath.Join(t.TempDir(), "cache")

	require.NoError(t, newApp().Run([]string{"citescout", "import", "--from", source, "--cache", cache}))

	t.Run("keywords from arguments", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		require.NoError(t, app.Run([]string{"citescout", "search", "--cache", cache, "applied", "physics"}))
		assert.Contains(t, out.String(), "Matching Titles:\n1. Journal of Applied Physics\n")
		assert.NotContains(t, out.String(), "Top ")
	})

	t.Run("keywords from prompt", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		app.Reader = strings.NewReader("applied\n")

		require.NoError(t, app.Run([]string{"citescout", "search", "--cache", cache, "--union-matches"}))
		assert.Contains(t, out.String(), "Enter search keywords (separated by space): ")
		assert.Contains(t, out.String(), "1. Journal of Applied Physics\n2. Applied Ergonomics\n")
	})

	t.Run("no matches", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		require.NoError(t, app.Run([]string{"citescout", "search", "--cache", cache, "chemistry"}))
		assert.Contains(t, out.String(), "No matching titles found.")
	})

	t.Run("trace prints combinations", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		require.NoError(t, app.Run([]string{"citescout", "search", "--cache", cache, "--trace", "applied", "nature"}))
		assert.Contains(t, out.String(), "keywords: applied, nature")
		assert.Contains(t, out.String(), "[2] applied + nature: 0 matches")
	})
}

func TestPrintJournals(t *testing.T) {
	var out bytes.Buffer
	journal := core.NewJournal("nature")
	journal.Title = "Nature"
	journal.CiteScore = core.Score(60.9)
	journal.ScopusLink = "https://www.scopus.com/sourceid/21206"

	printJournals(&out, []*core.Journal{journal}, 10)
	assert.Equal(t, "\nTop 10 Journals based on CiteScore:\n"+
		"1. Title: Nature\n"+
		"   CiteScore: 60.9\n"+
		"   Source Link: https://www.scopus.com/sourceid/21206\n\n", out.String())

	out.Reset()
	printJournals(&out, nil, 10)
	assert.Equal(t, "No journals found.\n", out.String())
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"INFO", slog.LevelInfo},
			{"WaRn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				require.NoError(t, app.Run([]string{"test", "--log-level", tc.input}))
				assert.True(t, slog.Default().Enabled(context.Background(), tc.expected))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"citescout", "--log-level", "invalid", "search"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
