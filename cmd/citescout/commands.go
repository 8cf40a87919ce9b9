package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/citescout"
	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/messaging/whatsapp"
	"github.com/poiesic/citescout/metrics/elsevier"
	"github.com/poiesic/citescout/refresh"
	"github.com/poiesic/citescout/relay"
	"github.com/poiesic/citescout/search"
	"github.com/poiesic/citescout/server"
	"github.com/poiesic/citescout/webhook"
	"github.com/urfave/cli/v2"
)

// openService opens the cache and catalog named by the store flags.
func openService(c *cli.Context) (*citescout.Service, error) {
	opts := []citescout.ServiceOption{citescout.WithJournalTTL(c.Duration("journal-ttl"))}
	if path := c.String("catalog-db"); path != "" {
		opts = append(opts, citescout.WithSQLiteCatalog(path, "", ""))
	}

	svc, err := citescout.NewService(c.String("cache"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return svc, nil
}

func matcherFor(c *cli.Context) *search.Matcher {
	if c.Bool("union-matches") {
		return search.NewMatcher(search.WithStrategy(search.UnionWinningSize))
	}
	return search.NewMatcher()
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lookupConfig, err := metricsConfig(c)
	if err != nil {
		return err
	}
	lookup, err := elsevier.NewClient(lookupConfig)
	if err != nil {
		return fmt.Errorf("failed to create Elsevier client: %w", err)
	}

	senderConfig := whatsapp.DefaultConfig()
	senderConfig.APIURL = c.String("whatsapp-api-url")
	senderConfig.Token = c.String("whatsapp-token")
	sender, err := whatsapp.NewSender(senderConfig)
	if err != nil {
		return fmt.Errorf("failed to create WhatsApp sender: %w", err)
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher(search.WithMatcher(matcherFor(c)))
	if err != nil {
		return err
	}

	pipeline, err := svc.NewPipeline(searcher, lookup, sender,
		relay.WithPoolSize(c.Int("workers")),
		relay.WithMessageTimeout(c.Duration("message-timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to create relay pipeline: %w", err)
	}

	handler, err := webhook.NewHandler(c.String("verify-token"), pipeline,
		webhook.WithAppSecret(c.String("app-secret")),
	)
	if err != nil {
		pipeline.Release(0)
		return err
	}

	srv, err := server.New(fmt.Sprintf(":%d", c.Int("port")), handler.Routes(),
		server.WithShutdownTimeout(c.Duration("shutdown-timeout")),
	)
	if err != nil {
		pipeline.Release(0)
		return err
	}

	serveErr := srv.Serve(ctx)

	// Drain queued messages after the listener is closed
	if err := pipeline.Release(c.Duration("shutdown-timeout")); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("draining messages: %w", err)
	}
	return serveErr
}

func searchCommand(c *cli.Context) error {
	ctx := c.Context

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher(search.WithMatcher(matcherFor(c)))
	if err != nil {
		return err
	}

	out := c.App.Writer
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		query, err = prompt(c.App.Reader, out, "Enter search keywords (separated by space): ")
		if err != nil {
			return err
		}
	}

	var monitor search.Monitor
	if c.Bool("trace") {
		monitor = &traceMonitor{out: out}
	}

	fmt.Fprintln(out, "Searching for titles...")
	titles, err := searcher.SearchWithMonitor(ctx, search.SplitQuery(query), monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printTitles(out, titles)
	if len(titles) == 0 || c.String("elsevier-api-key") == "" {
		return nil
	}

	lookupConfig, err := metricsConfig(c)
	if err != nil {
		return err
	}
	lookup, err := elsevier.NewClient(lookupConfig)
	if err != nil {
		return fmt.Errorf("failed to create Elsevier client: %w", err)
	}
	enricher, err := svc.NewEnricher(lookup)
	if err != nil {
		return err
	}

	printJournals(out, relay.Rank(enricher.Enrich(ctx, titles), c.Int("top")), c.Int("top"))
	return nil
}

func importCommand(c *cli.Context) error {
	svc, err := citescout.NewService(c.String("cache"),
		citescout.WithSQLiteCatalog(c.String("from"), c.String("table"), c.String("column")),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer svc.Close()

	fmt.Fprintf(os.Stderr, "Source: %s\n", c.String("from"))
	fmt.Fprintf(os.Stderr, "Cache: %s\n", c.String("cache"))
	fmt.Fprintln(os.Stderr)

	n, err := svc.ImportCatalog(c.Context, svc.Catalog())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d titles\n", n)
	return nil
}

func refreshCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refreshConfig := &refresh.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		Concurrency:    c.Int("concurrency"),
		CachedOnly:     c.Bool("cached-only"),
		Limit:          c.Int("limit"),
	}
	if refreshConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if refreshConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if refreshConfig.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0")
	}

	lookupConfig, err := metricsConfig(c)
	if err != nil {
		return err
	}
	lookup, err := elsevier.NewClient(lookupConfig)
	if err != nil {
		return fmt.Errorf("failed to create Elsevier client: %w", err)
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	refresher, err := svc.NewRefresher(lookup, refreshConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Cache: %s\n", c.String("cache"))
	if path := c.String("catalog-db"); path != "" {
		fmt.Fprintf(os.Stderr, "Catalog: %s\n", path)
	}
	fmt.Fprintln(os.Stderr)

	if _, err := refresher.Run(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	return nil
}

func prompt(in io.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading keywords: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printTitles(out io.Writer, titles []string) {
	if len(titles) == 0 {
		fmt.Fprintln(out, "No matching titles found.")
		return
	}

	fmt.Fprintln(out, "\nMatching Titles:")
	for i, title := range titles {
		fmt.Fprintf(out, "%d. %s\n", i+1, title)
	}
}

func printJournals(out io.Writer, journals []*core.Journal, top int) {
	if len(journals) == 0 {
		fmt.Fprintln(out, "No journals found.")
		return
	}

	fmt.Fprintf(out, "\nTop %d Journals based on CiteScore:\n", top)
	for i, journal := range journals {
		fmt.Fprintf(out, "%d. Title: %s\n", i+1, journal.Title)
		fmt.Fprintf(out, "   CiteScore: %s\n", journal.CiteScore)
		fmt.Fprintf(out, "   Source Link: %s\n\n", journal.ScopusLink)
	}
}

// traceMonitor prints matcher progress.
type traceMonitor struct {
	out io.Writer
}

var _ search.Monitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(keywords []string) {
	fmt.Fprintf(m.out, "keywords: %s\n", strings.Join(keywords, ", "))
}

func (m *traceMonitor) CombinationTried(size int, combination []string, matched []string) {
	fmt.Fprintf(m.out, "  [%d] %s: %d matches\n", size, strings.Join(combination, " + "), len(matched))
}

func (m *traceMonitor) Finish(results []string) {
	fmt.Fprintf(m.out, "results: %d\n", len(results))
}
