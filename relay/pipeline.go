package relay

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/citescout/core"
	"github.com/poiesic/citescout/messaging"
	"github.com/poiesic/citescout/search"
)

const (
	defaultMessageTimeout = 2 * time.Minute
	defaultQueueSize      = 256
	apologyTimeout        = 15 * time.Second
)

// Pipeline answers inbound messages with ranked journal lists.
type Pipeline struct {
	searcher   *search.Searcher
	enricher   *Enricher
	sender     messaging.Sender
	pool       *ants.Pool
	queue      chan *core.InboundMessage
	busy       atomic.Int32
	closeMu    sync.RWMutex
	closed     bool
	poolSize   int
	queueSize  int
	maxResults int
	maxChunk   int
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets how many messages are processed concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.poolSize = size
		return nil
	}
}

// WithQueueSize sets how many submitted messages may wait for a worker
// before Submit fails. Default is 256.
func WithQueueSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 0 {
			size = 0
		}
		p.queueSize = size
		return nil
	}
}

// WithMaxResults sets how many journals a reply lists.
// Default is DefaultMaxResults.
func WithMaxResults(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = DefaultMaxResults
		}
		p.maxResults = n
		return nil
	}
}

// WithMaxChunk sets the longest message body sent.
// Default is messaging.DefaultMaxChunk.
func WithMaxChunk(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = messaging.DefaultMaxChunk
		}
		p.maxChunk = n
		return nil
	}
}

// WithMessageTimeout bounds the handling of one submitted message.
// Default is 2 minutes.
func WithMessageTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout > 0 {
			p.timeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new relay pipeline.
func NewPipeline(searcher *search.Searcher, enricher *Enricher, sender messaging.Sender, opts ...Option) (*Pipeline, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if enricher == nil {
		return nil, ErrEnricherRequired
	}
	if sender == nil {
		return nil, ErrSenderRequired
	}

	p := &Pipeline{
		searcher:   searcher,
		enricher:   enricher,
		sender:     sender,
		poolSize:   max(runtime.NumCPU()/2, 1),
		queueSize:  defaultQueueSize,
		maxResults: DefaultMaxResults,
		maxChunk:   messaging.DefaultMaxChunk,
		timeout:    defaultMessageTimeout,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "relay")

	pool, err := ants.NewPool(p.poolSize,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(v any) {
			p.logger.Error("message worker panicked", "panic", v)
		}),
	)
	if err != nil {
		return nil, err
	}
	p.pool = pool
	p.queue = make(chan *core.InboundMessage, p.queueSize)

	// Each worker drains the queue until Release closes it
	for range p.poolSize {
		if err := pool.Submit(p.work); err != nil {
			close(p.queue)
			pool.Release()
			return nil, err
		}
	}

	return p, nil
}

// HandleMessage answers one message synchronously.
// The returned error is the failure that triggered the apology reply, if any;
// it has already been logged.
func (p *Pipeline) HandleMessage(ctx context.Context, msg *core.InboundMessage) error {
	if err := core.ValidateMessage(msg); err != nil {
		return err
	}

	logger := p.logger.With("from", msg.From, "message", msg.ID)
	err := p.respond(ctx, msg, logger)
	if err == nil {
		return nil
	}

	logger.Error("error processing message", "err", err)

	// The apology goes out even when ctx has expired
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), apologyTimeout)
	defer cancel()
	if sendErr := p.sender.SendText(sendCtx, msg.From, ErrorReply); sendErr != nil {
		logger.Error("error sending apology", "err", sendErr)
		return errors.Join(err, sendErr)
	}
	return err
}

func (p *Pipeline) respond(ctx context.Context, msg *core.InboundMessage, logger *slog.Logger) error {
	if err := p.sender.SendText(ctx, msg.From, SearchingReply); err != nil {
		return err
	}

	keywords := search.SplitQuery(msg.Body)
	titles, err := p.searcher.Search(ctx, keywords)
	if err != nil {
		return err
	}
	logger.Info("search complete", "keywords", keywords, "matches", len(titles))

	if len(titles) == 0 {
		return p.sender.SendText(ctx, msg.From, NoMatchesReply)
	}

	ranked := Rank(p.enricher.Enrich(ctx, titles), p.maxResults)
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ranked) == 0 {
		return p.sender.SendText(ctx, msg.From, NoDataReply)
	}

	chunks := messaging.Chunk(FormatResults(ranked), p.maxChunk)
	for _, chunk := range chunks {
		if err := p.sender.SendText(ctx, msg.From, chunk); err != nil {
			return err
		}
	}
	logger.Debug("reply sent", "journals", len(ranked), "chunks", len(chunks))
	return nil
}

// Submit queues msg for asynchronous handling with the configured timeout
// and never blocks. Invalid messages are rejected immediately. Returns
// ants.ErrPoolOverload when the queue is full and ants.ErrPoolClosed after
// Release.
func (p *Pipeline) Submit(msg *core.InboundMessage) error {
	if err := core.ValidateMessage(msg); err != nil {
		return err
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ants.ErrPoolClosed
	}

	select {
	case p.queue <- msg:
		return nil
	default:
		return ants.ErrPoolOverload
	}
}

func (p *Pipeline) work() {
	for msg := range p.queue {
		p.handleQueued(msg)
	}
}

func (p *Pipeline) handleQueued(msg *core.InboundMessage) {
	p.busy.Add(1)
	defer p.busy.Add(-1)
	defer func() {
		if v := recover(); v != nil {
			p.logger.Error("message handler panicked", "message", msg.ID, "panic", v)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	// Failures are logged by HandleMessage
	_ = p.HandleMessage(ctx, msg)
}

// Running returns the number of messages currently being handled.
func (p *Pipeline) Running() int {
	return int(p.busy.Load())
}

// Queued returns the number of messages waiting for a worker.
func (p *Pipeline) Queued() int {
	return len(p.queue)
}

// Release stops accepting messages and waits up to timeout for queued and
// running messages to finish. The pipeline should not be used after calling
// Release.
func (p *Pipeline) Release(timeout time.Duration) error {
	p.closeMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.closeMu.Unlock()

	err := p.pool.ReleaseTimeout(timeout)
	if err != nil && !errors.Is(err, ants.ErrPoolClosed) {
		p.logger.Warn("message handlers still running at shutdown",
			"running", p.Running(), "queued", p.Queued())
		return err
	}
	return nil
}
