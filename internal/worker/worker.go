package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gsarma/codepad/internal/runner"
)

// ErrQueueFull is returned when a report is dropped because the queue is full.
var ErrQueueFull = errors.New("report queue full")

// Options tune delivery. Zero values select the defaults.
type Options struct {
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
}

// Dispatcher delivers run reports in the background so a run never waits on
// the downstream publisher. It implements runner.ReportPublisher.
type Dispatcher struct {
	publisher   runner.ReportPublisher
	concurrency int
	maxAttempts int
	backoff     time.Duration
	queue       chan runner.Report
}

var _ runner.ReportPublisher = (*Dispatcher)(nil)

func New(publisher runner.ReportPublisher, concurrency int, opts Options) *Dispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Dispatcher{
		publisher:   publisher,
		concurrency: concurrency,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		queue:       make(chan runner.Report, opts.QueueSize),
	}
}

// PublishRunReport queues r for delivery and returns immediately.
// A full queue drops r and returns ErrQueueFull; the caller logs it.
func (d *Dispatcher) PublishRunReport(_ context.Context, r runner.Report) error {
	select {
	case d.queue <- r:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start spawns concurrency goroutines that drain the queue.
// It blocks until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.concurrency; i++ {
		go d.loop(ctx)
	}
	<-ctx.Done()
}

func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-d.queue:
			d.deliver(ctx, r)
		}
	}
}

// deliver retries with exponential backoff until the report is accepted or
// maxAttempts is reached.
func (d *Dispatcher) deliver(ctx context.Context, r runner.Report) {
	for attempt := 1; ; attempt++ {
		err := d.publisher.PublishRunReport(ctx, r)
		if err == nil {
			return
		}
		if attempt >= d.maxAttempts {
			log.Printf("worker: giving up on report %s after %d attempts: %v", r.RunID, attempt, err)
			return
		}
		backoff := time.Duration(int64(1)<<uint(attempt-1)) * d.backoff
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}
