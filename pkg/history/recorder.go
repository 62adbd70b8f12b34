package history

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stayware/sessionkit/pkg/session"
)

// Store provides bulk persistence for lifecycle events. Implementations
// should treat a batch as one unit: either all events land or the batch
// fails as a whole.
type Store interface {
	StoreBatch(ctx context.Context, events []session.Event) error
}

// Options configures the batching and buffering behavior of a Recorder.
type Options struct {
	// BufferSize is the number of events queued in memory before new
	// events are dropped.
	BufferSize int

	// BatchSize is the target events per flush.
	BatchSize int

	// BatchTimeout bounds how long a partial batch waits before flushing.
	BatchTimeout time.Duration

	// StorageTimeout bounds each StoreBatch call.
	StorageTimeout time.Duration

	// Logger receives flush failures and drop notices.
	Logger *slog.Logger
}

// Recorder implements session.EventSink. Record never blocks: events are
// buffered and flushed to the Store in batches by a background worker.
// When the buffer is full the event is dropped and counted, because a slow
// history backend must never stall a session operation.
type Recorder struct {
	store     Store
	opts      Options
	log       *slog.Logger
	eventChan chan session.Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	dropped   atomic.Int64
}

// NewRecorder creates a recorder flushing into store. Zero Options fields
// fall back to defaults suited to low-rate lifecycle events.
func NewRecorder(store Store, opts Options) *Recorder {
	if store == nil {
		panic("history: store cannot be nil")
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = 256
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 32
	}
	if opts.BatchTimeout == 0 {
		opts.BatchTimeout = 250 * time.Millisecond
	}
	if opts.StorageTimeout == 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := &Recorder{
		store:     store,
		opts:      opts,
		log:       opts.Logger,
		eventChan: make(chan session.Event, opts.BufferSize),
		done:      make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record implements session.EventSink.
func (r *Recorder) Record(event session.Event) {
	select {
	case r.eventChan <- event:
	case <-r.done:
		// Closed, drop
	default:
		r.dropped.Add(1)
		r.log.Warn("history buffer full, dropping event",
			slog.String("type", string(event.Type)))
	}
}

// Dropped returns how many events were discarded because the buffer was
// full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	batch := make([]session.Event, 0, r.opts.BatchSize)
	ticker := time.NewTicker(r.opts.BatchTimeout)
	defer ticker.Stop()

	// flush runs on a background context so a cancelled producer can't
	// abandon events that were already accepted.
	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.opts.StorageTimeout)
		defer cancel()

		if err := r.store.StoreBatch(ctx, batch); err != nil {
			r.log.Error("history flush failed",
				slog.Int("events", len(batch)),
				slog.Any("error", err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case event := <-r.eventChan:
			batch = append(batch, event)
			if len(batch) >= r.opts.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-r.done:
			// Drain whatever is still buffered before exiting.
			for {
				select {
				case event := <-r.eventChan:
					batch = append(batch, event)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the worker and flushes buffered events. The context bounds
// the wait; on timeout some events may remain unflushed. Close the session
// manager first so no new events arrive during shutdown.
func (r *Recorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.done) })

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
