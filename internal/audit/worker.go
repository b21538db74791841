package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Worker delivers published events to a Sink on a single background goroutine.
// When the buffer is full new events are dropped and logged.
type Worker struct {
	eventCh chan Event
	sink    Sink
	logger  *slog.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ Publisher = (*Worker)(nil)

func NewWorker(sink Sink, bufferSize int, logger *slog.Logger) *Worker {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh: make(chan Event, bufferSize),
		sink:    sink,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				w.logger.Info("draining audit events before shutdown", "remaining_events", len(w.eventCh))
				for len(w.eventCh) > 0 {
					w.save(context.Background(), <-w.eventCh)
				}
				return
			case event := <-w.eventCh:
				w.save(w.ctx, event)
			}
		}
	}()
}

func (w *Worker) save(ctx context.Context, event Event) {
	if err := w.sink.Save(ctx, event); err != nil {
		w.logger.Error("failed to save audit event", "error", err, "event_type", event.Type, "group_id", event.GroupID)
	}
}

func (w *Worker) Publish(event Event) {
	select {
	case w.eventCh <- event:
	default:
		w.logger.Warn("audit channel full, dropping event", "event_type", event.Type, "group_id", event.GroupID)
	}
}

// Shutdown stops the worker after delivering everything already buffered.
// Publish must not be called after Shutdown.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
