package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// EventHandler is implemented by *Orchestrator.
type EventHandler interface {
	HandleEvent(ctx context.Context, event whatsapp.WebhookEvent) (Outcome, error)
}

// Dispatcher runs each acknowledged webhook event on its own goroutine so the
// HTTP handler can return immediately. Events for different senders proceed in
// parallel; the store's per-sender lock orders events from the same sender.
type Dispatcher struct {
	handler EventHandler
	logger  *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(handler EventHandler, logger *logging.Logger) *Dispatcher {
	if handler == nil {
		panic("bot: event handler required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Dispatch schedules event and reports false once Shutdown has begun.
func (d *Dispatcher) Dispatch(event whatsapp.WebhookEvent) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed, dropping webhook event")
		return false
	}
	d.wg.Add(1)
	d.mu.Unlock()

	jobID := uuid.NewString()
	go d.run(jobID, event)
	return true
}

func (d *Dispatcher) run(jobID string, event whatsapp.WebhookEvent) {
	defer d.wg.Done()
	logger := d.logger.With("job_id", jobID)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("webhook job panicked", "panic", r)
		}
	}()

	start := time.Now()
	outcome, err := d.handler.HandleEvent(d.ctx, event)
	switch {
	case err == nil, errors.Is(err, ErrNoMessage), errors.Is(err, ErrUnsupportedType):
		logger.Debug("webhook job finished", "outcome", outcome, "duration_ms", time.Since(start).Milliseconds())
	default:
		logger.Warn("webhook job errored", "outcome", outcome, "error", err, "duration_ms", time.Since(start).Milliseconds())
	}
}

// Shutdown stops accepting events and waits for in-flight ones. If ctx ends
// first, in-flight work is canceled and ctx's error returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
