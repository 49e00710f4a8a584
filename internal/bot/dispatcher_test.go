package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
)

type blockingHandler struct {
	mu      sync.Mutex
	handled int
	release chan struct{}
	started chan struct{}
}

func (h *blockingHandler) HandleEvent(ctx context.Context, _ whatsapp.WebhookEvent) (Outcome, error) {
	if h.started != nil {
		h.started <- struct{}{}
	}
	if h.release != nil {
		select {
		case <-h.release:
		case <-ctx.Done():
			return OutcomeErrored, ctx.Err()
		}
	}
	h.mu.Lock()
	h.handled++
	h.mu.Unlock()
	return OutcomeResponded, nil
}

func TestDispatcherDrainsOnShutdown(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{}), started: make(chan struct{}, 3)}
	d := NewDispatcher(h, nil)

	for i := 0; i < 3; i++ {
		require.True(t, d.Dispatch(whatsapp.WebhookEvent{}))
	}
	for i := 0; i < 3; i++ {
		<-h.started
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(h.release)
	}()
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, 3, h.handled)

	assert.False(t, d.Dispatch(whatsapp.WebhookEvent{}), "closed dispatcher rejects events")
}

func TestDispatcherShutdownDeadlineCancelsWork(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{}), started: make(chan struct{}, 1)}
	d := NewDispatcher(h, nil)
	require.True(t, d.Dispatch(whatsapp.WebhookEvent{}))
	<-h.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, h.handled)
}

type panickingHandler struct{}

func (panickingHandler) HandleEvent(context.Context, whatsapp.WebhookEvent) (Outcome, error) {
	panic("unexpected")
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := NewDispatcher(panickingHandler{}, nil)
	require.True(t, d.Dispatch(whatsapp.WebhookEvent{}))
	require.NoError(t, d.Shutdown(context.Background()))
}
