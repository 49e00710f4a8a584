package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/naturesvirtue-bot/internal/messaging"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// DefaultChunkDelay spaces consecutive chunks to stay under provider rate limits.
const DefaultChunkDelay = 500 * time.Millisecond

// TextSender is the outbound half of the Cloud API client.
type TextSender interface {
	SendText(ctx context.Context, to, body string) (*SendResponse, error)
}

// Pacer waits between consecutive chunks of one reply.
type Pacer interface {
	Pause(ctx context.Context) error
}

// FixedDelay pauses for a constant duration. Zero or negative never waits.
type FixedDelay time.Duration

func (d FixedDelay) Pause(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DeliveryError reports the first chunk that failed. Chunks after it were not sent.
type DeliveryError struct {
	Chunk int // 1-based
	Total int
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("whatsapp: delivery failed at chunk %d/%d: %v", e.Chunk, e.Total, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ChunkRecorder counts outbound chunks by status (sent, failed, skipped).
type ChunkRecorder interface {
	ObserveChunk(status string)
}

// DeliveryConfig tunes a Deliverer.
type DeliveryConfig struct {
	MessageLimit int
	Pacer        Pacer
	SendTimeout  time.Duration
	Recorder     ChunkRecorder
	Logger       *logging.Logger
	Tracer       trace.Tracer
}

// Deliverer segments replies and sends the chunks in order.
type Deliverer struct {
	sender      TextSender
	limit       int
	pacer       Pacer
	sendTimeout time.Duration
	recorder    ChunkRecorder
	logger      *logging.Logger
	tracer      trace.Tracer
}

// NewDeliverer creates a Deliverer. Defaults: 4000 character chunks, 500ms pacing.
func NewDeliverer(sender TextSender, cfg DeliveryConfig) *Deliverer {
	if sender == nil {
		panic("whatsapp: sender cannot be nil")
	}
	d := &Deliverer{
		sender:      sender,
		limit:       cfg.MessageLimit,
		pacer:       cfg.Pacer,
		sendTimeout: cfg.SendTimeout,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
		tracer:      cfg.Tracer,
	}
	if d.limit <= 0 {
		d.limit = messaging.WhatsAppMessageLimit
	}
	if d.pacer == nil {
		d.pacer = FixedDelay(DefaultChunkDelay)
	}
	if d.logger == nil {
		d.logger = logging.Default()
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer("naturesvirtue.internal.channels.whatsapp")
	}
	return d
}

// Deliver sends text to recipient as one or more chunks, waiting for each
// acknowledgement before the next. The first failing chunk aborts the rest and
// is returned as *DeliveryError; chunks already sent stay sent. If ctx ends
// between chunks the remainder is dropped and logged as incomplete, which is
// not an error.
func (d *Deliverer) Deliver(ctx context.Context, recipient, text string) error {
	chunks := messaging.Split(text, d.limit)

	ctx, span := d.tracer.Start(ctx, "whatsapp.deliver")
	defer span.End()
	span.SetAttributes(attribute.Int("naturesvirtue.chunks", len(chunks)))

	for i, chunk := range chunks {
		if i > 0 {
			if err := d.pacer.Pause(ctx); err != nil {
				d.incomplete(recipient, i, len(chunks), err)
				return nil
			}
		}
		if ctx.Err() != nil {
			d.incomplete(recipient, i, len(chunks), ctx.Err())
			return nil
		}

		if err := d.sendChunk(ctx, recipient, chunk); err != nil {
			if ctx.Err() != nil {
				d.incomplete(recipient, i, len(chunks), ctx.Err())
				return nil
			}
			d.observe("failed")
			d.skip(len(chunks) - i - 1)
			span.RecordError(err)
			return &DeliveryError{Chunk: i + 1, Total: len(chunks), Err: err}
		}
		d.observe("sent")
	}
	return nil
}

func (d *Deliverer) sendChunk(ctx context.Context, recipient, chunk string) error {
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}
	resp, err := d.sender.SendText(ctx, recipient, chunk)
	if err != nil {
		return err
	}
	d.logger.Debug("whatsapp chunk sent", "to", recipient, "wamid", resp.MessageID())
	return nil
}

func (d *Deliverer) incomplete(recipient string, sent, total int, cause error) {
	d.skip(total - sent)
	d.logger.Warn("whatsapp delivery incomplete",
		"to", recipient,
		"sent", sent,
		"total", total,
		"reason", cause.Error(),
		"canceled", errors.Is(cause, context.Canceled),
	)
}

func (d *Deliverer) skip(n int) {
	for i := 0; i < n; i++ {
		d.observe("skipped")
	}
}

func (d *Deliverer) observe(status string) {
	if d.recorder != nil {
		d.recorder.ObserveChunk(status)
	}
}
