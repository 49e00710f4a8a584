// Package bot runs the per-message relay: validate, gate, generate, deliver.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/events"
	"github.com/wolfman30/naturesvirtue-bot/internal/intent"
	"github.com/wolfman30/naturesvirtue-bot/internal/language"
	"github.com/wolfman30/naturesvirtue-bot/internal/messaging"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

const provider = "whatsapp"

var (
	// ErrNoMessage marks webhook events without a user message (status callbacks).
	ErrNoMessage = errors.New("bot: webhook event has no message")
	// ErrUnsupportedType marks non-text messages; the sender gets the text-only notice.
	ErrUnsupportedType = errors.New("bot: unsupported message type")
	// ErrEmptyText marks text messages without a body; the sender gets the error notice.
	ErrEmptyText = errors.New("bot: text message has no body")
)

// Outcome is the terminal state of one inbound event.
type Outcome string

const (
	OutcomeNoMessage   Outcome = "no_message"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeUnsupported Outcome = "unsupported"
	OutcomeOffTopic    Outcome = "off_topic"
	OutcomeResponded   Outcome = "responded"
	OutcomeErrored     Outcome = "errored"
)

// Replier generates an answer from the message, language and prior turns.
type Replier interface {
	Complete(ctx context.Context, message string, lang language.Tag, history []conversation.ChatMessage) (string, error)
}

// Deliverer sends a reply, splitting it as needed.
type Deliverer interface {
	Deliver(ctx context.Context, recipient, text string) error
}

// Recorder receives per-event metrics. *metrics.BotMetrics satisfies it.
type Recorder interface {
	ObserveInbound(outcome string)
	ObserveLanguage(lang string)
	SetActiveConversations(n int)
}

// Config wires an Orchestrator. Dedup and Metrics are optional.
type Config struct {
	Store      *conversation.Store
	Classifier intent.Classifier
	Assistant  Replier
	Delivery   Deliverer
	Dedup      events.ProcessedStore
	Metrics    Recorder
	Logger     *logging.Logger
}

// Orchestrator handles inbound webhook events end to end.
type Orchestrator struct {
	store      *conversation.Store
	classifier intent.Classifier
	assistant  Replier
	delivery   Deliverer
	dedup      events.ProcessedStore
	metrics    Recorder
	logger     *logging.Logger
}

func New(cfg Config) *Orchestrator {
	if cfg.Store == nil || cfg.Assistant == nil || cfg.Delivery == nil {
		panic("bot: store, assistant and delivery are required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = intent.NewPatternClassifier(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Orchestrator{
		store:      cfg.Store,
		classifier: cfg.Classifier,
		assistant:  cfg.Assistant,
		delivery:   cfg.Delivery,
		dedup:      cfg.Dedup,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// HandleEvent processes one webhook event. The returned error is
// ErrNoMessage, ErrUnsupportedType, the cause of an errored event, or nil.
// Errored events have already triggered the localized error notice; nothing
// here panics out to the caller.
func (o *Orchestrator) HandleEvent(ctx context.Context, event whatsapp.WebhookEvent) (outcome Outcome, err error) {
	msg, ok := whatsapp.ParseWebhookEvent(event)
	if !ok {
		o.logger.Debug("no message found in webhook", "object", event.Object)
		o.observe(OutcomeNoMessage)
		return OutcomeNoMessage, ErrNoMessage
	}

	logger := o.logger.With("sender", msg.SenderID, "wamid", msg.MessageID, "type", msg.Type)
	logger.Info("whatsapp message received", "sent_at", msg.Timestamp, "profile", msg.ProfileName)

	if o.isDuplicate(ctx, msg, logger) {
		o.observe(OutcomeDuplicate)
		return OutcomeDuplicate, nil
	}

	release := o.store.Acquire(msg.SenderID)
	defer release()

	defer func() {
		if r := recover(); r != nil {
			outcome, err = OutcomeErrored, fmt.Errorf("bot: panic while handling message: %v", r)
		}
		if outcome == OutcomeErrored {
			logger.Error("webhook processing failed", "error", err)
			o.sendErrorNotice(ctx, msg.SenderID, logger)
		}
		o.observe(outcome)
	}()

	return o.process(ctx, msg, logger)
}

func (o *Orchestrator) process(ctx context.Context, msg whatsapp.InboundMessage, logger *logging.Logger) (Outcome, error) {
	sender := msg.SenderID

	if !msg.IsText() {
		lang := o.store.GetOrCreate(sender).Language
		if err := o.delivery.Deliver(ctx, sender, messaging.TextOnlyMessage(lang)); err != nil {
			return OutcomeErrored, err
		}
		return OutcomeUnsupported, ErrUnsupportedType
	}

	body := strings.TrimSpace(msg.Text)
	if body == "" {
		return OutcomeErrored, ErrEmptyText
	}

	lang := language.Detect(body)
	o.store.SetLanguage(sender, lang)
	if o.metrics != nil {
		o.metrics.ObserveLanguage(string(lang))
	}

	decision := o.classifier.Classify(body)
	logger.Info("message classified", "language", lang, "on_topic", decision.OnTopic, "label", decision.Label)
	if !decision.OnTopic {
		if err := o.delivery.Deliver(ctx, sender, messaging.OffTopicMessage(lang)); err != nil {
			return OutcomeErrored, err
		}
		return OutcomeOffTopic, nil
	}

	reply, err := o.assistant.Complete(ctx, body, lang, o.store.History(sender))
	if err != nil {
		return OutcomeErrored, err
	}

	o.store.Append(sender, conversation.ChatRoleUser, body)
	o.store.Append(sender, conversation.ChatRoleAssistant, reply)

	if err := o.delivery.Deliver(ctx, sender, reply); err != nil {
		return OutcomeErrored, err
	}
	return OutcomeResponded, nil
}

// sendErrorNotice is the second tier of error handling: a failed or panicking
// notice is logged and swallowed.
func (o *Orchestrator) sendErrorNotice(ctx context.Context, sender string, logger *logging.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("error notice panicked", "panic", fmt.Sprint(r))
		}
	}()
	if strings.TrimSpace(sender) == "" {
		logger.Warn("cannot send error notice without a sender")
		return
	}
	lang := o.store.Language(sender)
	if err := o.delivery.Deliver(ctx, sender, messaging.ErrorMessage(lang)); err != nil {
		logger.Error("failed to send error notice", "error", err)
	}
}

// isDuplicate marks the message id as processed. Store failures are logged and
// the message is handled anyway.
func (o *Orchestrator) isDuplicate(ctx context.Context, msg whatsapp.InboundMessage, logger *logging.Logger) bool {
	if o.dedup == nil || msg.MessageID == "" {
		return false
	}
	first, err := o.dedup.MarkProcessed(ctx, provider, msg.MessageID)
	if err != nil {
		logger.Warn("dedup check failed, processing anyway", "error", err)
		return false
	}
	if !first {
		logger.Info("duplicate webhook delivery ignored")
	}
	return !first
}

func (o *Orchestrator) observe(outcome Outcome) {
	if o.metrics == nil {
		return
	}
	o.metrics.ObserveInbound(string(outcome))
	o.metrics.SetActiveConversations(o.store.Count())
}
