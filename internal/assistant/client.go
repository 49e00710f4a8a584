// Package assistant turns a customer message into a catalog-grounded reply
// from the configured generation service.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/language"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// Sampling defaults. High temperature keeps replies from sounding canned.
const (
	DefaultTemperature float32 = 0.9
	DefaultTopP        float32 = 0.95
	DefaultMaxTokens   int32   = 300
	DefaultTimeout             = 30 * time.Second
)

// UpstreamError reports a failed or timed-out generation call.
type UpstreamError struct {
	Model string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("assistant: completion with %s failed: %v", e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Timeout reports whether the call ran past its deadline.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Recorder observes completion latency per answering provider. Implemented by
// the metrics package.
type Recorder interface {
	ObserveCompletion(provider, outcome string, d time.Duration)
}

// Options tunes a Client. Zero values fall back to the defaults above.
type Options struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int32
	Timeout     time.Duration
	Recorder    Recorder
	Tracer      trace.Tracer
	Logger      *logging.Logger
}

// Client assembles prompts and calls the LLM.
type Client struct {
	llm         conversation.LLMClient
	catalog     *catalog.Catalog
	model       string
	temperature float32
	topP        float32
	maxTokens   int32
	timeout     time.Duration
	recorder    Recorder
	tracer      trace.Tracer
	logger      *logging.Logger
}

// NewClient wires an LLM client to the shop catalog.
func NewClient(llm conversation.LLMClient, cat *catalog.Catalog, opts Options) *Client {
	if llm == nil {
		panic("assistant: llm client cannot be nil")
	}
	if cat == nil {
		panic("assistant: catalog cannot be nil")
	}
	c := &Client{
		llm:         llm,
		catalog:     cat,
		model:       opts.Model,
		temperature: opts.Temperature,
		topP:        opts.TopP,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		recorder:    opts.Recorder,
		tracer:      opts.Tracer,
		logger:      opts.Logger,
	}
	if c.temperature == 0 {
		c.temperature = DefaultTemperature
	}
	if c.topP == 0 {
		c.topP = DefaultTopP
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("naturesvirtue.internal.assistant")
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

// Request builds the generation request: system prompt with catalog, the
// existing history in order, then the new user turn.
func (c *Client) Request(message string, lang language.Tag, history []conversation.ChatMessage) conversation.LLMRequest {
	msgs := make([]conversation.ChatMessage, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, conversation.ChatMessage{Role: conversation.ChatRoleUser, Content: message})
	return conversation.LLMRequest{
		Model:       c.model,
		System:      []string{SystemPrompt(c.catalog, lang)},
		Messages:    msgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
}

// Complete returns the generated reply verbatim. Any failure, including the
// timeout, is returned as *UpstreamError and never retried here.
func (c *Client) Complete(ctx context.Context, message string, lang language.Tag, history []conversation.ChatMessage) (string, error) {
	ctx, span := c.tracer.Start(ctx, "assistant.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("naturesvirtue.language", string(lang)),
		attribute.Int("naturesvirtue.history_turns", len(history)),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.llm.Complete(ctx, c.Request(message, lang, history))
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		upstream := &UpstreamError{Model: c.modelLabel(), Err: err}
		outcome := "error"
		if upstream.Timeout() {
			outcome = "timeout"
		}
		c.observe(c.providerLabel(""), outcome, elapsed)
		return "", upstream
	}
	c.observe(c.providerLabel(resp.Provider), "ok", elapsed)

	span.SetAttributes(attribute.Int("naturesvirtue.output_tokens", int(resp.Usage.OutputTokens)))
	c.logger.Debug("completion finished",
		"language", lang,
		"duration_ms", elapsed.Milliseconds(),
		"provider", resp.Provider,
		"stop_reason", resp.StopReason,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp.Text, nil
}

func (c *Client) observe(provider, outcome string, d time.Duration) {
	if c.recorder != nil {
		c.recorder.ObserveCompletion(provider, outcome, d)
	}
}

// providerLabel prefers the provider that answered, then the configured
// client chain, then the model id.
func (c *Client) providerLabel(answered string) string {
	if answered != "" {
		return answered
	}
	if named, ok := c.llm.(interface{ Provider() string }); ok {
		if p := named.Provider(); p != "" {
			return p
		}
	}
	return c.modelLabel()
}

func (c *Client) modelLabel() string {
	if c.model == "" {
		return "default"
	}
	return c.model
}
