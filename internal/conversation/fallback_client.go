package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// FallbackLLMClient tries a second provider when the first one fails.
// Neither provider is retried; chains longer than two nest fallbacks.
type FallbackLLMClient struct {
	primary  LLMClient
	fallback LLMClient
	logger   *logging.Logger
}

// NewFallbackLLMClient pairs primary with an optional fallback.
func NewFallbackLLMClient(primary, fallback LLMClient, logger *logging.Logger) *FallbackLLMClient {
	if primary == nil {
		panic("conversation: primary llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{primary: primary, fallback: fallback, logger: logger}
}

// Provider names the chain, e.g. "groq>gemini>bedrock".
func (c *FallbackLLMClient) Provider() string {
	if c.fallback == nil {
		return providerName(c.primary)
	}
	return providerName(c.primary) + ">" + providerName(c.fallback)
}

// Complete answers with the primary, or with the fallback when the primary
// fails and ctx is still live. The response keeps the answering provider's name. When both fail the error wraps both causes.
func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}
	if c.fallback == nil || ctx.Err() != nil {
		return LLMResponse{}, err
	}

	primary, fallback := providerName(c.primary), providerName(c.fallback)
	c.logger.Warn("completion provider failed, trying fallback",
		"provider", primary,
		"fallback", fallback,
		"error", err,
	)

	resp, fallbackErr := c.fallback.Complete(ctx, req)
	if fallbackErr != nil {
		return LLMResponse{}, fmt.Errorf("conversation: %s and %s failed: %w", primary, fallback, errors.Join(err, fallbackErr))
	}
	c.logger.Info("fallback provider answered", "provider", fallback)
	return resp, nil
}
