package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/naturesvirtue-bot/internal/config"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// ErrNoProvider is returned by the placeholder client used when no completion
// credentials are configured. The server still starts so /health can report it.
var ErrNoProvider = errors.New("bootstrap: no completion provider configured")

type unconfiguredLLM struct{}

func (unconfiguredLLM) Complete(context.Context, conversation.LLMRequest) (conversation.LLMResponse, error) {
	return conversation.LLMResponse{}, ErrNoProvider
}

// BuildLLMClient wires the completion provider chain from config in priority
// order Groq, Gemini, Bedrock. Each later provider is the fallback of the one
// before it. bedrock may be nil when BEDROCK_MODEL_ID is unset.
// The returned closer releases provider resources and is never nil.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, bedrock *bedrockruntime.Client, logger *logging.Logger) (conversation.LLMClient, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var chain []conversation.LLMClient
	closer := func() error { return nil }

	if cfg.GroqConfigured() {
		groq, err := conversation.NewGroqLLMClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.LLMModelID, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: groq client: %w", err)
		}
		chain = append(chain, groq)
		logger.Info("completion provider enabled", "provider", "groq", "model", cfg.LLMModelID)
	}

	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("gemini client unavailable", "error", err)
		} else {
			chain = append(chain, gemini)
			closer = gemini.Close
			logger.Info("completion provider enabled", "provider", "gemini", "model", cfg.GeminiModelID)
		}
	}

	if bedrock != nil && strings.TrimSpace(cfg.BedrockModelID) != "" {
		chain = append(chain, conversation.NewBedrockLLMClient(bedrock, cfg.BedrockModelID))
		logger.Info("completion provider enabled", "provider", "bedrock", "model", cfg.BedrockModelID)
	}

	if len(chain) == 0 {
		logger.Warn("no completion provider configured; replies will fail with the error notice")
		return unconfiguredLLM{}, closer, nil
	}

	client := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		client = conversation.NewFallbackLLMClient(chain[i], client, logger)
	}
	return client, closer, nil
}
