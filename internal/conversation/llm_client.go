package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ErrNoMessages is returned by providers when a request has no turns to answer.
var ErrNoMessages = errors.New("conversation: request has no messages")

// ChatMessage is one role-tagged turn. History entries only use the user and
// assistant roles; system is reserved for prompt assembly.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage is the provider-reported token accounting for one completion.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest is a provider-neutral completion request. A negative Temperature
// leaves sampling temperature at the provider default; zero TopP and MaxTokens
// do the same for those knobs.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// SystemText joins the system blocks the way every provider expects them.
func (r LLMRequest) SystemText() string {
	return strings.TrimSpace(strings.Join(r.System, "\n\n"))
}

// lastTurn splits the request into prior turns and the turn to answer.
func (r LLMRequest) lastTurn() ([]ChatMessage, ChatMessage, error) {
	if len(r.Messages) == 0 {
		return nil, ChatMessage{}, ErrNoMessages
	}
	n := len(r.Messages) - 1
	return r.Messages[:n], r.Messages[n], nil
}

// LLMResponse is the generated text plus whatever metadata the provider gave.
type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
	// Provider names the backend that produced Text.
	Provider string
}

// LLMClient is one completion provider.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// namedProvider is implemented by clients that can label themselves in logs.
type namedProvider interface {
	Provider() string
}

func providerName(c LLMClient) string {
	if n, ok := c.(namedProvider); ok {
		return n.Provider()
	}
	return fmt.Sprintf("%T", c)
}

func checkRole(provider, role string) error {
	switch role {
	case ChatRoleSystem, ChatRoleUser, ChatRoleAssistant:
		return nil
	default:
		return fmt.Errorf("conversation: %s: unsupported role %q", provider, role)
	}
}
