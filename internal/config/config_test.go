package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "GROQ_API_KEY", "WHATSAPP_TOKEN", "MESSAGE_LIMIT", "CHUNK_DELAY", "MAX_HISTORY", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.MessageLimit != 4000 {
		t.Fatalf("expected default message limit, got %d", cfg.MessageLimit)
	}
	if cfg.ChunkDelay != 500*time.Millisecond {
		t.Fatalf("expected default chunk delay, got %s", cfg.ChunkDelay)
	}
	if cfg.MaxHistory != 10 {
		t.Fatalf("expected default history size, got %d", cfg.MaxHistory)
	}
	if cfg.LLMModelID != "llama-3.3-70b-versatile" {
		t.Fatalf("expected default model, got %s", cfg.LLMModelID)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.GroqConfigured() || cfg.WhatsAppConfigured() {
		t.Fatalf("expected credentials to be reported missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("WHATSAPP_TOKEN", "EAAB")
	t.Setenv("PHONE_NUMBER_ID", "1234567890")
	t.Setenv("GRAPH_API_BASE", "https://graph.example.com/v22.0/")
	t.Setenv("MESSAGE_LIMIT", "1500")
	t.Setenv("CHUNK_DELAY", "1s")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("LLM_TIMEOUT", "not-a-duration")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if !cfg.GroqConfigured() || !cfg.WhatsAppConfigured() {
		t.Fatalf("expected credentials to be reported configured")
	}
	if cfg.PhoneNumberID != "1234567890" {
		t.Fatalf("expected phone number id override, got %s", cfg.PhoneNumberID)
	}
	if cfg.GraphAPIBase != "https://graph.example.com/v22.0" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.GraphAPIBase)
	}
	if cfg.MessageLimit != 1500 {
		t.Fatalf("expected message limit override, got %d", cfg.MessageLimit)
	}
	if cfg.ChunkDelay != time.Second {
		t.Fatalf("expected chunk delay override, got %s", cfg.ChunkDelay)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("expected invalid duration to fall back to default, got %s", cfg.LLMTimeout)
	}
}
