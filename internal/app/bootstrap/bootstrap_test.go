package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/naturesvirtue-bot/internal/config"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/events"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

func TestBuildRedisClientDisabled(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, true))
}

func TestBuildRedisClientVerifies(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := logging.New("error")

	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true))
}

func TestBuildProcessedStore(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{DedupTTL: time.Hour}

	_, ok := BuildProcessedStore(nil, cfg, logger).(*events.MemoryProcessedStore)
	assert.True(t, ok, "nil client should fall back to memory")

	mr := miniredis.RunT(t)
	cfg.RedisAddr = mr.Addr()
	client := BuildRedisClient(context.Background(), cfg, logger, true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	store := BuildProcessedStore(client, cfg, logger)
	_, ok = store.(*events.RedisProcessedStore)
	require.True(t, ok)

	first, err := store.MarkProcessed(context.Background(), "whatsapp", "wamid.1")
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, time.Hour, mr.TTL("processed:whatsapp:wamid.1"))
}

func TestBuildLLMClientRequiresConfig(t *testing.T) {
	_, _, err := BuildLLMClient(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}

func TestBuildLLMClientWithoutProviders(t *testing.T) {
	client, closer, err := BuildLLMClient(context.Background(), &appconfig.Config{}, nil, logging.New("error"))
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.NoError(t, closer())

	_, err = client.Complete(context.Background(), conversation.LLMRequest{})
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestBuildLLMClientChain(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		GroqAPIKey: "gsk_test",
		LLMModelID: "llama-3.3-70b-versatile",
	}

	client, _, err := BuildLLMClient(context.Background(), cfg, nil, logger)
	require.NoError(t, err)
	_, ok := client.(*conversation.GroqLLMClient)
	assert.True(t, ok, "single provider should not be wrapped")

	cfg.BedrockModelID = "anthropic.claude-3-haiku"
	bedrock := bedrockruntime.NewFromConfig(aws.Config{Region: "us-east-1"})
	client, _, err = BuildLLMClient(context.Background(), cfg, bedrock, logger)
	require.NoError(t, err)
	_, ok = client.(*conversation.FallbackLLMClient)
	assert.True(t, ok, "groq with bedrock should be a fallback chain")
}

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(&appconfig.Config{RedisAddr: " cache:6379 ", RedisPassword: "pw", RedisTLS: true})
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	require.NotNil(t, opts.TLSConfig)

	assert.Nil(t, redisOptions(&appconfig.Config{RedisAddr: "cache:6379"}).TLSConfig)
}
