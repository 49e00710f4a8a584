package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Generation service
	GroqAPIKey     string
	GroqBaseURL    string
	LLMModelID     string
	LLMTimeout     time.Duration
	GeminiAPIKey   string
	GeminiModelID  string
	BedrockModelID string

	// WhatsApp Cloud API
	WhatsAppToken       string
	PhoneNumberID       string
	VerifyToken         string
	WhatsAppAppSecret   string
	GraphAPIBase        string
	WhatsAppSendTimeout time.Duration
	MessageLimit        int
	ChunkDelay          time.Duration

	MaxHistory int

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	DedupTTL      time.Duration

	AdminJWTSecret string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:    getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModelID:     getEnv("LLM_MODEL_ID", "llama-3.3-70b-versatile"),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),

		WhatsAppToken:       getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:       getEnv("PHONE_NUMBER_ID", ""),
		VerifyToken:         getEnv("VERIFY_TOKEN", ""),
		WhatsAppAppSecret:   getEnv("WHATSAPP_APP_SECRET", ""),
		GraphAPIBase:        strings.TrimRight(getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v21.0"), "/"),
		WhatsAppSendTimeout: getEnvAsDuration("WHATSAPP_SEND_TIMEOUT", 10*time.Second),
		MessageLimit:        getEnvAsInt("MESSAGE_LIMIT", 4000),
		ChunkDelay:          getEnvAsDuration("CHUNK_DELAY", 500*time.Millisecond),

		MaxHistory: getEnvAsInt("MAX_HISTORY", 10),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		DedupTTL:      getEnvAsDuration("DEDUP_TTL", 24*time.Hour),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// GroqConfigured reports whether the primary generation credential is present.
func (c *Config) GroqConfigured() bool {
	return strings.TrimSpace(c.GroqAPIKey) != ""
}

// WhatsAppConfigured reports whether outbound sends can be authenticated.
func (c *Config) WhatsAppConfigured() bool {
	return strings.TrimSpace(c.WhatsAppToken) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
