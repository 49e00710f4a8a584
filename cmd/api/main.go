package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/naturesvirtue-bot/cmd/mainconfig"
	"github.com/wolfman30/naturesvirtue-bot/internal/api/router"
	"github.com/wolfman30/naturesvirtue-bot/internal/app/bootstrap"
	"github.com/wolfman30/naturesvirtue-bot/internal/assistant"
	"github.com/wolfman30/naturesvirtue-bot/internal/bot"
	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
	appconfig "github.com/wolfman30/naturesvirtue-bot/internal/config"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/events"
	"github.com/wolfman30/naturesvirtue-bot/internal/http/handlers"
	"github.com/wolfman30/naturesvirtue-bot/internal/intent"
	"github.com/wolfman30/naturesvirtue-bot/internal/observability/metrics"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	startedAt := time.Now()
	logger.Info("starting naturesvirtue WhatsApp bot",
		"env", cfg.Env,
		"port", cfg.Port,
		"model", cfg.LLMModelID,
		"groq_configured", cfg.GroqConfigured(),
		"whatsapp_configured", cfg.WhatsAppConfigured(),
	)

	ctx := context.Background()

	metricsHandler, botMetrics, gatherer := setupMetrics()

	bedrock, err := mainconfig.BedrockClient(ctx, cfg)
	if err != nil {
		logger.Warn("bedrock disabled: failed to load AWS config", "error", err)
	}
	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, bedrock, logger)
	if err != nil {
		logger.Error("failed to build completion client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeLLM(); err != nil {
			logger.Warn("failed to close completion client", "error", err)
		}
	}()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	dedup := bootstrap.BuildProcessedStore(redisClient, cfg, logger)

	cat := catalog.NaturesVirtue()
	store := conversation.NewStore(cfg.MaxHistory)
	orchestrator := setupOrchestrator(cfg, llm, cat, store, dedup, botMetrics, logger)

	dispatcher := bot.NewDispatcher(orchestrator, logger)
	webhook := whatsapp.NewWebhookHandler(cfg.VerifyToken, cfg.WhatsAppAppSecret, func(event whatsapp.WebhookEvent) {
		if !dispatcher.Dispatch(event) {
			logger.Warn("webhook event dropped during shutdown")
		}
	}).WithLogger(logger)

	info := handlers.ServiceInfo{
		StartedAt:          startedAt,
		ModelID:            cfg.LLMModelID,
		MessageLimit:       cfg.MessageLimit,
		GroqConfigured:     cfg.GroqConfigured(),
		WhatsAppConfigured: cfg.WhatsAppConfigured(),
	}
	r := router.New(&router.Config{
		Logger:          logger,
		Webhook:         webhook,
		Conversations:   handlers.NewConversationsHandler(store, logger),
		Health:          handlers.NewHealthHandler(info, store, cat),
		Dashboard:       handlers.NewDashboardHandler(info, store, cat, gatherer, logger),
		MetricsHandler:  metricsHandler,
		AdminAuthSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"webhook", "/webhook",
			"products", cat.TotalProducts(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("in-flight webhook work abandoned", "error", err)
	}
	store.Reset()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers the bot collectors on a dedicated registry together
// with the process and Go runtime collectors.
func setupMetrics() (http.Handler, *metrics.BotMetrics, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	botMetrics := metrics.NewBotMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), botMetrics, reg
}

func setupOrchestrator(
	cfg *appconfig.Config,
	llm conversation.LLMClient,
	cat *catalog.Catalog,
	store *conversation.Store,
	dedup events.ProcessedStore,
	botMetrics *metrics.BotMetrics,
	logger *logging.Logger,
) *bot.Orchestrator {
	replier := assistant.NewClient(llm, cat, assistant.Options{
		Model:    cfg.LLMModelID,
		Timeout:  cfg.LLMTimeout,
		Recorder: botMetrics,
		Logger:   logger,
	})

	client := whatsapp.NewClient(cfg.WhatsAppToken, cfg.PhoneNumberID)
	client.SetGraphAPIBase(cfg.GraphAPIBase)
	deliverer := whatsapp.NewDeliverer(client, whatsapp.DeliveryConfig{
		MessageLimit: cfg.MessageLimit,
		Pacer:        whatsapp.FixedDelay(cfg.ChunkDelay),
		SendTimeout:  cfg.WhatsAppSendTimeout,
		Recorder:     botMetrics,
		Logger:       logger,
	})

	return bot.New(bot.Config{
		Store:      store,
		Classifier: intent.NewPatternClassifier(nil),
		Assistant:  replier,
		Delivery:   deliverer,
		Dedup:      dedup,
		Metrics:    botMetrics,
		Logger:     logger,
	})
}
