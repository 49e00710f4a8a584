package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/naturesvirtue-bot/cmd/mainconfig"
	"github.com/wolfman30/naturesvirtue-bot/internal/app/bootstrap"
	"github.com/wolfman30/naturesvirtue-bot/internal/assistant"
	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	appconfig "github.com/wolfman30/naturesvirtue-bot/internal/config"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/intent"
	"github.com/wolfman30/naturesvirtue-bot/internal/language"
	"github.com/wolfman30/naturesvirtue-bot/internal/messaging"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

func main() {
	prompt := flag.String("prompt", "What cereals do you have for babies?", "customer message to send")
	withHistory := flag.Bool("history", false, "prepend a short prior exchange")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	bedrock, err := mainconfig.BedrockClient(ctx, cfg)
	if err != nil {
		fmt.Printf("⚠️  Bedrock disabled: %v\n", err)
	}
	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, bedrock, logger)
	if err != nil {
		fmt.Printf("❌ Failed to build completion client: %v\n", err)
		os.Exit(1)
	}
	defer closeLLM()

	divider := strings.Repeat("=", 60)
	fmt.Println(divider)
	fmt.Println("Nature's Virtue completion smoke test")
	fmt.Println(divider)

	lang := language.Detect(*prompt)
	fmt.Printf("Message:  %s\n", *prompt)
	fmt.Printf("Language: %s\n", lang.DisplayName())

	if decision := intent.NewPatternClassifier(nil).Classify(*prompt); !decision.OnTopic {
		fmt.Printf("Intent:   off-topic (%s), the bot would reply:\n\n%s\n", decision.Label, messaging.OffTopicMessage(lang))
		return
	}

	var history []conversation.ChatMessage
	if *withHistory {
		history = []conversation.ChatMessage{
			{Role: conversation.ChatRoleUser, Content: "Hi, do you sell herbal drinks?"},
			{Role: conversation.ChatRoleAssistant, Content: "Yes! We have several herbal drinks. Would you like the list?"},
		}
	}

	client := assistant.NewClient(llm, catalog.NaturesVirtue(), assistant.Options{
		Model:   cfg.LLMModelID,
		Timeout: cfg.LLMTimeout,
		Logger:  logger,
	})

	start := time.Now()
	reply, err := client.Complete(ctx, *prompt, lang, history)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("❌ Completion failed after %v: %v\n", elapsed.Round(time.Millisecond), err)
		os.Exit(1)
	}

	chunks := messaging.Split(reply, cfg.MessageLimit)
	fmt.Printf("✅ Reply (%v, %d chunk(s)):\n\n%s\n", elapsed.Round(time.Millisecond), len(chunks), reply)
}
