package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wolfman30/naturesvirtue-bot/internal/bot"
	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
	appconfig "github.com/wolfman30/naturesvirtue-bot/internal/config"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/events"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, botMetrics, gatherer := setupMetrics()
	if handler == nil || botMetrics == nil || gatherer == nil {
		t.Fatalf("expected non-nil handler, metrics and gatherer")
	}

	botMetrics.ObserveInbound("responded")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "naturesvirtue_bot_inbound_events_total") {
		t.Fatalf("expected inbound counter to be exported")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected go runtime collector")
	}
}

type stubLLM struct {
	reply string
}

func (s stubLLM) Complete(_ context.Context, _ conversation.LLMRequest) (conversation.LLMResponse, error) {
	return conversation.LLMResponse{Text: s.reply}, nil
}

type graphAPI struct {
	mu     sync.Mutex
	bodies []string
}

func (g *graphAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/PNID/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req whatsapp.SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		g.mu.Lock()
		g.bodies = append(g.bodies, req.Text.Body)
		g.mu.Unlock()
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.out"}]}`))
	}
}

func (g *graphAPI) sent() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.bodies...)
}

func TestSetupOrchestratorEndToEnd(t *testing.T) {
	api := &graphAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	cfg := &appconfig.Config{
		LLMModelID:          "test-model",
		LLMTimeout:          time.Second,
		WhatsAppToken:       "token",
		PhoneNumberID:       "PNID",
		GraphAPIBase:        srv.URL,
		WhatsAppSendTimeout: time.Second,
		MessageLimit:        4000,
		ChunkDelay:          0,
		MaxHistory:          10,
	}
	_, botMetrics, _ := setupMetrics()
	store := conversation.NewStore(cfg.MaxHistory)
	orch := setupOrchestrator(cfg, stubLLM{reply: "Herali Cereal is Rs. 1,250."}, catalog.NaturesVirtue(), store,
		events.NewMemoryProcessedStore(time.Hour), botMetrics, logging.New("error"))

	event := whatsapp.WebhookEvent{Entry: []whatsapp.Entry{{Changes: []whatsapp.Change{{Value: whatsapp.Value{
		Messages: []whatsapp.Message{{
			From: "94771234567",
			ID:   "wamid.in",
			Type: whatsapp.MessageTypeText,
			Text: &whatsapp.Text{Body: "How much is Herali Cereal?"},
		}},
	}}}}}}

	outcome, err := orch.HandleEvent(context.Background(), event)
	if err != nil || outcome != bot.OutcomeResponded {
		t.Fatalf("expected responded, got %s %v", outcome, err)
	}
	if got := api.sent(); len(got) != 1 || got[0] != "Herali Cereal is Rs. 1,250." {
		t.Fatalf("unexpected sends %v", got)
	}
	if history := store.History("94771234567"); len(history) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(history))
	}

	outcome, _ = orch.HandleEvent(context.Background(), event)
	if outcome != bot.OutcomeDuplicate {
		t.Fatalf("expected duplicate on redelivery, got %s", outcome)
	}
}
