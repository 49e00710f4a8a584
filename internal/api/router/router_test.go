package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/http/handlers"
	"github.com/wolfman30/naturesvirtue-bot/internal/observability/metrics"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []whatsapp.WebhookEvent
}

func (c *capturedEvents) add(e whatsapp.WebhookEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *capturedEvents) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newTestRouter(t *testing.T, adminSecret string) (http.Handler, *conversation.Store, *capturedEvents) {
	t.Helper()

	logger := logging.Default()
	store := conversation.NewStore(10)
	cat := catalog.NaturesVirtue()
	reg := prometheus.NewRegistry()
	metrics.NewBotMetrics(reg)
	info := handlers.ServiceInfo{StartedAt: time.Now(), ModelID: "test-model", MessageLimit: 4000}
	captured := &capturedEvents{}

	cfg := &Config{
		Logger:          logger,
		Webhook:         whatsapp.NewWebhookHandler("verify-me", "", captured.add),
		Conversations:   handlers.NewConversationsHandler(store, logger),
		Health:          handlers.NewHealthHandler(info, store, cat),
		Dashboard:       handlers.NewDashboardHandler(info, store, cat, reg, logger),
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AdminAuthSecret: adminSecret,
	}
	return New(cfg), store, captured
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", resp["status"])
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected X-Request-ID header")
	}
}

func TestRouterDashboardAndMetrics(t *testing.T) {
	router, _, _ := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Nature") {
		t.Errorf("dashboard should render the shop name")
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "naturesvirtue_bot_active_conversations") {
		t.Errorf("expected bot collectors in /metrics output")
	}
}

func TestRouterWebhookVerification(t *testing.T) {
	router, _, _ := newTestRouter(t, "")

	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", "verify-me")
	q.Set("hub.challenge", "12345")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "12345" {
		t.Fatalf("expected challenge echo, got %d %q", rr.Code, rr.Body.String())
	}

	q.Set("hub.verify_token", "wrong")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRouterWebhookInbound(t *testing.T) {
	router, _, captured := newTestRouter(t, "")

	body := []byte(`{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messaging_product":"whatsapp","messages":[{"from":"94771234567","id":"wamid.1","timestamp":"1700000000","type":"text","text":{"body":"hi"}}]}}]}]}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if captured.len() != 1 {
		t.Fatalf("expected 1 dispatched event, got %d", captured.len())
	}
}

func TestRouterConversationsOpenWithoutSecret(t *testing.T) {
	router, store, _ := newTestRouter(t, "")
	store.Append("94771234567", conversation.ChatRoleUser, "hello")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/conversations", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp handlers.ConversationsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 conversation, got %d", resp.Total)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/conversations/94771234567", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if store.Count() != 0 {
		t.Fatalf("expected conversation removed")
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/conversations/94771234567", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRouterConversationsRequireJWTWhenConfigured(t *testing.T) {
	router, _, _ := newTestRouter(t, "admin-secret")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/conversations", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := token.SignedString([]byte("admin-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rr.Code)
	}
}
